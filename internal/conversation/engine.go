// internal/conversation/engine.go
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"trader-journal-bot/internal/infrastructure/persistence/postgres/models"
	"trader-journal-bot/internal/parser"
	"trader-journal-bot/internal/sentiment"
	"trader-journal-bot/pkg/logger"
)

// Classifier - анализ эмоций записи. Никогда не возвращает ошибку:
// сбои сервиса превращаются в neutral внутри реализации.
type Classifier interface {
	Classify(ctx context.Context, text string) sentiment.Result
}

// TradeWriter - запись завершенной сделки в журнал
type TradeWriter interface {
	Insert(ctx context.Context, trade *models.TradeRecord) error
}

// Engine - конечный автомат диалога логирования сделок.
// Последовательность фаз на пользователя:
//
//	Idle → AwaitingOutcome → AwaitingSentiment → Idle (запись)
//
// Обработка сообщений одного пользователя сериализована; разные
// пользователи обрабатываются независимо.
type Engine struct {
	store      SessionStore
	classifier Classifier
	trades     TradeWriter
	locks      sync.Map // userID → *sync.Mutex
}

func NewEngine(store SessionStore, classifier Classifier, trades TradeWriter) *Engine {
	return &Engine{
		store:      store,
		classifier: classifier,
		trades:     trades,
	}
}

// lockUser сериализует обработку сообщений одного пользователя.
// Транспорт может доставить повторы параллельно — гонки по одной
// сессии исключаются здесь, а не полагаются на удачу.
func (e *Engine) lockUser(userID int64) func() {
	v, _ := e.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// StartLogging начинает диалог по команде /logtrade.
// Невалидная ссылка оставляет сессию в Idle.
func (e *Engine) StartLogging(ctx context.Context, userID int64, link string) string {
	defer e.lockUser(userID)()

	if !ValidTradeLink(link) {
		return replyInvalidLink
	}

	session, err := e.store.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error("❌ [Conversation] user=%d: чтение сессии: %v", userID, err)
		return replyInternalError
	}

	session.reset()
	session.Phase = PhaseAwaitingOutcome
	session.PendingLink = link
	session.UpdatedAt = time.Now().UTC()

	if err := e.store.Save(ctx, session); err != nil {
		logger.Error("❌ [Conversation] user=%d: сохранение сессии: %v", userID, err)
		return replyInternalError
	}

	logger.Debug("💬 [Conversation] user=%d: idle → awaiting_outcome", userID)
	return replyAskOutcome
}

// HandleText обрабатывает свободный текст согласно текущей фазе сессии
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) string {
	defer e.lockUser(userID)()

	text = strings.TrimSpace(text)

	session, err := e.store.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error("❌ [Conversation] user=%d: чтение сессии: %v", userID, err)
		return replyInternalError
	}

	switch session.Phase {
	case PhaseAwaitingOutcome:
		return e.handleOutcome(ctx, session, text)
	case PhaseAwaitingSentiment:
		return e.commit(ctx, session, text)
	default:
		return e.handleIdleText(text)
	}
}

// handleOutcome разбирает результат сделки. Неразборчивый ввод не меняет
// сессию — пользователь пробует снова.
func (e *Engine) handleOutcome(ctx context.Context, session *Session, text string) string {
	outcome, ok := parser.ParseOutcome(text)
	if !ok {
		return replyRetryOutcome
	}

	session.PendingOutcome = outcome
	session.Phase = PhaseAwaitingSentiment
	session.UpdatedAt = time.Now().UTC()

	if err := e.store.Save(ctx, session); err != nil {
		logger.Error("❌ [Conversation] user=%d: сохранение сессии: %v", session.UserID, err)
		return replyInternalError
	}

	logger.Debug("💬 [Conversation] user=%d: awaiting_outcome → awaiting_sentiment (outcome=%+d)",
		session.UserID, outcome)
	return replyAskSentiment
}

// commit завершает диалог: классификация, сборка записи, одна попытка
// вставки. Сессия возвращается в Idle независимо от исхода — повторная
// запись не выполняется, пользователь при сбое начинает заново.
func (e *Engine) commit(ctx context.Context, session *Session, notes string) string {
	result := e.classifier.Classify(ctx, notes)

	record := &models.TradeRecord{
		UserID:    session.UserID,
		TradeLink: session.PendingLink,
		Outcome:   session.PendingOutcome,
		Sentiment: string(result.Sentiment),
		Notes:     notes,
		LoggedAt:  time.Now().UTC(),
	}

	insertErr := e.trades.Insert(ctx, record)

	session.reset()
	session.UpdatedAt = time.Now().UTC()
	if err := e.store.Save(ctx, session); err != nil {
		logger.Error("❌ [Conversation] user=%d: сброс сессии: %v", session.UserID, err)
	}

	if insertErr != nil {
		logger.Error("❌ [Conversation] user=%d: запись сделки не сохранена: %v",
			session.UserID, insertErr)
		return replySaveFailed
	}

	logger.Trade(record.UserID, record.Outcome, record.Sentiment)

	reply := fmt.Sprintf("Logged! Detected: %s sentiment\n\n",
		strings.ToUpper(string(result.Sentiment)))
	if result.Advice != "" {
		reply += "💡 Advice: " + result.Advice
	}
	return reply
}

// handleIdleText - свободный текст вне диалога
func (e *Engine) handleIdleText(text string) string {
	switch strings.ToLower(text) {
	case "help", "how to use":
		return replyHelp
	default:
		return replyNudge
	}
}

// ValidTradeLink проверяет кандидата на ссылку графика: защищенная
// схема и домен TradingView, без учета регистра
func ValidTradeLink(link string) bool {
	l := strings.ToLower(strings.TrimSpace(link))
	return strings.HasPrefix(l, "https://") && strings.Contains(l, "tradingview.com")
}
