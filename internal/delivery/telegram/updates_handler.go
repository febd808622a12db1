// internal/delivery/telegram/updates_handler.go
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"trader-journal-bot/internal/infrastructure/config"
	tgtypes "trader-journal-bot/internal/types/telegram"
	"trader-journal-bot/pkg/logger"
)

// Conversation - ядро диалога, которому передаются сообщения
type Conversation interface {
	StartLogging(ctx context.Context, userID int64, link string) string
	HandleText(ctx context.Context, userID int64, text string) string
}

// StatsProvider - метрики для команды /stats
type StatsProvider interface {
	FormatStats(ctx context.Context, userID int64) string
}

// UpdatesHandler - long-polling обработчик обновлений Telegram.
// Сообщения одного пользователя обрабатываются строго в порядке прихода
// через очередь на пользователя; разные пользователи — параллельно.
type UpdatesHandler struct {
	cfg   *config.TelegramConfig
	bot   *Bot
	conv  Conversation
	stats StatsProvider

	// polling-клиент с таймаутом больше long-polling окна Telegram
	httpClient   *http.Client
	lastUpdateID int64

	// Очереди сообщений по пользователям. Воркер на пользователя живет,
	// пока очередь не опустеет.
	queueMu sync.Mutex
	queues  map[int64][]tgtypes.Message

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewUpdatesHandler создает обработчик обновлений
func NewUpdatesHandler(cfg *config.TelegramConfig, bot *Bot, conv Conversation, stats StatsProvider) *UpdatesHandler {
	return &UpdatesHandler{
		cfg:   cfg,
		bot:   bot,
		conv:  conv,
		stats: stats,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.PollTimeout+5) * time.Second,
		},
		queues:   make(map[int64][]tgtypes.Message),
		stopChan: make(chan struct{}),
	}
}

// Start запускает polling в фоновой горутине
func (uh *UpdatesHandler) Start() {
	logger.Info("🔄 [Telegram] Запуск long-polling (timeout=%ds)", uh.cfg.PollTimeout)
	uh.wg.Add(1)
	go func() {
		defer uh.wg.Done()
		uh.pollLoop()
	}()
}

// Stop останавливает polling и дожидается активных обработчиков
func (uh *UpdatesHandler) Stop() {
	uh.stopOnce.Do(func() {
		close(uh.stopChan)
	})
	uh.wg.Wait()
	logger.Info("🛑 [Telegram] Polling остановлен")
}

func (uh *UpdatesHandler) pollLoop() {
	for {
		select {
		case <-uh.stopChan:
			return
		default:
		}

		updates, err := uh.fetchUpdates()
		if err != nil {
			logger.Warn("⚠️ [Telegram] getUpdates: %v", err)
			// Пауза перед повтором, чтобы не крутить ошибку в цикле
			select {
			case <-time.After(3 * time.Second):
			case <-uh.stopChan:
				return
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= uh.lastUpdateID {
				uh.lastUpdateID = update.UpdateID + 1
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			uh.enqueue(*update.Message)
		}
	}
}

// enqueue ставит сообщение в очередь пользователя и при необходимости
// запускает воркер. Пока очередь не пуста, воркер ровно один — сообщения
// одного пользователя никогда не меняются местами.
func (uh *UpdatesHandler) enqueue(msg tgtypes.Message) {
	userID := msg.From.ID

	uh.queueMu.Lock()
	uh.queues[userID] = append(uh.queues[userID], msg)
	startWorker := len(uh.queues[userID]) == 1
	uh.queueMu.Unlock()

	if startWorker {
		uh.wg.Add(1)
		go uh.drainUser(userID)
	}
}

// drainUser обрабатывает очередь одного пользователя до опустошения.
// Обработанное сообщение снимается с очереди только после завершения,
// чтобы enqueue не запустил второй воркер параллельно.
func (uh *UpdatesHandler) drainUser(userID int64) {
	defer uh.wg.Done()

	for {
		uh.queueMu.Lock()
		queue := uh.queues[userID]
		if len(queue) == 0 {
			delete(uh.queues, userID)
			uh.queueMu.Unlock()
			return
		}
		msg := queue[0]
		uh.queueMu.Unlock()

		uh.handleMessage(msg)

		uh.queueMu.Lock()
		uh.queues[userID] = uh.queues[userID][1:]
		uh.queueMu.Unlock()
	}
}

// fetchUpdates выполняет один запрос getUpdates
func (uh *UpdatesHandler) fetchUpdates() ([]tgtypes.Update, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=%d",
		uh.cfg.APIBaseURL, uh.cfg.BotToken, uh.lastUpdateID, uh.cfg.PollTimeout)

	resp, err := uh.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("UpdatesHandler.fetchUpdates: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("UpdatesHandler.fetchUpdates: read: %w", err)
	}

	var parsed tgtypes.UpdatesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("UpdatesHandler.fetchUpdates: unmarshal: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("UpdatesHandler.fetchUpdates: telegram API: %s", parsed.Description)
	}

	return parsed.Result, nil
}

// handleMessage обрабатывает одно входящее сообщение. Паника в обработчике
// не должна уронить процесс или задеть сессии других пользователей.
func (uh *UpdatesHandler) handleMessage(msg tgtypes.Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("❌ [Telegram] паника в обработчике user=%d: %v", msg.From.ID, r)
			uh.reply(msg.Chat.ID, "😵 Something glitched on my side. Please try again.")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	var response string
	if strings.HasPrefix(text, "/") {
		response = uh.dispatchCommand(ctx, msg, text)
	} else {
		response = uh.conv.HandleText(ctx, msg.From.ID, text)
	}

	if response != "" {
		uh.reply(msg.Chat.ID, response)
	}
}

// dispatchCommand разбирает команду и вызывает нужный обработчик
func (uh *UpdatesHandler) dispatchCommand(ctx context.Context, msg tgtypes.Message, text string) string {
	fields := strings.Fields(text)
	command := fields[0]
	// /logtrade@JournalBot → /logtrade
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}

	switch command {
	case "/start":
		return replyGreeting
	case "/logtrade":
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}
		return uh.conv.StartLogging(ctx, msg.From.ID, arg)
	case "/stats":
		return uh.stats.FormatStats(ctx, msg.From.ID)
	default:
		logger.Debug("💬 [Telegram] неизвестная команда от user=%d: %s", msg.From.ID, command)
		return replyUnknownCommand
	}
}

func (uh *UpdatesHandler) reply(chatID int64, text string) {
	if err := uh.bot.SendMessage(chatID, text); err != nil {
		logger.Error("❌ [Telegram] отправка в chat=%d: %v", chatID, err)
	}
}
