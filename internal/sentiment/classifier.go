// internal/sentiment/classifier.go
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trader-journal-bot/pkg/logger"

	"github.com/google/uuid"
)

// Sentiment - словарь эмоций трейдера
type Sentiment string

const (
	SentimentConfident    Sentiment = "confident"
	SentimentUncertain    Sentiment = "uncertain"
	SentimentFrustrated   Sentiment = "frustrated"
	SentimentDisappointed Sentiment = "disappointed"
	SentimentSurprised    Sentiment = "surprised"
	SentimentNeutral      Sentiment = "neutral"
	SentimentDisgusted    Sentiment = "disgusted"
)

// sentimentMap - отображение меток классификатора эмоций в словарь трейдера.
// Неизвестные метки дают neutral.
var sentimentMap = map[string]Sentiment{
	"joy":      SentimentConfident,
	"fear":     SentimentUncertain,
	"anger":    SentimentFrustrated,
	"sadness":  SentimentDisappointed,
	"surprise": SentimentSurprised,
	"neutral":  SentimentNeutral,
	"disgust":  SentimentDisgusted,
}

// sentimentAdvice - торговые советы по эмоциям. Определены только для
// четырех состояний, остальные остаются без совета.
var sentimentAdvice = map[Sentiment]string{
	SentimentConfident:    "🚀 Confidence is key! Remember to always protect profits with a trailing stop.",
	SentimentFrustrated:   "🔥 Frustration is normal. Take a break and revisit your strategy with fresh eyes.",
	SentimentDisappointed: "😞 Don't let this shake your confidence. Every trader has off days.",
	SentimentUncertain:    "🤔 Uncertainty means you need clearer rules. Review your trading plan.",
}

const (
	adviceStopLoss      = "🛑 You mentioned stop-loss - did you stick to your plan? Adjust if needed!"
	adviceOverleveraged = "⚠️ Overleveraged? Reduce position size to stay calm."

	fallbackServiceError   = "My sentiment analysis is having a moment 🙃 Let's log it anyway!"
	fallbackTransportError = "Hmm, my brain glitched! Let's focus on the numbers for now."
)

// Result - итог классификации одной записи
type Result struct {
	Sentiment Sentiment
	Advice    string
	RawLabel  string
}

// labelScore - пара (метка, уверенность) из ответа сервиса
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier - клиент внешнего сервиса классификации эмоций
type Classifier struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// NewClassifier создает классификатор с ограниченным таймаутом
func NewClassifier(apiURL, token string, timeout time.Duration) *Classifier {
	return &Classifier{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		token:      token,
	}
}

// Classify определяет эмоцию текста и подбирает совет. Никогда не
// возвращает ошибку: любой сбой внешнего сервиса дает neutral с
// фиксированным сообщением — анализ не должен блокировать запись сделки.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	requestID := uuid.New().String()[:8]

	scores, err := c.classifyRaw(ctx, text)
	if err != nil {
		logger.Warn("⚠️ [Sentiment] req=%s классификация не удалась: %v", requestID, err)
		return Result{Sentiment: SentimentNeutral, Advice: fallbackAdvice(err)}
	}

	raw := topLabel(scores)
	sentiment, ok := sentimentMap[raw]
	if !ok {
		sentiment = SentimentNeutral
	}

	logger.Debug("🧠 [Sentiment] req=%s метка=%s → %s", requestID, raw, sentiment)

	return Result{
		Sentiment: sentiment,
		Advice:    selectAdvice(text, sentiment),
		RawLabel:  raw,
	}
}

// classifyRaw выполняет запрос к inference API и разбирает ответ
func (c *Classifier) classifyRaw(ctx context.Context, text string) ([]labelScore, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("Classifier.classifyRaw: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("Classifier.classifyRaw: request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Classifier.classifyRaw: status %d: %s", resp.StatusCode, string(body))
	}

	// Ответ inference API: [[{"label": "...", "score": ...}, ...]]
	var parsed [][]labelScore
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("Classifier.classifyRaw: unmarshal: %w", err)
	}
	if len(parsed) == 0 || len(parsed[0]) == 0 {
		return nil, fmt.Errorf("Classifier.classifyRaw: пустой ответ сервиса")
	}

	return parsed[0], nil
}

// topLabel выбирает метку с максимальной уверенностью. При равных
// значениях остается первая по порядку ответа — выбор детерминирован.
func topLabel(scores []labelScore) string {
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Label
}

// selectAdvice подбирает совет: контекстные маркеры важнее эмоции
func selectAdvice(text string, sentiment Sentiment) string {
	lowered := strings.ToLower(text)

	if strings.Contains(lowered, "stop-loss") {
		return adviceStopLoss
	}
	if strings.Contains(lowered, "overleveraged") {
		return adviceOverleveraged
	}
	return sentimentAdvice[sentiment]
}

// transportError помечает сетевые сбои, чтобы отличить их от ошибок
// самого сервиса при выборе fallback-сообщения
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("Classifier.classifyRaw: transport: %v", e.err)
}

func (e *transportError) Unwrap() error { return e.err }

func fallbackAdvice(err error) string {
	var te *transportError
	if errors.As(err, &te) {
		return fallbackTransportError
	}
	return fallbackServiceError
}
