// internal/delivery/telegram/bot.go
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trader-journal-bot/internal/infrastructure/config"
	tgtypes "trader-journal-bot/internal/types/telegram"
)

// Bot - клиент Telegram Bot API поверх net/http
type Bot struct {
	httpClient *http.Client
	baseURL    string
}

// NewBot создает клиента Bot API
func NewBot(cfg *config.TelegramConfig) *Bot {
	return &Bot{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: fmt.Sprintf("%s/bot%s/", cfg.APIBaseURL, cfg.BotToken),
	}
}

// SendMessage отправляет текстовое сообщение в чат
func (b *Bot) SendMessage(chatID int64, text string) error {
	payload, err := json.Marshal(tgtypes.SendMessagePayload{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("Bot.SendMessage: marshal: %w", err)
	}

	resp, err := b.httpClient.Post(b.baseURL+"sendMessage", "application/json",
		bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("Bot.SendMessage: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Bot.SendMessage: read body: %w", err)
	}

	var apiResp tgtypes.APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("Bot.SendMessage: unmarshal: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("Bot.SendMessage: telegram API: %s", apiResp.Description)
	}

	return nil
}
