// internal/delivery/telegram/updates_handler_test.go
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"trader-journal-bot/internal/infrastructure/config"
	tgtypes "trader-journal-bot/internal/types/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConversation записывает вызовы ядра в порядке обработки
type fakeConversation struct {
	mu         sync.Mutex
	calls      []string
	firstDelay time.Duration
}

func (f *fakeConversation) StartLogging(_ context.Context, userID int64, link string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("start:%d:%s", userID, link))
	return "started"
}

func (f *fakeConversation) HandleText(_ context.Context, userID int64, text string) string {
	f.mu.Lock()
	first := len(f.calls) == 0
	f.calls = append(f.calls, fmt.Sprintf("text:%d:%s", userID, text))
	f.mu.Unlock()

	// Первое сообщение обрабатывается дольше — перестановка всплыла бы здесь
	if first && f.firstDelay > 0 {
		time.Sleep(f.firstDelay)
	}
	return "handled"
}

func (f *fakeConversation) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeStatsProvider struct{}

func (fakeStatsProvider) FormatStats(_ context.Context, userID int64) string {
	return fmt.Sprintf("stats:%d", userID)
}

func newTestHandler(t *testing.T, conv Conversation) *UpdatesHandler {
	t.Helper()

	// Фейковый Bot API: любой sendMessage успешен
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.TelegramConfig{BotToken: "TEST", APIBaseURL: srv.URL, PollTimeout: 1}
	return NewUpdatesHandler(cfg, NewBot(cfg), conv, fakeStatsProvider{})
}

func userMessage(userID int64, text string) tgtypes.Message {
	return tgtypes.Message{
		From: &tgtypes.User{ID: userID},
		Chat: tgtypes.Chat{ID: userID, Type: "private"},
		Text: text,
	}
}

func TestDispatchCommands(t *testing.T) {
	conv := &fakeConversation{}
	uh := newTestHandler(t, conv)
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"start", "/start", replyGreeting},
		{"logtrade с ссылкой", "/logtrade https://tradingview.com/chart/abc", "started"},
		{"logtrade без аргумента", "/logtrade", "started"},
		{"logtrade с упоминанием бота", "/logtrade@JournalBot https://tradingview.com/chart/xyz", "started"},
		{"stats", "/stats", "stats:42"},
		{"неизвестная команда", "/frobnicate", replyUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := uh.dispatchCommand(ctx, userMessage(42, tt.text), tt.text)
			assert.Equal(t, tt.expected, reply)
		})
	}

	// Аргументы дошли до ядра как есть; пустой аргумент — пустая строка
	assert.Equal(t, []string{
		"start:42:https://tradingview.com/chart/abc",
		"start:42:",
		"start:42:https://tradingview.com/chart/xyz",
	}, conv.recorded())
}

func TestHandleMessageRoutesFreeText(t *testing.T) {
	conv := &fakeConversation{}
	uh := newTestHandler(t, conv)

	uh.handleMessage(userMessage(7, "lost two hundred"))
	uh.handleMessage(userMessage(7, "   "))

	// Пустой текст игнорируется, свободный текст уходит в ядро
	assert.Equal(t, []string{"text:7:lost two hundred"}, conv.recorded())
}

// Сообщения одного пользователя обрабатываются строго в порядке прихода,
// даже когда обработка первого затягивается
func TestEnqueuePreservesPerUserOrder(t *testing.T) {
	conv := &fakeConversation{firstDelay: 50 * time.Millisecond}
	uh := newTestHandler(t, conv)

	uh.enqueue(userMessage(42, "+300"))
	uh.enqueue(userMessage(42, "felt great"))
	uh.enqueue(userMessage(42, "third"))
	uh.Stop()

	assert.Equal(t, []string{
		"text:42:+300",
		"text:42:felt great",
		"text:42:third",
	}, conv.recorded())
}

// Очереди разных пользователей независимы: медленный пользователь не
// задерживает остальных
func TestEnqueueUsersDoNotBlockEachOther(t *testing.T) {
	conv := &fakeConversation{firstDelay: 200 * time.Millisecond}
	uh := newTestHandler(t, conv)

	uh.enqueue(userMessage(1, "slow"))

	done := make(chan struct{})
	go func() {
		uh.enqueue(userMessage(2, "fast"))
		for {
			for _, call := range conv.recorded() {
				if call == "text:2:fast" {
					close(done)
					return
				}
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("второй пользователь ждал очередь первого")
	}
	uh.Stop()
}

// Паника в обработчике не роняет процесс и не блокирует очередь
func TestHandleMessagePanicRecovered(t *testing.T) {
	uh := newTestHandler(t, panicConversation{})

	require.NotPanics(t, func() {
		uh.handleMessage(userMessage(42, "boom"))
	})
}

type panicConversation struct{}

func (panicConversation) StartLogging(context.Context, int64, string) string { panic("boom") }
func (panicConversation) HandleText(context.Context, int64, string) string   { panic("boom") }
