// internal/reports/weekly_test.go
package reports

import (
	"context"
	"errors"
	"sync"
	"testing"

	"trader-journal-bot/internal/infrastructure/persistence/postgres/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTradesRepo struct {
	userIDs []int64
	metrics map[int64]*models.Metrics
	failFor map[int64]bool
}

func (f *fakeTradesRepo) Insert(_ context.Context, _ *models.TradeRecord) error {
	return nil
}

func (f *fakeTradesRepo) DistinctUserIDs(_ context.Context) ([]int64, error) {
	return f.userIDs, nil
}

func (f *fakeTradesRepo) CalculateMetrics(_ context.Context, userID int64) (*models.Metrics, error) {
	if f.failFor[userID] {
		return nil, errors.New("metrics failed")
	}
	return f.metrics[userID], nil
}

type fakeSender struct {
	mu      sync.Mutex
	sent    map[int64]string
	failFor map[int64]bool
}

func (f *fakeSender) SendMessage(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[chatID] {
		return errors.New("send failed")
	}
	if f.sent == nil {
		f.sent = make(map[int64]string)
	}
	f.sent[chatID] = text
	return nil
}

func TestSendWeeklySkipsUsersWithoutMetrics(t *testing.T) {
	repo := &fakeTradesRepo{
		userIDs: []int64{1, 2, 3},
		metrics: map[int64]*models.Metrics{
			1: {TotalTrades: 10, WinRate: 60, RiskRewardRatio: 1.5},
			2: nil,                 // метрик нет
			3: {TotalTrades: 0},    // пустая история
		},
	}
	sender := &fakeSender{}

	svc := NewService(repo, sender)
	require.NoError(t, svc.SendWeekly(context.Background()))

	assert.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[1], "Total Trades: 10")
	assert.Contains(t, sender.sent[1], "Win Rate: 60.0%")
}

// Сбой метрик или отправки одного пользователя не прерывает остальных
func TestSendWeeklyFailureDoesNotAbortOthers(t *testing.T) {
	repo := &fakeTradesRepo{
		userIDs: []int64{1, 2, 3},
		metrics: map[int64]*models.Metrics{
			1: {TotalTrades: 5, WinRate: 40, RiskRewardRatio: 0.8},
			2: {TotalTrades: 7, WinRate: 55, RiskRewardRatio: 1.2},
			3: {TotalTrades: 3, WinRate: 33, RiskRewardRatio: 2.0},
		},
		failFor: map[int64]bool{2: true},
	}
	sender := &fakeSender{failFor: map[int64]bool{3: true}}

	svc := NewService(repo, sender)
	require.NoError(t, svc.SendWeekly(context.Background()))

	assert.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent, int64(1))
}
