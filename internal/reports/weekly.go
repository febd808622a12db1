// internal/reports/weekly.go
package reports

import (
	"context"
	"fmt"
	"sync/atomic"

	"trader-journal-bot/internal/infrastructure/persistence/postgres/models"
	trades_repo "trader-journal-bot/internal/infrastructure/persistence/postgres/repository/trades"
	"trader-journal-bot/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// MessageSender - отправка сообщения пользователю. В приватном чате
// chat_id совпадает с user_id.
type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

// Service рассылает еженедельные отчеты всем пользователям с историей.
// Только читает журнал — не трогает сессии диалога.
type Service struct {
	trades trades_repo.TradesRepository
	sender MessageSender
}

func NewService(trades trades_repo.TradesRepository, sender MessageSender) *Service {
	return &Service{trades: trades, sender: sender}
}

// SendWeekly собирает метрики каждого пользователя и отправляет отчет.
// Сбой одного пользователя не прерывает рассылку остальным.
func (s *Service) SendWeekly(ctx context.Context) error {
	userIDs, err := s.trades.DistinctUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("Reports.SendWeekly: %w", err)
	}

	var sent int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			metrics, err := s.trades.CalculateMetrics(gctx, userID)
			if err != nil {
				logger.Warn("⚠️ [Reports] user=%d: метрики недоступны: %v", userID, err)
				return nil
			}
			if metrics == nil || metrics.TotalTrades == 0 {
				return nil
			}

			if err := s.sender.SendMessage(userID, formatWeekly(metrics)); err != nil {
				logger.Warn("⚠️ [Reports] user=%d: отправка не удалась: %v", userID, err)
				return nil
			}

			atomic.AddInt64(&sent, 1)
			return nil
		})
	}

	g.Wait()

	logger.Info("🗓️ [Reports] Еженедельная рассылка: пользователей=%d, отправлено=%d",
		len(userIDs), atomic.LoadInt64(&sent))
	return nil
}

func formatWeekly(m *models.Metrics) string {
	message := "🗓️ Your Weekly Trading Report:\n"
	message += fmt.Sprintf("• Total Trades: %d\n", m.TotalTrades)
	message += fmt.Sprintf("• Win Rate: %.1f%%\n", m.WinRate)
	message += fmt.Sprintf("• Risk-Reward: %.2f:1\n", m.RiskRewardRatio)
	return message
}
