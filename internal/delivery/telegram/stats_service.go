// internal/delivery/telegram/stats_service.go
package telegram

import (
	"context"
	"fmt"

	"trader-journal-bot/internal/infrastructure/persistence/postgres/models"
	trades_repo "trader-journal-bot/internal/infrastructure/persistence/postgres/repository/trades"
	"trader-journal-bot/pkg/logger"
)

// StatsService отвечает на /stats агрегированными метриками из БД
type StatsService struct {
	trades trades_repo.TradesRepository
}

func NewStatsService(trades trades_repo.TradesRepository) *StatsService {
	return &StatsService{trades: trades}
}

// FormatStats возвращает готовый текст ответа на /stats
func (s *StatsService) FormatStats(ctx context.Context, userID int64) string {
	metrics, err := s.trades.CalculateMetrics(ctx, userID)
	if err != nil {
		logger.Error("❌ [Stats] user=%d: %v", userID, err)
		return replyStatsUnavailable
	}
	if metrics == nil || metrics.TotalTrades == 0 {
		return replyStatsEmpty
	}

	return formatMetrics(metrics)
}

// formatMetrics собирает текст метрик с подсказкой по слабому месту
func formatMetrics(m *models.Metrics) string {
	message := "📊 Your Trading Metrics:\n\n"
	message += fmt.Sprintf("• Total Trades: %d 📉\n", m.TotalTrades)
	message += fmt.Sprintf("• Win Rate: %.1f%% 🏆\n", m.WinRate)
	message += fmt.Sprintf("• Avg Win: $%.2f 🟢\n", m.AvgWin)
	message += fmt.Sprintf("• Avg Loss: $%.2f 🔴\n", m.AvgLoss)
	message += fmt.Sprintf("• Risk-Reward Ratio: %.2f:1 ⚖️\n\n", m.RiskRewardRatio)

	if m.RiskRewardRatio < 1 {
		message += "⚠️ Your risk-reward ratio is below 1. Consider larger profit targets!"
	} else if m.WinRate < 50 {
		message += "💡 Low win rate? Focus on refining your entry/exit criteria."
	}

	return message
}
