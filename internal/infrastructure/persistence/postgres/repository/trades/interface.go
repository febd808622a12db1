// /internal/infrastructure/persistence/postgres/repository/trades/interface.go
package trades_repo

import (
	"context"

	"trader-journal-bot/internal/infrastructure/persistence/postgres/models"
)

// TradesRepository - хранилище журнала сделок
type TradesRepository interface {
	// Insert записывает одну сделку. Вызывается ровно один раз на
	// завершенный диалог, без повторов при ошибке.
	Insert(ctx context.Context, trade *models.TradeRecord) error

	// DistinctUserIDs возвращает всех пользователей с хотя бы одной сделкой
	DistinctUserIDs(ctx context.Context) ([]int64, error)

	// CalculateMetrics вызывает хранимую процедуру агрегации.
	// nil без ошибки — метрик для пользователя нет.
	CalculateMetrics(ctx context.Context, userID int64) (*models.Metrics, error)
}
