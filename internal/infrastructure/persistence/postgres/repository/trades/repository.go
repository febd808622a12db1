// /internal/infrastructure/persistence/postgres/repository/trades/repository.go
package trades_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trader-journal-bot/internal/infrastructure/persistence/postgres/models"
	"trader-journal-bot/pkg/logger"

	"github.com/jmoiron/sqlx"
)

type tradesRepoImpl struct {
	db *sqlx.DB
}

// NewTradesRepository создаёт реализацию TradesRepository
func NewTradesRepository(db *sqlx.DB) TradesRepository {
	return &tradesRepoImpl{db: db}
}

// Insert вставляет одну запись журнала
func (r *tradesRepoImpl) Insert(ctx context.Context, trade *models.TradeRecord) error {
	query := `
		INSERT INTO trades (user_id, trade_link, outcome, sentiment, notes, logged_at)
		VALUES (:user_id, :trade_link, :outcome, :sentiment, :notes, :logged_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, trade)
	if err != nil {
		return fmt.Errorf("TradesRepo.Insert: %w", err)
	}

	logger.Info("💾 Сделка сохранена: user=%d outcome=%+d", trade.UserID, trade.Outcome)
	return nil
}

// DistinctUserIDs возвращает уникальные user_id из журнала
func (r *tradesRepoImpl) DistinctUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	query := `SELECT DISTINCT user_id FROM trades`
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("TradesRepo.DistinctUserIDs: %w", err)
	}
	return ids, nil
}

// CalculateMetrics вызывает серверную агрегацию calculate_metrics.
// Сам SQL функции принадлежит базе данных, не приложению.
func (r *tradesRepoImpl) CalculateMetrics(ctx context.Context, userID int64) (*models.Metrics, error) {
	var metrics models.Metrics
	query := `SELECT * FROM calculate_metrics($1)`
	err := r.db.GetContext(ctx, &metrics, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("TradesRepo.CalculateMetrics: %w", err)
	}
	return &metrics, nil
}
