// /internal/infrastructure/persistence/postgres/models/trade.go
package models

import "time"

// TradeRecord - одна записанная сделка. Создается ровно один раз на
// завершенный диалог и после записи принадлежит хранилищу.
type TradeRecord struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	TradeLink string    `db:"trade_link" json:"trade_link"`
	Outcome   int       `db:"outcome" json:"outcome"` // >0 прибыль, <0 убыток
	Sentiment string    `db:"sentiment" json:"sentiment"`
	Notes     string    `db:"notes" json:"notes"`
	LoggedAt  time.Time `db:"logged_at" json:"logged_at"`
}

// Metrics - агрегированные показатели пользователя. Считаются хранимой
// процедурой calculate_metrics на стороне БД.
type Metrics struct {
	TotalTrades     int     `db:"total_trades" json:"total_trades"`
	WinRate         float64 `db:"win_rate" json:"win_rate"`
	AvgWin          float64 `db:"avg_win" json:"avg_win"`
	AvgLoss         float64 `db:"avg_loss" json:"avg_loss"`
	RiskRewardRatio float64 `db:"risk_reward_ratio" json:"risk_reward_ratio"`
}
