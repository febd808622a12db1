// /internal/infrastructure/persistence/postgres/connection.go
package postgres

import (
	"fmt"

	"trader-journal-bot/internal/infrastructure/config"
	"trader-journal-bot/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect открывает пул соединений к Postgres и проверяет его пингом
func Connect(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.Connect: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres.Connect: ping: %w", err)
	}

	logger.Info("✅ Подключение к PostgreSQL установлено (%s:%d/%s)", cfg.Host, cfg.Port, cfg.Name)

	if cfg.EnableAutoMigrate && cfg.MigrationsPath != "" {
		if err := RunMigrations(db, cfg.MigrationsPath); err != nil {
			// Миграции не фатальны: схема может сопровождаться отдельно
			logger.Warn("⚠️ Миграции не применены: %v", err)
		}
	}

	return db, nil
}
