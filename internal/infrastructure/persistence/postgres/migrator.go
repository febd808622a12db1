// /internal/infrastructure/persistence/postgres/migrator.go
package postgres

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trader-journal-bot/pkg/logger"

	"github.com/jmoiron/sqlx"
)

// RunMigrations применяет *.sql файлы из директории в лексикографическом
// порядке, пропуская уже примененные
func RunMigrations(db *sqlx.DB, migrationsPath string) error {
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("RunMigrations: %w", err)
	}

	if err := initMigrationsTable(db); err != nil {
		return err
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return fmt.Errorf("RunMigrations: директория миграций: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, name := range files {
		done, err := isApplied(db, name)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		sqlBytes, err := os.ReadFile(filepath.Join(absPath, name))
		if err != nil {
			return fmt.Errorf("RunMigrations: чтение %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("RunMigrations: %w", err)
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			return fmt.Errorf("RunMigrations: применение %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			tx.Rollback()
			return fmt.Errorf("RunMigrations: фиксация %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("RunMigrations: commit %s: %w", name, err)
		}

		logger.Info("📂 Миграция применена: %s", name)
		applied++
	}

	if applied > 0 {
		logger.Info("✅ Применено миграций: %d", applied)
	}
	return nil
}

func initMigrationsTable(db *sqlx.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("RunMigrations: таблица миграций: %w", err)
	}
	return nil
}

func isApplied(db *sqlx.DB, name string) (bool, error) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM schema_migrations WHERE name = $1`, name); err != nil {
		return false, fmt.Errorf("RunMigrations: проверка %s: %w", name, err)
	}
	return count > 0, nil
}
