// /internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================
// КОНФИГУРАЦИЯ TELEGRAM
// ============================================

// TelegramConfig - настройки Telegram бота
type TelegramConfig struct {
	BotToken    string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	APIBaseURL  string `mapstructure:"TELEGRAM_API_BASE_URL"`
	PollTimeout int    `mapstructure:"TELEGRAM_POLL_TIMEOUT"` // секунды long-polling
}

// ============================================
// КОНФИГУРАЦИЯ СЕНТИМЕНТ-АНАЛИЗА
// ============================================

// SentimentConfig - настройки внешнего сервиса классификации эмоций
type SentimentConfig struct {
	APIURL  string        `mapstructure:"HUGGINGFACE_API_URL"`
	Token   string        `mapstructure:"HUGGINGFACE_TOKEN"`
	Timeout time.Duration `mapstructure:"HUGGINGFACE_TIMEOUT"`
}

// ============================================
// КОНФИГУРАЦИЯ БАЗЫ ДАННЫХ
// ============================================

// DatabaseConfig - конфигурация базы данных
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	// Настройки пула соединений
	MaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	MaxConnLifetime time.Duration `mapstructure:"DB_MAX_CONN_LIFETIME"`
	MaxConnIdleTime time.Duration `mapstructure:"DB_MAX_CONN_IDLE_TIME"`

	// Настройки миграций
	MigrationsPath    string `mapstructure:"DB_MIGRATIONS_PATH"`
	EnableAutoMigrate bool   `mapstructure:"DB_ENABLE_AUTO_MIGRATE"`
}

// ============================================
// КОНФИГУРАЦИЯ REDIS
// ============================================

// RedisConfig конфигурация Redis (опциональное хранилище сессий)
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	Enabled  bool   `mapstructure:"REDIS_ENABLED"`

	PoolSize     int           `mapstructure:"REDIS_POOL_SIZE"`
	DialTimeout  time.Duration `mapstructure:"REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `mapstructure:"REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"REDIS_WRITE_TIMEOUT"`
	SessionTTL   time.Duration `mapstructure:"REDIS_SESSION_TTL"`
}

// Addr возвращает адрес Redis в формате host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ============================================
// КОНФИГУРАЦИЯ ОТЧЕТОВ
// ============================================

// ReportsConfig - настройки периодических отчетов
type ReportsConfig struct {
	Enabled  bool          `mapstructure:"WEEKLY_REPORT_ENABLED"`
	Interval time.Duration `mapstructure:"WEEKLY_REPORT_INTERVAL"`
}

// ============================================
// ОБЩАЯ КОНФИГУРАЦИЯ
// ============================================

type Config struct {
	Environment string
	Version     string

	Telegram  TelegramConfig
	Sentiment SentimentConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Reports   ReportsConfig

	LogLevel  string
	LogFile   string
	DebugMode bool
}

// LoadConfig загружает конфигурацию из .env файла
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		fmt.Printf("⚠️  Config file not found, using environment variables\n")
	}

	cfg := &Config{}

	// ======================
	// ОСНОВНЫЕ НАСТРОЙКИ
	// ======================
	cfg.Environment = getEnv("ENVIRONMENT", "production")
	cfg.Version = getEnv("VERSION", "1.0.0")
	cfg.LogLevel = getEnv("LOG_LEVEL", "INFO")
	cfg.LogFile = getEnv("LOG_FILE", "logs/bot.log")
	cfg.DebugMode = getEnvBool("DEBUG_MODE", false)

	// ======================
	// TELEGRAM
	// ======================
	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.APIBaseURL = getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org")
	cfg.Telegram.PollTimeout = getEnvInt("TELEGRAM_POLL_TIMEOUT", 30)

	// ======================
	// СЕНТИМЕНТ-АНАЛИЗ
	// ======================
	cfg.Sentiment.APIURL = getEnv("HUGGINGFACE_API_URL",
		"https://api-inference.huggingface.co/models/bhadresh-savani/distilbert-base-uncased-emotion")
	cfg.Sentiment.Token = getEnv("HUGGINGFACE_TOKEN", "")
	cfg.Sentiment.Timeout = getEnvDuration("HUGGINGFACE_TIMEOUT", 10*time.Second)

	// ======================
	// БАЗА ДАННЫХ
	// ======================
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 10)
	cfg.Database.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	cfg.Database.MaxConnIdleTime = getEnvDuration("DB_MAX_CONN_IDLE_TIME", 10*time.Minute)
	cfg.Database.MigrationsPath = getEnv("DB_MIGRATIONS_PATH",
		"internal/infrastructure/persistence/postgres/migrations")
	cfg.Database.EnableAutoMigrate = getEnvBool("DB_ENABLE_AUTO_MIGRATE", true)

	// ======================
	// REDIS
	// ======================
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnvInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", false)
	cfg.Redis.PoolSize = getEnvInt("REDIS_POOL_SIZE", 10)
	cfg.Redis.DialTimeout = getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.Redis.ReadTimeout = getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.Redis.WriteTimeout = getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.Redis.SessionTTL = getEnvDuration("REDIS_SESSION_TTL", 24*time.Hour)

	// ======================
	// ОТЧЕТЫ
	// ======================
	cfg.Reports.Enabled = getEnvBool("WEEKLY_REPORT_ENABLED", true)
	cfg.Reports.Interval = getEnvDuration("WEEKLY_REPORT_INTERVAL", 7*24*time.Hour)

	return cfg, nil
}

// Validate проверяет обязательные параметры.
// Отсутствие учетных данных — фатальная ошибка старта.
func (c *Config) Validate() error {
	var missing []string

	if c.Telegram.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.Sentiment.Token == "" {
		missing = append(missing, "HUGGINGFACE_TOKEN")
	}
	if c.Database.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.Database.Name == "" {
		missing = append(missing, "DB_NAME")
	}

	if len(missing) > 0 {
		return fmt.Errorf("Config.Validate: отсутствуют обязательные переменные: %s",
			strings.Join(missing, ", "))
	}
	return nil
}

// ======================
// ВСПОМОГАТЕЛЬНЫЕ ФУНКЦИИ
// ======================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
