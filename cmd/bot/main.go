package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"trader-journal-bot/application/scheduler"
	"trader-journal-bot/internal/conversation"
	telegram "trader-journal-bot/internal/delivery/telegram"
	"trader-journal-bot/internal/infrastructure/config"
	"trader-journal-bot/internal/infrastructure/persistence/postgres"
	trades_repo "trader-journal-bot/internal/infrastructure/persistence/postgres/repository/trades"
	"trader-journal-bot/internal/reports"
	"trader-journal-bot/internal/sentiment"
	"trader-journal-bot/pkg/logger"

	"github.com/go-redis/redis/v8"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Не удалось загрузить конфигурацию: %v", err)
	}

	if err := logger.InitGlobal(cfg.LogFile, cfg.LogLevel, cfg.DebugMode); err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer logger.GetLogger().Close()

	// Отсутствие учетных данных — фатально до старта любых диалогов
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Неполная конфигурация: %v", err)
	}

	printHeader("ЖУРНАЛ СДЕЛОК ТРЕЙДЕРА")
	fmt.Printf("🔧 Конфигурация:\n")
	fmt.Printf("   Окружение: %s (v%s)\n", cfg.Environment, cfg.Version)
	fmt.Printf("   БД: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	fmt.Printf("   Сессии: %s\n", map[bool]string{true: "Redis", false: "память"}[cfg.Redis.Enabled])
	fmt.Printf("   Еженедельный отчет: %v (каждые %s)\n", cfg.Reports.Enabled, cfg.Reports.Interval)
	fmt.Println()

	// Подключение к PostgreSQL
	db, err := postgres.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}
	defer db.Close()

	tradesRepo := trades_repo.NewTradesRepository(db)

	// Хранилище сессий: Redis при включенном флаге, иначе память
	var sessionStore conversation.SessionStore = conversation.NewMemoryStore()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("⚠️ Redis недоступен, сессии остаются в памяти: %v", err)
		} else {
			defer redisClient.Close()
			sessionStore = conversation.NewRedisStore(redisClient, cfg.Redis.SessionTTL)
			logger.Info("✅ Хранилище сессий: Redis (%s)", cfg.Redis.Addr())
		}
	}

	// Сборка ядра
	classifier := sentiment.NewClassifier(cfg.Sentiment.APIURL, cfg.Sentiment.Token, cfg.Sentiment.Timeout)
	engine := conversation.NewEngine(sessionStore, classifier, tradesRepo)

	// Telegram
	bot := telegram.NewBot(&cfg.Telegram)
	statsService := telegram.NewStatsService(tradesRepo)
	updatesHandler := telegram.NewUpdatesHandler(&cfg.Telegram, bot, engine, statsService)

	// Планировщик еженедельных отчетов
	sched := scheduler.New()
	if cfg.Reports.Enabled {
		reportService := reports.NewService(tradesRepo, bot)
		sched.Register(&scheduler.Job{
			Name:     "weekly_report",
			Schedule: scheduler.Every(cfg.Reports.Interval),
			Handler:  reportService.SendWeekly,
		})
	}

	updatesHandler.Start()
	sched.Start()
	logger.Info("🤖 Журнал сделок запущен!")

	// Ожидание сигнала завершения
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("🛑 Получен сигнал завершения, останавливаемся...")
	updatesHandler.Stop()
	sched.Stop()
}

func printHeader(title string) {
	line := strings.Repeat("═", 50)
	fmt.Println(line)
	fmt.Printf("   %s\n", title)
	fmt.Println(line)
}
