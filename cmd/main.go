package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/mkuznecov/zapisly/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/mkuznecov/zapisly/internal/api/handlers/complete_appointment"
	createAppointmentHandler "github.com/mkuznecov/zapisly/internal/api/handlers/create_appointment"
	getDayScheduleHandler "github.com/mkuznecov/zapisly/internal/api/handlers/get_day_schedule"
	getMonthStatsHandler "github.com/mkuznecov/zapisly/internal/api/handlers/get_month_stats"
	rescheduleAppointmentHandler "github.com/mkuznecov/zapisly/internal/api/handlers/reschedule_appointment"
	telegramWebhookHandler "github.com/mkuznecov/zapisly/internal/api/handlers/telegram_webhook"
	updateContactHandler "github.com/mkuznecov/zapisly/internal/api/handlers/update_contact"
	"github.com/mkuznecov/zapisly/internal/api/middleware"
	"github.com/mkuznecov/zapisly/internal/bot"
	"github.com/mkuznecov/zapisly/internal/config"
	sessionStore "github.com/mkuznecov/zapisly/internal/infra/session"
	appointmentRepo "github.com/mkuznecov/zapisly/internal/infra/storage/appointment"
	companyRepo "github.com/mkuznecov/zapisly/internal/infra/storage/company"
	"github.com/mkuznecov/zapisly/internal/integrations/telegram"
	appointmentsService "github.com/mkuznecov/zapisly/internal/service/appointments"
	createAppointmentUC "github.com/mkuznecov/zapisly/internal/usecase/create_appointment"
	getDayScheduleUC "github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
	getMonthStatsUC "github.com/mkuznecov/zapisly/internal/usecase/get_month_stats"
	"github.com/mkuznecov/zapisly/pkg/dbmetrics"
	"github.com/mkuznecov/zapisly/pkg/logger"
	"github.com/mkuznecov/zapisly/pkg/metrics"
	"github.com/mkuznecov/zapisly/pkg/simpletxmanager"
	"github.com/mkuznecov/zapisly/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting Zapisly booking service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Хранилище сессий диалога: Redis или память процесса
	var sessions bot.SessionStore
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()
		sessions = sessionStore.NewRedisStore(redisClient)
		log.Info("Bot sessions stored in redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		sessions = sessionStore.NewMemoryStore()
		log.Info("Bot sessions stored in process memory")
	}

	// Клиент Telegram Bot API
	telegramClient := telegram.NewClient(time.Duration(cfg.Telegram.Timeout)*time.Second, log)
	log.Info("Telegram client initialized (timeout=%ds)", cfg.Telegram.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		companyRepository     *companyRepo.Repository
		appointmentRepository *appointmentRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		companyRepository = companyRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		companyRepository = companyRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Уведомления владельцам через ботов компаний
	notifier := bot.NewOwnerNotifier(telegramClient, log)

	// Инициализируем use cases
	getDayScheduleUseCase := getDayScheduleUC.NewUseCase(
		appointmentRepository,
		companyRepository,
		log,
	)
	getMonthStatsUseCase := getMonthStatsUC.NewUseCase(
		appointmentRepository,
		companyRepository,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		companyRepository,
		txMgr,
		notifier,
		&createAppointmentUC.RealTimeProvider{},
		log,
	)

	// Сервис управления записями
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		companyRepository,
		txMgr,
		notifier,
		&appointmentsService.RealTimeProvider{},
		log,
	)

	// Диалоговый движок Telegram-бота
	sessionTTL := time.Duration(cfg.Telegram.SessionTTLMins) * time.Minute
	engine := bot.NewEngine(
		telegramClient,
		sessions,
		getDayScheduleUseCase,
		createAppointmentUseCase,
		companyRepository,
		&bot.RealTimeProvider{},
		log,
		sessionTTL,
	)

	// Инициализируем handlers
	getDaySchedule := getDayScheduleHandler.NewHandler(getDayScheduleUseCase, log)
	getMonthStats := getMonthStatsHandler.NewHandler(getMonthStatsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(appointmentSvc, log)
	updateContact := updateContactHandler.NewHandler(appointmentSvc, log)
	telegramWebhook := telegramWebhookHandler.NewHandler(engine, companyRepository, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь дня: слоты с доступностью
	api.HandleFunc("/company/{slug}/appointments", getDaySchedule.Handle).Methods(http.MethodGet)

	// Статистика месяца для бейджей календаря
	api.HandleFunc("/company/{slug}/monthly-stats", getMonthStats.Handle).Methods(http.MethodGet)

	// Создание записи с публичной страницы
	api.HandleFunc("/company/{slug}/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Webhook входящих update от Telegram
	api.HandleFunc("/telegram/webhook/{botToken}", telegramWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{appointmentId}/update-contact", updateContact.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
