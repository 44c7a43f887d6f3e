package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/workmatch/workmatch-backend/internal/config"
	"github.com/workmatch/workmatch-backend/internal/db"
	"github.com/workmatch/workmatch-backend/internal/goroutine"
	httpHandlers "github.com/workmatch/workmatch-backend/internal/http/handlers"
	httpRouter "github.com/workmatch/workmatch-backend/internal/http/router"
	"github.com/workmatch/workmatch-backend/internal/logger"
	"github.com/workmatch/workmatch-backend/internal/repository"
	"github.com/workmatch/workmatch-backend/internal/service"
	"github.com/workmatch/workmatch-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	profileRepo := repository.NewProfileRepository(dbConn)
	missionRepo := repository.NewMissionRepository(dbConn)
	applicationRepo := repository.NewApplicationRepository(dbConn)
	contractRepo := repository.NewContractRepository(dbConn)
	trackingRepo := repository.NewTrackingRepository(dbConn)
	feedbackRepo := repository.NewFeedbackRepository(dbConn)
	disputeRepo := repository.NewDisputeRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)
	defer hub.Stop()

	// Сервисы.
	notificationService := service.NewNotificationService(notificationRepo, hub)
	authService := service.NewAuthService(userRepo, tokenManager)
	profileService := service.NewProfileService(userRepo, profileRepo, feedbackRepo)
	missionService := service.NewMissionService(missionRepo)
	applicationService := service.NewApplicationService(applicationRepo, missionRepo, notificationService)
	interviewService := service.NewInterviewService(applicationRepo, missionRepo, notificationService)
	contractService := service.NewContractService(contractRepo, missionRepo, applicationRepo, notificationService)
	trackingService := service.NewTrackingService(trackingRepo, contractRepo, notificationService)
	feedbackService := service.NewFeedbackService(feedbackRepo, missionRepo, contractRepo, notificationService)
	disputeService := service.NewDisputeService(disputeRepo, contractRepo, notificationService)
	matchingService := service.NewMatchingService(missionRepo, profileRepo, userRepo, feedbackRepo)

	// HTTP хэндлеры и роутер.
	engine := httpRouter.New(cfg, tokenManager, httpRouter.Handlers{
		Auth:          httpHandlers.NewAuthHandler(authService),
		Missions:      httpHandlers.NewMissionHandler(missionService),
		Applications:  httpHandlers.NewApplicationHandler(applicationService, interviewService),
		Matching:      httpHandlers.NewMatchingHandler(matchingService),
		Contracts:     httpHandlers.NewContractHandler(contractService),
		Tracking:      httpHandlers.NewTrackingHandler(trackingService),
		Feedback:      httpHandlers.NewFeedbackHandler(feedbackService),
		Disputes:      httpHandlers.NewDisputeHandler(disputeService),
		Profiles:      httpHandlers.NewProfileHandler(profileService),
		Notifications: httpHandlers.NewNotificationHandler(notificationService),
		Health:        httpHandlers.NewHealthHandler(dbConn),
		WS:            httpHandlers.NewWSHandler(hub, tokenManager),
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
