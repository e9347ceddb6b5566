package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"habitly/config"
	"habitly/internal/cache"
	"habitly/internal/db"
	"habitly/internal/handler"
	"habitly/internal/httpserver"
	"habitly/internal/notify"
	redisclient "habitly/internal/redis"
	"habitly/internal/repository"
	"habitly/internal/scheduler"
	"habitly/internal/service"
	"habitly/pkg/logger"
	"habitly/pkg/mq"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting habitly...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("redis_addr", cfg.Redis.Addr),
		zap.Int("template_size", len(cfg.Habits)),
	)

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init Redis
	rdb := redisclient.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	// 4. Init optional event stream
	var events *mq.Publisher
	if cfg.MQ.URL != "" {
		events, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("MQ publisher initialization failed", zap.Error(err))
		}
		defer events.Close()
		log.Info("Lifecycle event stream enabled")
	}

	// 5. Init repositories and cache
	habitRepo := repository.NewHabitRepository(dbConn, log)
	userRepo := repository.NewUserRepository(dbConn)
	completionCache := cache.NewCompletionCache(rdb)
	reminderGuard := cache.NewOnceGuard(rdb, 24*time.Hour, log)

	// 6. Init services
	generator := service.NewGenerator(habitRepo, cfg.Habits, events, log)
	aggregator := service.NewAggregator(habitRepo, completionCache, log)
	habitService := service.NewHabitService(habitRepo, events, log)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)

	// 7. Init reminder scheduler and day cycle
	mailer := notify.NewMailer(cfg.Reminder, log)
	reminder := scheduler.NewReminder(
		habitRepo,
		mailer,
		reminderGuard,
		events,
		scheduler.SystemClock(),
		cfg.Reminder.Recipient,
		log,
	)
	defer reminder.Stop()

	dayCycle := scheduler.NewDayCycle(generator, reminder, log)
	cycleCtx, cycleCancel := context.WithCancel(context.Background())
	defer cycleCancel()
	go dayCycle.Run(cycleCtx)

	// 8. Init handlers and router
	authHandler := handler.NewAuthHandler(authService)
	habitHandler := handler.NewHabitHandler(habitService, aggregator)
	router := httpserver.NewRouter(authHandler, habitHandler, cfg.JWT.Secret)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("habitly is fully initialized and running")

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down habitly gracefully...")

	cycleCancel()
	reminder.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	log.Info("Shutdown complete")
}
