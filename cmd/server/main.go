package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anhtnguyen/historylab/config"
	"github.com/anhtnguyen/historylab/internal/email"
	"github.com/anhtnguyen/historylab/internal/generator"
	"github.com/anhtnguyen/historylab/internal/health"
	"github.com/anhtnguyen/historylab/internal/identity"
	"github.com/anhtnguyen/historylab/internal/infrastructure/postgres"
	ctxlog "github.com/anhtnguyen/historylab/internal/log"
	"github.com/anhtnguyen/historylab/internal/metrics"
	"github.com/anhtnguyen/historylab/internal/pdf"
	"github.com/anhtnguyen/historylab/internal/sweeper"
	httptransport "github.com/anhtnguyen/historylab/internal/transport/http"
	"github.com/anhtnguyen/historylab/internal/transport/http/handler"
	"github.com/anhtnguyen/historylab/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	lessonRepo := postgres.NewLessonRepository(pool)

	// Accounts and sessions
	provider := identity.NewLocalProvider(userRepo)
	authUsecase := usecase.NewAuthUsecase(userRepo, provider, []byte(cfg.JWTSecret))
	authHandler := handler.NewAuthHandler(authUsecase, logger)
	userHandler := handler.NewUserHandler(userRepo, logger)

	// QR login tokens
	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	tokenUsecase := usecase.NewTokenUsecase(
		tokenRepo, userRepo, provider, emailSender, logger,
		[]byte(cfg.JWTSecret), cfg.BaseURL,
	)
	tokenHandler := handler.NewTokenHandler(tokenUsecase, logger)
	qrLoginHandler := handler.NewQRLoginHandler(tokenUsecase, logger)

	// Lessons
	gen := generator.New(cfg.Env, cfg.GeminiModel)
	lessonUsecase := usecase.NewLessonUsecase(lessonRepo, userRepo, gen, cfg.GeminiAPIKey)
	lessonHandler := handler.NewLessonHandler(lessonUsecase, pdf.NewRenderer(cfg.PDFFontPath), logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sw := sweeper.New(tokenRepo, logger, cfg.SweepCron)
	if err := sw.Start(); err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(
			logger, authHandler, qrLoginHandler, tokenHandler, userHandler,
			lessonHandler, []byte(cfg.JWTSecret),
		),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	sw.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
