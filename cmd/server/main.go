package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/mystery-threads/config"
	"github.com/ErlanBelekov/mystery-threads/internal/email"
	"github.com/ErlanBelekov/mystery-threads/internal/gemini"
	"github.com/ErlanBelekov/mystery-threads/internal/health"
	"github.com/ErlanBelekov/mystery-threads/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/mystery-threads/internal/log"
	"github.com/ErlanBelekov/mystery-threads/internal/metrics"
	"github.com/ErlanBelekov/mystery-threads/internal/scheduler"
	"github.com/ErlanBelekov/mystery-threads/internal/session"
	httptransport "github.com/ErlanBelekov/mystery-threads/internal/transport/http"
	"github.com/ErlanBelekov/mystery-threads/internal/transport/http/handler"
	"github.com/ErlanBelekov/mystery-threads/internal/usecase"
	"github.com/ErlanBelekov/mystery-threads/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := postgres.Migrate(ctx, pool); err != nil {
			stop()
			log.Fatalf("migrate: %v", err)
		}
	}

	sessions := session.NewIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	gen, err := gemini.New(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}, logger)
	if err != nil {
		stop()
		log.Fatalf("gemini: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, sender, sessions, cfg.VerifyCodeTTL)
	messageUsecase := usecase.NewMessageUsecase(messageRepo, userRepo)
	preferenceUsecase := usecase.NewPreferenceUsecase(userRepo)
	suggestionUsecase := usecase.NewSuggestionUsecase(gen)

	pages, err := web.Templates()
	if err != nil {
		stop()
		log.Fatalf("templates: %v", err)
	}

	handlers := httptransport.Handlers{
		Auth: handler.NewAuthHandler(authUsecase, handler.CookieOptions{
			TTL:    cfg.SessionTTL,
			Secure: cfg.SecureCookies(),
		}, cfg.PublicBaseURL, logger),
		Message:    handler.NewMessageHandler(messageUsecase, logger),
		Preference: handler.NewPreferenceHandler(preferenceUsecase, logger),
		Suggestion: handler.NewSuggestionHandler(suggestionUsecase, logger),
		Page:       handler.NewPageHandler(cfg.PublicBaseURL),
	}

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(map[string]health.Pinger{"postgres": pool}, logger, prometheus.DefaultRegisterer)

	reporter, err := scheduler.NewReporter(statsRepo, cfg.StatsSchedule, logger)
	if err != nil {
		stop()
		log.Fatalf("stats reporter: %v", err)
	}

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, handlers, sessions, pages, httptransport.Options{HSTS: cfg.SecureCookies()}),
		ReadHeaderTimeout: 10 * time.Second,
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

	reporterDone := make(chan struct{})
	go func() {
		reporter.Start(ctx)
		close(reporterDone)
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	<-reporterDone
}
