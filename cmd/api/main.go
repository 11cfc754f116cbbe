package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/feedback-radar/internal/application"
	appanalysis "github.com/bryanwahyu/feedback-radar/internal/application/analysis"
	appfeedback "github.com/bryanwahyu/feedback-radar/internal/application/feedback"
	"github.com/bryanwahyu/feedback-radar/internal/config"
	"github.com/bryanwahyu/feedback-radar/internal/domain/classifierlog"
	"github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
	aiclient "github.com/bryanwahyu/feedback-radar/internal/infra/ai/openai"
	rediscache "github.com/bryanwahyu/feedback-radar/internal/infra/cache"
	mysqlp "github.com/bryanwahyu/feedback-radar/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/feedback-radar/internal/infra/db/postgres"
	"github.com/bryanwahyu/feedback-radar/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/feedback-radar/internal/infra/storage"
	"github.com/bryanwahyu/feedback-radar/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect DB (mysql default, postgres optional)
	var (
		db           *sql.DB
		feedbackRepo feedback.Repository
		failureRepo  classifierlog.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		feedbackRepo = postgresp.NewFeedbackRepository(db)
		failureRepo = postgresp.NewClassifierLogRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		feedbackRepo = mysqlp.NewFeedbackRepository(db)
		failureRepo = mysqlp.NewClassifierLogRepository(db)
	}
	defer db.Close()

	// init analysis service + optional collaborators
	analysisSvc := &appanalysis.Service{
		Feedback: feedbackRepo,
		Failures: failureRepo,
		Clock:    application.SystemClock{},
	}

	if cfg.OpenAI.APIKey != "" {
		analysisSvc.Classifier = aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Println("openai api key not set, sentiment scoring disabled (neutral)")
	}

	healthChecks := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}

	if cfg.Redis.Addr != "" {
		redis := rediscache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redis.Close()
		analysisSvc.Cache = redis
		healthChecks["cache"] = &middleware.CacheHealthChecker{Cache: redis}
	} else {
		log.Println("redis addr not set, analysis caching disabled")
	}

	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		analysisSvc.Exports = store
	}

	feedbackSvc := &appfeedback.Service{
		Repo:  feedbackRepo,
		Clock: application.SystemClock{},
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(30, 10))

	mux.Get("/health", middleware.HealthHandler(healthChecks))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(feedbackSvc, analysisSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // classifier calls run inside requests
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
