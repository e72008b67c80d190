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
	"github.com/joho/godotenv"

	"github.com/bkonan/veilleur/internal/application"
	appanalysis "github.com/bkonan/veilleur/internal/application/analysis"
	appchat "github.com/bkonan/veilleur/internal/application/chat"
	appforces "github.com/bkonan/veilleur/internal/application/forces"
	apprag "github.com/bkonan/veilleur/internal/application/rag"
	appresponses "github.com/bkonan/veilleur/internal/application/responses"
	"github.com/bkonan/veilleur/internal/config"
	domforces "github.com/bkonan/veilleur/internal/domain/forces"
	aiopenai "github.com/bkonan/veilleur/internal/infra/ai/openai"
	mysqlp "github.com/bkonan/veilleur/internal/infra/db/mysql"
	postgresp "github.com/bkonan/veilleur/internal/infra/db/postgres"
	"github.com/bkonan/veilleur/internal/infra/embed"
	"github.com/bkonan/veilleur/internal/infra/httpserver"
	minioStore "github.com/bkonan/veilleur/internal/infra/storage"
	"github.com/bkonan/veilleur/internal/infra/vector"
	"github.com/bkonan/veilleur/internal/middleware"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect SQL
	var db *sql.DB
	var repo domforces.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewForcesRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewForcesRepository(db)
	}
	defer db.Close()

	// init minio
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

	// init qdrant
	qdrant, err := vector.NewQdrant(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize)
	if err != nil {
		log.Fatalf("qdrant init error: %v", err)
	}
	defer qdrant.Close()
	if err := qdrant.EnsureCollection(ctx); err != nil {
		log.Fatalf("qdrant collection error: %v", err)
	}

	// init embedder
	embedder, err := embed.NewOllama(cfg.Ollama.Host, cfg.Ollama.EmbedModel)
	if err != nil {
		log.Fatalf("ollama init error: %v", err)
	}

	// AI clients, one per provider
	perplexity := aiopenai.NewClient("perplexity", cfg.Secrets.PerplexityAPIKey, cfg.AI.Perplexity.BaseURL, cfg.AI.Perplexity.Model)
	groq := aiopenai.NewClient("groq", cfg.Secrets.GroqAPIKey, cfg.AI.Groq.BaseURL, cfg.AI.Groq.Model)
	deepseek := aiopenai.NewClient("deepseek", cfg.Secrets.DeepseekAPIKey, cfg.AI.Deepseek.BaseURL, cfg.AI.Deepseek.Model)

	clock := application.SystemClock{}
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second

	analysisSvc := appanalysis.NewService(perplexity, clock, timeout)
	chatSvc := appchat.NewService(groq, timeout)
	responsesSvc := appresponses.NewService(deepseek, clock, timeout)
	forcesSvc := appforces.NewService(repo, store, clock)
	ragSvc := apprag.NewService(embedder, qdrant, groq, clock)

	health := middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"qdrant":   middleware.CheckerFunc(qdrant.Ping),
	})

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	mux.Mount("/", httpserver.NewRouter(analysisSvc, chatSvc, responsesSvc, forcesSvc, ragSvc, health))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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
