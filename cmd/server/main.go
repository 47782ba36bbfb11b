package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frayen/support-desk/internal/api"
	"github.com/frayen/support-desk/internal/api/handler"
	"github.com/frayen/support-desk/internal/config"
	"github.com/frayen/support-desk/internal/domain"
	"github.com/frayen/support-desk/internal/llm"
	"github.com/frayen/support-desk/internal/llm/fallback"
	"github.com/frayen/support-desk/internal/llm/gemini"
	"github.com/frayen/support-desk/internal/llm/ollama"
	"github.com/frayen/support-desk/internal/llm/openai"
	mongorepo "github.com/frayen/support-desk/internal/repository/mongo"
	"github.com/frayen/support-desk/internal/repository/postgres"
	"github.com/frayen/support-desk/internal/repository/redis"
	"github.com/frayen/support-desk/internal/service"
	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Msg("Starting support-desk API server")

	ctx := context.Background()

	// Initialize the persistence backend
	var (
		sessionRepo domain.SessionRepository
		messageRepo domain.MessageRepository
		faqRepo     domain.FaqRepository
		store       handler.Pinger
	)
	switch cfg.Store.Driver {
	case "mongo":
		ms, err := mongorepo.NewStore(ctx, cfg.Store.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer ms.Close(context.Background())
		sessionRepo = mongorepo.NewSessionRepository(ms)
		messageRepo = mongorepo.NewMessageRepository(ms)
		faqRepo = mongorepo.NewFaqRepository(ms)
		store = ms
	default:
		db, err := postgres.NewDB(ctx, cfg.Store.Postgres)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		sessionRepo = postgres.NewSessionRepository(db)
		messageRepo = postgres.NewMessageRepository(db)
		faqRepo = postgres.NewFaqRepository(db)
		store = db
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	faqCache := redis.NewFaqCache(redisClient)

	// Load the bundled FAQ corpus on first start
	if err := service.NewFaqService(faqRepo, faqCache).EnsureSeeded(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed FAQ corpus")
	}

	// Register LLM providers. The FAQ fallback is always available, so
	// the dashboard works without a single API key.
	registry := llm.NewRegistry(cfg.LLM.DefaultProvider)
	registry.Register(fallback.NewProvider())
	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		registry.Register(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		registry.Register(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		registry.Register(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}

	// Initialize router
	router := api.NewRouter(api.Deps{
		Config:      cfg,
		SessionRepo: sessionRepo,
		MessageRepo: messageRepo,
		FaqRepo:     faqRepo,
		FaqCache:    faqCache,
		Registry:    registry,
		Store:       store,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// setupLogger configures the global zerolog logger. With a file
// configured, output goes to a daily-rotated file; otherwise to stderr,
// pretty-printed unless format is json.
func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		maxAge := cfg.MaxAge
		if maxAge <= 0 {
			maxAge = 7 * 24 * time.Hour
		}
		writer, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithMaxAge(maxAge),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			log.Warn().Err(err).Str("file", cfg.File).Msg("log file unavailable, using stderr")
		} else {
			out = writer
		}
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	log.Logger = log.Output(out)
}
