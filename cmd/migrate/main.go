package main

import (
	"os"

	"github.com/frayen/support-desk/internal/config"
	"github.com/frayen/support-desk/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Store.Driver != "postgres" {
		log.Info().Str("driver", cfg.Store.Driver).Msg("Store driver needs no migrations")
		return
	}

	sourceURL := os.Getenv("MIGRATIONS_URL")
	if sourceURL == "" {
		sourceURL = "file://migrations"
	}

	log.Info().
		Str("host", cfg.Store.Postgres.Host).
		Int("port", cfg.Store.Postgres.Port).
		Msg("Running database migrations")

	if err := postgres.RunMigrations(cfg.Store.Postgres.DSN(), sourceURL); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
