package main

import (
	"database/sql"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/heimu09/PersonalNotes/infrastructure/metrics"
	"github.com/heimu09/PersonalNotes/infrastructure/tracing"
	"github.com/heimu09/PersonalNotes/internal/app/api"
	"github.com/heimu09/PersonalNotes/internal/config"
	notes_repo "github.com/heimu09/PersonalNotes/internal/repository/notes"
	auth_serv "github.com/heimu09/PersonalNotes/internal/service/auth"
	"github.com/heimu09/PersonalNotes/internal/service/kafka"
	notes_serv "github.com/heimu09/PersonalNotes/internal/service/notes"
)

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	metrics.Init()
	metrics.StartMetricsServer(cfg.MetricsPort)

	connStr := cfg.PostgresConfig.URL()
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	if err = runMigrations(connStr); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}

	if cfg.TracingConfig.Endpoint != "" {
		_, cleanup, err := tracing.InitTracing(cfg.TracingConfig.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init tracing")
		}
		defer cleanup()
	}

	var broker kafka.MessageBroker
	if cfg.KafkaConfig.Enabled() {
		kafkaServ, err := kafka.New(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic,
			cfg.KafkaConfig.GroupID, 1, 1)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize kafka")
		}
		defer kafkaServ.Close()
		broker = kafkaServ
	}

	repo := notes_repo.NewDefaultRepository(db)
	server := api.New(
		notes_serv.NewDefaultService(repo, broker),
		auth_serv.NewDefaultService(repo, cfg.JWTSecretKey),
	)

	log.Info().Msgf("notes API listening on %s", cfg.Port)
	if err = server.Start(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func runMigrations(dbURL string) error {
	m, err := migrate.New(
		"file://migrations",
		dbURL,
	)
	if err != nil {
		return err
	}

	if err = m.Up(); !errors.Is(err, migrate.ErrNoChange) && err != nil {
		return err
	}

	return nil
}
