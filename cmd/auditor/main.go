package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/heimu09/PersonalNotes/infrastructure/metrics"
	"github.com/heimu09/PersonalNotes/internal/app/auditor"
	"github.com/heimu09/PersonalNotes/internal/config"
	"github.com/heimu09/PersonalNotes/internal/service/kafka"
)

func main() {
	cfg, err := config.LoadAuditorConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	metrics.Init()
	metrics.StartMetricsServer(cfg.MetricsPort)

	kafkaServ, err := kafka.New(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic,
		cfg.KafkaConfig.GroupID, 1, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize kafka")
	}
	defer kafkaServ.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = auditor.New(kafkaServ).Start(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("auditor stopped")
	}
}
