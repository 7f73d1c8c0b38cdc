package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/telebot.v3"

	"github.com/heimu09/PersonalNotes/infrastructure/metrics"
	botapp "github.com/heimu09/PersonalNotes/internal/app/bot"
	notesclient "github.com/heimu09/PersonalNotes/internal/client/notes"
	"github.com/heimu09/PersonalNotes/internal/config"
)

func main() {
	cfg, err := config.LoadBotConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	metrics.Init()
	metrics.StartMetricsServer(cfg.MetricsPort)

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	client := notesclient.NewClient(cfg.APIBaseURL)
	store := botapp.NewMemoryStore()

	botapp.New(bot, client, store).Start()
}
