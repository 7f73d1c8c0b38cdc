package auditor

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/heimu09/PersonalNotes/infrastructure/metrics"
	"github.com/heimu09/PersonalNotes/internal/service/kafka"
	"github.com/heimu09/PersonalNotes/internal/service/notes"
)

// Auditor consumes note lifecycle events from the broker and turns them into
// logs and metrics.
type Auditor struct {
	broker kafka.MessageBroker
}

func New(broker kafka.MessageBroker) *Auditor {
	return &Auditor{broker: broker}
}

func (a *Auditor) Start(ctx context.Context) error {
	log.Info().Msg("auditor started...")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		key, value, err := a.broker.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Msg("error reading message from kafka")
			continue
		}

		userID, err := strconv.ParseInt(string(key), 10, 64)
		if err != nil {
			log.Error().Err(err).Msgf("error converting user id '%s' to int", key)
			continue
		}

		var event notes.NoteEvent
		if err = json.Unmarshal(value, &event); err != nil {
			log.Error().Err(err).Msg("error decoding note event")
			continue
		}

		metrics.AuditedEventsCounter.WithLabelValues(event.Type).Inc()
		log.Info().
			Str("type", event.Type).
			Int64("note_id", int64(event.NoteID)).
			Int64("user_id", userID).
			Msg("note event")
	}
}
