package notes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/heimu09/PersonalNotes/internal/model"
	"github.com/heimu09/PersonalNotes/internal/repository/notes"
	"github.com/heimu09/PersonalNotes/internal/service/kafka"
)

const (
	EventNoteCreated = "note.created"
	EventNoteUpdated = "note.updated"
	EventNoteDeleted = "note.deleted"
)

// NoteEvent is the payload published to the broker on every note mutation,
// keyed by the owner's user id.
type NoteEvent struct {
	Type   string       `json:"type"`
	NoteID model.NoteID `json:"note_id"`
}

type DefaultService struct {
	repo   notes.Repository
	broker kafka.MessageBroker
}

// NewDefaultService builds the notes service. The broker may be nil, in which
// case no events are published.
func NewDefaultService(repo notes.Repository, broker kafka.MessageBroker) *DefaultService {
	return &DefaultService{repo: repo, broker: broker}
}

func (d *DefaultService) Create(ctx context.Context, note model.Note) (*model.Note, error) {
	created, err := d.repo.CreateNote(ctx, note)
	if err != nil {
		return nil, err
	}

	d.publishEvent(ctx, EventNoteCreated, created.ID, created.UserID)
	return created, nil
}

func (d *DefaultService) Get(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error) {
	return d.repo.GetNote(ctx, noteID, userID)
}

func (d *DefaultService) Update(ctx context.Context, note model.Note) (*model.Note, error) {
	exists, err := d.repo.NoteExists(ctx, note.ID, note.UserID)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, model.ErrNoteNotFound
	}

	if err = d.repo.UpdateNote(ctx, note); err != nil {
		return nil, err
	}

	d.publishEvent(ctx, EventNoteUpdated, note.ID, note.UserID)
	return d.repo.GetNote(ctx, note.ID, note.UserID)
}

func (d *DefaultService) Delete(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error) {
	note, err := d.repo.GetNote(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	if err = d.repo.DeleteNote(ctx, noteID, userID); err != nil {
		return nil, err
	}

	d.publishEvent(ctx, EventNoteDeleted, noteID, userID)
	return note, nil
}

func (d *DefaultService) List(ctx context.Context, userID model.UserID, skip, limit int) ([]model.Note, error) {
	return d.repo.ListNotes(ctx, userID, skip, limit)
}

func (d *DefaultService) SearchByTags(ctx context.Context, userID model.UserID, tags []string) ([]model.Note, error) {
	return d.repo.SearchNotesByTags(ctx, userID, tags)
}

// publishEvent is best-effort: a broker failure must never fail the request.
func (d *DefaultService) publishEvent(ctx context.Context, eventType string, noteID model.NoteID, userID model.UserID) {
	if d.broker == nil {
		return
	}

	value, err := json.Marshal(NoteEvent{Type: eventType, NoteID: noteID})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal note event")
		return
	}

	key := []byte(fmt.Sprintf("%d", userID))
	if err = d.broker.SendMessage(ctx, key, value); err != nil {
		log.Error().Err(err).
			Int64("note_id", int64(noteID)).
			Int64("user_id", int64(userID)).
			Msgf("failed to publish '%s' event", eventType)
	}
}
