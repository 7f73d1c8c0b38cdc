package notes

import (
	"context"

	"github.com/heimu09/PersonalNotes/internal/model"
)

type (
	Service interface {
		Create(ctx context.Context, note model.Note) (*model.Note, error)
		Get(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error)
		Update(ctx context.Context, note model.Note) (*model.Note, error)
		Delete(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error)
		List(ctx context.Context, userID model.UserID, skip, limit int) ([]model.Note, error)
		SearchByTags(ctx context.Context, userID model.UserID, tags []string) ([]model.Note, error)
	}
)
