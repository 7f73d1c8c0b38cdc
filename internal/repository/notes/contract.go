package notes

import (
	"context"

	"github.com/heimu09/PersonalNotes/internal/model"
)

type (
	Repository interface {
		CreateUser(ctx context.Context, user model.User) (*model.User, error)
		GetUserByUsername(ctx context.Context, username string) (*model.User, error)
		UserExists(ctx context.Context, username string) (bool, error)

		CreateNote(ctx context.Context, note model.Note) (*model.Note, error)
		NoteExists(ctx context.Context, noteID model.NoteID, userID model.UserID) (bool, error)
		GetNote(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error)
		UpdateNote(ctx context.Context, note model.Note) error
		DeleteNote(ctx context.Context, noteID model.NoteID, userID model.UserID) error
		ListNotes(ctx context.Context, userID model.UserID, skip, limit int) ([]model.Note, error)
		SearchNotesByTags(ctx context.Context, userID model.UserID, tags []string) ([]model.Note, error)
	}
)
