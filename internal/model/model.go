package model

import (
	"errors"
	"time"
)

type (
	UserID int64
	NoteID int64

	User struct {
		ID           UserID
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Note struct {
		ID        NoteID
		UserID    UserID
		Title     string
		Content   string
		Tags      []string
		CreatedAt time.Time
		UpdatedAt *time.Time
	}
)

var (
	ErrNoteNotFound       = errors.New("note not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")

	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
)

// ValidateNoteInput checks user-supplied note fields before they reach the
// persistence layer.
func ValidateNoteInput(title, content string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if content == "" {
		return ErrContentRequired
	}
	return nil
}
