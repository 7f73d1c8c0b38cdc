package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/heimu09/PersonalNotes/infrastructure/tracing"
	"github.com/heimu09/PersonalNotes/internal/model"
)

type DefaultRepository struct {
	db *sql.DB
}

func NewDefaultRepository(pg *sql.DB) *DefaultRepository {
	return &DefaultRepository{pg}
}

func (d *DefaultRepository) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	created := user
	err := d.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user '%s': %w", user.Username, err)
	}

	return &created, nil
}

func (d *DefaultRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`
	err := d.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", username, err)
	}
	return user, nil
}

func (d *DefaultRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	err := d.db.QueryRowContext(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to get user '%s' exists: %w", username, err)
	}
	return exists, nil
}

func (d *DefaultRepository) CreateNote(ctx context.Context, note model.Note) (*model.Note, error) {
	query := `
		INSERT INTO notes (user_id, title, content, tags, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	created := note
	err := d.db.QueryRowContext(ctx, query, note.UserID, note.Title, note.Content, pq.Array(note.Tags)).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return &created, nil
}

func (d *DefaultRepository) NoteExists(ctx context.Context, noteID model.NoteID, userID model.UserID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1 AND user_id = $2)`
	err := d.db.QueryRowContext(ctx, query, noteID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to get note '%d' for user '%d' exists: %w", noteID, userID, err)
	}
	return exists, nil
}

func (d *DefaultRepository) GetNote(ctx context.Context, noteID model.NoteID, userID model.UserID) (*model.Note, error) {
	note := &model.Note{}
	query := `
		SELECT id, user_id, title, content, tags, created_at, updated_at
		FROM notes WHERE id = $1 AND user_id = $2
	`
	err := d.db.QueryRowContext(ctx, query, noteID, userID).
		Scan(&note.ID, &note.UserID, &note.Title, &note.Content, pq.Array(&note.Tags), &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note '%d' for user '%d': %w", noteID, userID, err)
	}
	return note, nil
}

func (d *DefaultRepository) UpdateNote(ctx context.Context, note model.Note) error {
	query := `
		UPDATE notes SET title = $1, content = $2, tags = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`

	if _, err := d.db.ExecContext(ctx, query, note.Title, note.Content, pq.Array(note.Tags), note.ID, note.UserID); err != nil {
		return fmt.Errorf("failed to update note %d for user %d: %w", note.ID, note.UserID, err)
	}

	return nil
}

func (d *DefaultRepository) DeleteNote(ctx context.Context, noteID model.NoteID, userID model.UserID) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	if _, err := d.db.ExecContext(ctx, query, noteID, userID); err != nil {
		return fmt.Errorf("failed to delete note %d for user %d: %w", noteID, userID, err)
	}

	return nil
}

func (d *DefaultRepository) ListNotes(ctx context.Context, userID model.UserID, skip, limit int) ([]model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "ListNotes_repo")
	defer span.End()

	queryBuilder := squirrel.
		Select("id",
			"user_id",
			"title",
			"content",
			"tags",
			"created_at",
			"updated_at").
		From("notes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return d.queryNotes(ctx, query, args...)
}

func (d *DefaultRepository) SearchNotesByTags(ctx context.Context, userID model.UserID, tags []string) ([]model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "SearchNotesByTags_repo")
	defer span.End()

	// && is a non-empty array intersection on the text[] tags column.
	queryBuilder := squirrel.
		Select("id",
			"user_id",
			"title",
			"content",
			"tags",
			"created_at",
			"updated_at").
		From("notes").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Expr("tags && ?", pq.Array(tags))).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return d.queryNotes(ctx, query, args...)
}

func (d *DefaultRepository) queryNotes(ctx context.Context, query string, args ...interface{}) ([]model.Note, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var note model.Note
		if err = rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, pq.Array(&note.Tags), &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}
