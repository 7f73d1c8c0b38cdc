package auth

import (
	"context"

	"github.com/heimu09/PersonalNotes/internal/model"
)

type (
	Service interface {
		Register(ctx context.Context, username, email, password string) (*model.User, error)
		IssueToken(ctx context.Context, username, password string) (string, error)
		Authenticate(ctx context.Context, token string) (*model.User, error)
	}
)
