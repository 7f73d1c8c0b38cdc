package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/heimu09/PersonalNotes/internal/model"
	"github.com/heimu09/PersonalNotes/internal/repository/notes"
)

const accessTokenTTL = 30 * time.Minute

type DefaultService struct {
	repo      notes.Repository
	secretKey []byte
}

func NewDefaultService(repo notes.Repository, secretKey string) *DefaultService {
	return &DefaultService{repo: repo, secretKey: []byte(secretKey)}
}

// Register creates a user, storing the password only as a bcrypt hash.
func (d *DefaultService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	exists, err := d.repo.UserExists(ctx, username)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, model.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return d.repo.CreateUser(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// IssueToken verifies the password and returns a signed bearer token with
// the username as subject.
func (d *DefaultService) IssueToken(ctx context.Context, username, password string) (string, error) {
	user, err := d.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", model.ErrInvalidCredentials
		}
		return "", err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (d *DefaultService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return d.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidCredentials
	}

	user, err := d.repo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}
