package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chepyr/go-todo-list/internal/db"
	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only looks at the first 72 bytes of a password.
const maxPasswordBytes = 72

// CredentialStore registers users and verifies their passwords.
type CredentialStore struct {
	users db.UserRepositoryInterface
	cost  int
}

func NewCredentialStore(users db.UserRepositoryInterface, cost int) *CredentialStore {
	return &CredentialStore{users: users, cost: cost}
}

func (s *CredentialStore) Register(ctx context.Context, userName, password string) (uuid.UUID, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || utf8.RuneCountInString(userName) > models.MaxUserNameLength {
		return uuid.Nil, models.ErrInvalidUsername
	}
	if password == "" || len(password) > maxPasswordBytes {
		return uuid.Nil, models.ErrInvalidPasswordInput
	}

	_, err := s.users.GetByUserName(ctx, userName)
	if err == nil {
		return uuid.Nil, models.ErrDuplicateUsername
	}
	if !errors.Is(err, models.ErrNotFound) {
		return uuid.Nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		UserName:     userName,
		PasswordHash: string(hash),
	}
	// the unique index still catches a concurrent registration of the same name
	if err := s.users.Create(ctx, user); err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func (s *CredentialStore) Verify(ctx context.Context, userName, password string) (uuid.UUID, error) {
	user, err := s.users.GetByUserName(ctx, strings.TrimSpace(userName))
	if errors.Is(err, models.ErrNotFound) {
		return uuid.Nil, models.ErrUnknownUser
	}
	if err != nil {
		return uuid.Nil, err
	}

	if len(password) > maxPasswordBytes {
		return uuid.Nil, models.ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return uuid.Nil, models.ErrInvalidPassword
	}
	return user.ID, nil
}

// Lookup returns the user behind an identity, ErrUnknownUser if it is gone.
func (s *CredentialStore) Lookup(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnknownUser
	}
	return user, err
}
