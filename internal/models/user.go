package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxUserNameLength = 50

type User struct {
	ID           uuid.UUID
	UserName     string
	PasswordHash string
}

// Session binds an issued session token to a user until ExpiresAt.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
