package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxTaskTitleLength   = 100
	MaxTaskDetailsLength = 500
)

// Task is a to-do item. It is only ever read or written scoped to its owner.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Details     string
	Completed   bool
	DateCreated time.Time
	DueAt       *time.Time
}
