package todo

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chepyr/go-todo-list/internal/db"
	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
)

// DateLayout is the form field format of the due date.
const DateLayout = "2006-01-02"

// TaskStore validates task input and keeps every read and write scoped
// to the owning user.
type TaskStore struct {
	tasks db.TaskRepositoryInterface
	now   func() time.Time
}

func NewTaskStore(tasks db.TaskRepositoryInterface) *TaskStore {
	return &TaskStore{tasks: tasks, now: time.Now}
}

// Create persists a new, not yet completed task. An empty dueAt leaves the
// due date unset.
func (s *TaskStore) Create(ctx context.Context, ownerID uuid.UUID, title, details, dueAt string) (uuid.UUID, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > models.MaxTaskTitleLength {
		return uuid.Nil, models.ErrInvalidTitle
	}
	if utf8.RuneCountInString(details) > models.MaxTaskDetailsLength {
		return uuid.Nil, models.ErrInvalidDetails
	}
	due, err := ParseDate(dueAt)
	if err != nil {
		return uuid.Nil, err
	}

	task := &models.Task{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       title,
		Details:     details,
		Completed:   false,
		DateCreated: s.now().UTC(),
		DueAt:       due,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return uuid.Nil, err
	}
	return task.ID, nil
}

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	return s.tasks.ListByUserID(ctx, ownerID)
}

// ToggleCompleted flips the completed flag of one of the owner's tasks.
// Tasks of other users are reported as models.ErrNotFound.
func (s *TaskStore) ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetForOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	if err := s.tasks.SetCompleted(ctx, task.ID, task.Completed); err != nil {
		return nil, err
	}
	return task, nil
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, models.ErrInvalidDate
	}
	return &t, nil
}
