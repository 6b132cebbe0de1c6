package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// defines methods for task db operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	GetForOwner(ctx context.Context, id, userID uuid.UUID) (*models.Task, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error
}

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID            uuid.UUID      `db:"id"`
	Title         string         `db:"title"`
	Details       sql.NullString `db:"details"`
	Completed     bool           `db:"completed"`
	DateCreated   time.Time      `db:"date_created"`
	DateCompleted sql.NullTime   `db:"date_completed"`
	UserID        uuid.UUID      `db:"user_id"`
}

const taskColumns = `id, title, details, completed, date_created, date_completed, user_id`

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := r.db.Rebind(`INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)

	details := sql.NullString{String: task.Details, Valid: task.Details != ""}
	var due sql.NullTime
	if task.DueAt != nil {
		due = sql.NullTime{Time: *task.DueAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, details, task.Completed, task.DateCreated, due, task.UserID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// ListByUserID returns the user's tasks in creation order.
func (r *TaskRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY date_created, id`)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}

	tasks := make([]*models.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRow(row))
	}
	return tasks, nil
}

// GetForOwner returns models.ErrNotFound when the task does not exist
// or belongs to someone else.
func (r *TaskRepository) GetForOwner(ctx context.Context, id, userID uuid.UUID) (*models.Task, error) {
	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`)

	var row taskRow
	err := r.db.GetContext(ctx, &row, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}
	return mapTaskRow(row), nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	query := r.db.Rebind(`UPDATE tasks SET completed = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, completed, id); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func mapTaskRow(row taskRow) *models.Task {
	task := &models.Task{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Completed:   row.Completed,
		DateCreated: row.DateCreated,
	}
	if row.Details.Valid {
		task.Details = row.Details.String
	}
	if row.DateCompleted.Valid {
		due := row.DateCompleted.Time
		task.DueAt = &due
	}
	return task
}
