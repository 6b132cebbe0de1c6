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

// SessionRepositoryInterface stores server-side session records.
// Implemented by SessionRepository (SQL) and RedisSessionRepository.
type SessionRepositoryInterface interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionRepository struct {
	db *sqlx.DB
}

type sessionRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

var _ SessionRepositoryInterface = (*SessionRepository)(nil)

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := r.db.Rebind(`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, session.ExpiresAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := r.db.Rebind(`SELECT id, user_id, expires_at FROM sessions WHERE id = ?`)

	var row sessionRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return &models.Session{ID: row.ID, UserID: row.UserID, ExpiresAt: row.ExpiresAt}, nil
}

// Delete is idempotent: removing an unknown session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM sessions WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
