package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// defines methods for user db operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type UserRepository struct {
	db *sqlx.DB
}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	UserName     string    `db:"user_name"`
	PasswordHash string    `db:"password_hash"`
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user. A taken user name yields models.ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := r.db.Rebind(`INSERT INTO users (id, user_name, password_hash) VALUES (?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, user.ID, user.UserName, user.PasswordHash)
	if isUniqueViolation(err) {
		return models.ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	query := r.db.Rebind(`SELECT id, user_name, password_hash FROM users WHERE user_name = ?`)
	return r.get(ctx, query, userName)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := r.db.Rebind(`SELECT id, user_name, password_hash FROM users WHERE id = ?`)
	return r.get(ctx, query, id)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*models.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &models.User{
		ID:           row.ID,
		UserName:     row.UserName,
		PasswordHash: row.PasswordHash,
	}, nil
}
