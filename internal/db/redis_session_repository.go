package db

import (
	"context"
	"fmt"
	"time"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessionRepository keeps session records as hashes that Redis
// expires on its own at the session deadline.
type RedisSessionRepository struct {
	client *redis.Client
}

var _ SessionRepositoryInterface = (*RedisSessionRepository)(nil)

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (r *RedisSessionRepository) Create(ctx context.Context, session *models.Session) error {
	key := sessionKey(session.ID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"user_id", session.UserID.String(),
			"expires_at", session.ExpiresAt.UTC().Format(time.RFC3339Nano))
		pipe.ExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	fields, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, models.ErrNotFound
	}

	userID, err := uuid.Parse(fields["user_id"])
	if err != nil {
		return nil, fmt.Errorf("session %s: bad user_id: %w", id, err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("session %s: bad expires_at: %w", id, err)
	}
	return &models.Session{ID: id, UserID: userID, ExpiresAt: expiresAt}, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
