package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id VARCHAR(36) PRIMARY KEY,
  user_name VARCHAR(50) NOT NULL UNIQUE,
  password_hash VARCHAR(255) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS tasks (
  id VARCHAR(36) PRIMARY KEY,
  title VARCHAR(100) NOT NULL,
  details VARCHAR(500),
  completed BOOLEAN NOT NULL DEFAULT FALSE,
  date_created TIMESTAMP NOT NULL,
  date_completed TIMESTAMP NULL,
  user_id VARCHAR(36) NOT NULL REFERENCES users(id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id)`,
	`CREATE TABLE IF NOT EXISTS sessions (
  id VARCHAR(36) PRIMARY KEY,
  user_id VARCHAR(36) NOT NULL REFERENCES users(id),
  expires_at TIMESTAMP NOT NULL
)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id VARCHAR(36) PRIMARY KEY,
  user_name VARCHAR(50) NOT NULL UNIQUE,
  password_hash VARCHAR(255) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS tasks (
  id VARCHAR(36) PRIMARY KEY,
  title VARCHAR(100) NOT NULL,
  details VARCHAR(500),
  completed BOOLEAN NOT NULL DEFAULT FALSE,
  date_created TIMESTAMPTZ NOT NULL,
  date_completed TIMESTAMPTZ NULL,
  user_id VARCHAR(36) NOT NULL REFERENCES users(id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id)`,
	`CREATE TABLE IF NOT EXISTS sessions (
  id VARCHAR(36) PRIMARY KEY,
  user_id VARCHAR(36) NOT NULL REFERENCES users(id),
  expires_at TIMESTAMPTZ NOT NULL
)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so the index lives in the table DDL.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id VARCHAR(36) PRIMARY KEY,
  user_name VARCHAR(50) NOT NULL UNIQUE,
  password_hash VARCHAR(255) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS tasks (
  id VARCHAR(36) PRIMARY KEY,
  title VARCHAR(100) NOT NULL,
  details VARCHAR(500),
  completed BOOLEAN NOT NULL DEFAULT FALSE,
  date_created DATETIME(6) NOT NULL,
  date_completed DATETIME(6) NULL,
  user_id VARCHAR(36) NOT NULL,
  INDEX idx_tasks_user_id (user_id),
  FOREIGN KEY (user_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS sessions (
  id VARCHAR(36) PRIMARY KEY,
  user_id VARCHAR(36) NOT NULL,
  expires_at DATETIME(6) NOT NULL,
  FOREIGN KEY (user_id) REFERENCES users(id)
)`,
}

// Migrate creates the users, tasks and sessions tables when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var statements []string
	switch db.DriverName() {
	case "sqlite3":
		statements = sqliteSchema
	case "postgres":
		statements = postgresSchema
	case "mysql":
		statements = mysqlSchema
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
