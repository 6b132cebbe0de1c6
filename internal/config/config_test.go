package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", strings.Repeat("k", 32))
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("DB_AUTO_MIGRATE", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "todolist.db", cfg.Database.Path)
	assert.Equal(t, "file:todolist.db?_foreign_keys=on", cfg.DSN())
	assert.Equal(t, SessionStoreSQL, cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, ":8080", cfg.ServerAddr())
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/todo?sslmode=disable")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost/todo?sslmode=disable", cfg.DSN())
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 4, cfg.Auth.BCryptCost)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "short secret",
			env:  map[string]string{"SECRET_KEY": "short"},
			want: "SECRET_KEY",
		},
		{
			name: "postgres without url",
			env:  map[string]string{"DB_DRIVER": "postgres"},
			want: "DATABASE_URL",
		},
		{
			name: "unknown driver",
			env:  map[string]string{"DB_DRIVER": "oracle"},
			want: "DB_DRIVER",
		},
		{
			name: "unknown session store",
			env:  map[string]string{"SESSION_STORE": "memcached"},
			want: "SESSION_STORE",
		},
		{
			name: "bcrypt cost out of range",
			env:  map[string]string{"BCRYPT_COST": "99"},
			want: "BCRYPT_COST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
