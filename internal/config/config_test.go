package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"QNA_SERVER_ADDR", "QNA_DATABASE_DIALECT", "QNA_DATABASE_URL",
		"QNA_DATABASE_HOST", "QNA_DATABASE_PORT", "QNA_DATABASE_NAME",
		"QNA_DATABASE_USER", "QNA_DATABASE_PASSWORD", "QNA_DATABASE_PATH",
		"QNA_JWT_SECRET", "QNA_JWT_EXPSECOND", "QNA_CORS_ORIGINS", "QNA_LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("nonexistent.env")
	assert.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Dialect)
	assert.Equal(t, "database.sqlite", cfg.DSN())
	assert.Equal(t, DefaultJWTSecret, cfg.JWT.Secret)
	assert.True(t, cfg.UsingDefaultSecret())
	assert.Equal(t, time.Hour, cfg.JWTExpiration())
	assert.Nil(t, cfg.CORSOrigins())
}

func TestLoad_PostgresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("QNA_DATABASE_DIALECT", "postgres")
	t.Setenv("QNA_DATABASE_HOST", "db.internal")
	t.Setenv("QNA_DATABASE_PORT", "5433")
	t.Setenv("QNA_DATABASE_NAME", "board")
	t.Setenv("QNA_DATABASE_USER", "app")
	t.Setenv("QNA_DATABASE_PASSWORD", "pw")

	cfg, err := Load("nonexistent.env")
	assert.NoError(t, err)
	assert.Equal(t, "postgres://app:pw@db.internal:5433/board?sslmode=disable", cfg.DSN())
}

func TestLoad_URLWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("QNA_DATABASE_DIALECT", "postgres")
	t.Setenv("QNA_DATABASE_URL", "postgres://u:p@h:5432/d")

	cfg, err := Load("nonexistent.env")
	assert.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:5432/d", cfg.DSN())
}

func TestLoad_InvalidDialect(t *testing.T) {
	clearEnv(t)
	t.Setenv("QNA_DATABASE_DIALECT", "oracle")

	_, err := Load("nonexistent.env")
	assert.Error(t, err)
}

func TestCORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("QNA_CORS_ORIGINS", " http://localhost:3000 , https://board.example.com ,")

	cfg, err := Load("nonexistent.env")
	assert.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://board.example.com"}, cfg.CORSOrigins())
}

func TestLoad_CustomSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("QNA_JWT_SECRET", "prod-secret")

	cfg, err := Load("nonexistent.env")
	assert.NoError(t, err)
	assert.False(t, cfg.UsingDefaultSecret())
}
