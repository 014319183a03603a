package db

import (
	"context"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
)

func TestOpenAndMigrate_SQLite(t *testing.T) {
	ctx := context.Background()

	database, err := Open(ctx, DialectSQLite, ":memory:", 0, 0)
	assert.NoError(t, err)
	defer database.Close()

	assert.NoError(t, Migrate(ctx, database, DialectSQLite))
	// idempotent
	assert.NoError(t, Migrate(ctx, database, DialectSQLite))

	// defaults from the schema
	_, err = database.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ('alice', 'alice@example.com', 'x')`)
	assert.NoError(t, err)
	_, err = database.ExecContext(ctx,
		`INSERT INTO posts (title, content, author_id) VALUES ('Q1', 'body', 1)`)
	assert.NoError(t, err)

	var counts struct {
		ViewCount    int `db:"view_count"`
		CommentCount int `db:"comment_count"`
	}
	err = database.GetContext(ctx, &counts, `SELECT view_count, comment_count FROM posts WHERE id = 1`)
	assert.NoError(t, err)
	assert.Equal(t, 99, counts.ViewCount)
	assert.Equal(t, 1, counts.CommentCount)
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn", 0, 0)
	assert.Error(t, err)
}

func TestBuilder_PlaceholderFormats(t *testing.T) {
	pgSQL, _, err := Builder(DialectPostgres).Select("id").From("users").Where(sq.Eq{"username": "a"}).ToSql()
	assert.NoError(t, err)
	assert.Contains(t, pgSQL, "$1")

	liteSQL, _, err := Builder(DialectSQLite).Select("id").From("users").Where(sq.Eq{"username": "a"}).ToSql()
	assert.NoError(t, err)
	assert.Contains(t, liteSQL, "?")
}
