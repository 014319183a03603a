package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names accepted by Open, Migrate and Builder.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Open connects to the configured store: PostgreSQL through the pgx stdlib
// driver, or a local SQLite file as the file-based fallback.
func Open(ctx context.Context, dialect, dsn string, maxOpenConns, maxIdleConns int) (*sqlx.DB, error) {
	switch dialect {
	case DialectPostgres:
		database, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		database.SetMaxOpenConns(maxOpenConns)
		database.SetMaxIdleConns(maxIdleConns)
		return database, nil

	case DialectSQLite:
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, ":") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		database, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite db: %w", err)
		}
		// single writer, avoid "database is locked" under concurrent requests
		database.SetMaxOpenConns(1)
		database.SetMaxIdleConns(1)
		_, _ = database.ExecContext(ctx, `PRAGMA journal_mode=WAL;`)
		_, _ = database.ExecContext(ctx, `PRAGMA busy_timeout=3000;`)
		if _, err := database.ExecContext(ctx, `PRAGMA foreign_keys=ON;`); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
		return database, nil

	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// Builder returns a statement builder with the placeholder format the dialect
// expects: $n for postgres, ? for sqlite.
func Builder(dialect string) sq.StatementBuilderType {
	if dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// Migrate creates the schema if it does not exist yet. Called once at startup;
// the schema is synchronized from the data model rather than versioned.
func Migrate(ctx context.Context, database *sqlx.DB, dialect string) error {
	for _, stmt := range schema(dialect) {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func schema(dialect string) []string {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	ref := "INTEGER"
	if dialect == DialectPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
		ref = "BIGINT"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS posts (
			id %s,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			view_count INTEGER NOT NULL DEFAULT 99,
			comment_count INTEGER NOT NULL DEFAULT 1,
			author_id %s REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`, serial, ref),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS answers (
			id %s,
			content TEXT NOT NULL,
			post_id %s NOT NULL REFERENCES posts(id),
			author_id %s NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`, serial, ref, ref),
	}
}
