package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// TxGetter returns the transaction bound to the request context, or nil when
// the route runs without one.
type TxGetter func(ctx context.Context) *sqlx.Tx

// executor picks the request transaction when present, the pool otherwise.
func executor(ctx context.Context, db *sqlx.DB, txGetter TxGetter) sqlx.ExtContext {
	if txGetter != nil {
		if tx := txGetter(ctx); tx != nil {
			return tx
		}
	}
	return db
}

// IsUniqueViolation reports whether err is a uniqueness constraint rejection
// from either supported store: SQLSTATE 23505 on postgres, the
// "UNIQUE constraint failed" message on sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
