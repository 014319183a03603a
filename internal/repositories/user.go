package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"qna-board/internal/logger"
	"qna-board/internal/models"
)

// UserReadRepository handles user lookups.
type UserReadRepository struct {
	db       *sqlx.DB
	builder  sq.StatementBuilderType
	txGetter TxGetter
}

func NewUserReadRepository(db *sqlx.DB, builder sq.StatementBuilderType, txGetter TxGetter) *UserReadRepository {
	return &UserReadRepository{db: db, builder: builder, txGetter: txGetter}
}

// GetByUsernameOrEmail finds a user matching the given username or email,
// whichever is set. Returns nil without error when no user matches.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserRow, error) {
	conds := sq.Or{}
	if username != nil {
		conds = append(conds, sq.Eq{"username": *username})
	}
	if email != nil {
		conds = append(conds, sq.Eq{"email": *email})
	}
	if len(conds) == 0 {
		return nil, errors.New("username or email required")
	}

	query, args, err := r.builder.
		Select("id", "username", "email", "password_hash", "created_at", "updated_at").
		From("users").
		Where(conds).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user models.UserRow
	err = sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", args, "error", err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID finds a user by primary key. Returns nil without error when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserRow, error) {
	query, args, err := r.builder.
		Select("id", "username", "email", "password_hash", "created_at", "updated_at").
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user models.UserRow
	err = sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", args, "error", err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserWriteRepository handles user creation.
type UserWriteRepository struct {
	db       *sqlx.DB
	builder  sq.StatementBuilderType
	txGetter TxGetter
}

func NewUserWriteRepository(db *sqlx.DB, builder sq.StatementBuilderType, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{db: db, builder: builder, txGetter: txGetter}
}

// Save inserts a new user and returns the stored row. Uniqueness violations
// surface as driver errors; callers classify them with IsUniqueViolation.
func (r *UserWriteRepository) Save(ctx context.Context, username, email, passwordHash string) (*models.UserRow, error) {
	now := time.Now().UTC()

	query, args, err := r.builder.
		Insert("users").
		Columns("username", "email", "password_hash", "created_at", "updated_at").
		Values(username, email, passwordHash, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var id int64
	err = sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &id, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", []any{username, email}, "error", err)
	if err != nil {
		return nil, err
	}

	return &models.UserRow{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
