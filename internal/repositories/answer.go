package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"qna-board/internal/logger"
	"qna-board/internal/models"
)

// AnswerWriteRepository handles answer creation. Writes join the request
// transaction when one is in the context, so the insert commits or rolls back
// together with the post's comment counter update.
type AnswerWriteRepository struct {
	db       *sqlx.DB
	builder  sq.StatementBuilderType
	txGetter TxGetter
}

func NewAnswerWriteRepository(db *sqlx.DB, builder sq.StatementBuilderType, txGetter TxGetter) *AnswerWriteRepository {
	return &AnswerWriteRepository{db: db, builder: builder, txGetter: txGetter}
}

// Save inserts a new answer and returns the stored row. The post reference is
// enforced by the foreign key, so inserting against a vanished post fails.
func (r *AnswerWriteRepository) Save(ctx context.Context, postID, authorID int64, content string) (*models.AnswerRow, error) {
	now := time.Now().UTC()

	query, args, err := r.builder.
		Insert("answers").
		Columns("content", "post_id", "author_id", "created_at", "updated_at").
		Values(content, postID, authorID, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	ext := executor(ctx, r.db, r.txGetter)
	var id int64
	err = sqlx.GetContext(ctx, ext, &id, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", args, "error", err)
	if err != nil {
		return nil, err
	}

	return &models.AnswerRow{
		ID:        id,
		Content:   content,
		PostID:    postID,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
