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

// PostReadRepository handles post listings and detail reads with the author
// eagerly attached. Reads join the request transaction when one is in the
// context; with the sqlite fallback's single connection a pool read inside a
// transaction would block forever otherwise.
type PostReadRepository struct {
	db       *sqlx.DB
	builder  sq.StatementBuilderType
	txGetter TxGetter
}

func NewPostReadRepository(db *sqlx.DB, builder sq.StatementBuilderType, txGetter TxGetter) *PostReadRepository {
	return &PostReadRepository{db: db, builder: builder, txGetter: txGetter}
}

// postWithAuthor is the scan target for the posts/users join. Author columns
// are nullable because a post's author reference may be absent.
type postWithAuthor struct {
	models.PostRow
	AuthorUsername sql.NullString `db:"author_username"`
	AuthorEmail    sql.NullString `db:"author_email"`
}

func (p *postWithAuthor) public() models.Post {
	post := *models.PublicPost(&p.PostRow)
	if p.AuthorID != nil && p.AuthorUsername.Valid {
		post.Author = &models.User{
			ID:       *p.AuthorID,
			Username: p.AuthorUsername.String,
			Email:    p.AuthorEmail.String,
		}
	}
	return post
}

func (r *PostReadRepository) selectPosts() sq.SelectBuilder {
	return r.builder.
		Select(
			"p.id", "p.title", "p.content", "p.view_count", "p.comment_count",
			"p.author_id", "p.created_at", "p.updated_at",
			"u.username AS author_username", "u.email AS author_email",
		).
		From("posts p").
		LeftJoin("users u ON u.id = p.author_id")
}

// List returns all posts with their authors attached, oldest first.
func (r *PostReadRepository) List(ctx context.Context) ([]models.Post, error) {
	query, args, err := r.selectPosts().OrderBy("p.id ASC").ToSql()
	if err != nil {
		return nil, err
	}

	var rows []postWithAuthor
	err = sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &rows, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", args, "error", err)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].public())
	}
	return posts, nil
}

// GetByID returns one post with its author and its answers ordered ascending
// by creation time, each answer with its own author attached. Returns nil
// without error when the post does not exist.
func (r *PostReadRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query, args, err := r.selectPosts().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var row postWithAuthor
	err = sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &row, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", args, "error", err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	post := row.public()
	if post.Answers, err = r.answersForPost(ctx, id); err != nil {
		return nil, err
	}
	return &post, nil
}

type answerWithAuthor struct {
	models.AnswerRow
	AuthorUsername string `db:"author_username"`
}

func (r *PostReadRepository) answersForPost(ctx context.Context, postID int64) ([]models.Answer, error) {
	query, args, err := r.builder.
		Select(
			"a.id", "a.content", "a.post_id", "a.author_id", "a.created_at", "a.updated_at",
			"u.username AS author_username",
		).
		From("answers a").
		Join("users u ON u.id = a.author_id").
		Where(sq.Eq{"a.post_id": postID}).
		OrderBy("a.created_at ASC", "a.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []answerWithAuthor
	err = sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &rows, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", args, "error", err)
	if err != nil {
		return nil, err
	}

	answers := make([]models.Answer, 0, len(rows))
	for i := range rows {
		answer := *models.PublicAnswer(&rows[i].AnswerRow)
		answer.Author = &models.User{ID: rows[i].AuthorID, Username: rows[i].AuthorUsername}
		answers = append(answers, answer)
	}
	return answers, nil
}

// Exists reports whether a post with the given id exists.
func (r *PostReadRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.builder.
		Select("1").
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &one, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", args, "error", err)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PostWriteRepository handles post creation and counter updates. Writes join
// the request transaction when one is in the context.
type PostWriteRepository struct {
	db       *sqlx.DB
	builder  sq.StatementBuilderType
	txGetter TxGetter
}

func NewPostWriteRepository(db *sqlx.DB, builder sq.StatementBuilderType, txGetter TxGetter) *PostWriteRepository {
	return &PostWriteRepository{db: db, builder: builder, txGetter: txGetter}
}

// Save inserts a new post owned by the given author and returns the stored row.
func (r *PostWriteRepository) Save(ctx context.Context, title, content string, authorID int64) (*models.PostRow, error) {
	now := time.Now().UTC()

	query, args, err := r.builder.
		Insert("posts").
		Columns("title", "content", "view_count", "comment_count", "author_id", "created_at", "updated_at").
		Values(title, content, models.DefaultViewCount, models.DefaultCommentCount, authorID, now, now).
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

	return &models.PostRow{
		ID:           id,
		Title:        title,
		Content:      content,
		ViewCount:    models.DefaultViewCount,
		CommentCount: models.DefaultCommentCount,
		AuthorID:     &authorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IncrementCommentCount bumps a post's comment counter by one in a single
// UPDATE, atomic for that row. Returns sql.ErrNoRows when the post is gone.
func (r *PostWriteRepository) IncrementCommentCount(ctx context.Context, postID int64) error {
	query, args, err := r.builder.
		Update("posts").
		Set("comment_count", sq.Expr("comment_count + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": postID}).
		ToSql()
	if err != nil {
		return err
	}

	ext := executor(ctx, r.db, r.txGetter)
	res, err := ext.ExecContext(ctx, query, args...)
	logger.Log.Debugw("query executed", "query", query, "args", args, "error", err)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
