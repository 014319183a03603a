package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"qna-board/internal/logger"
	"qna-board/internal/models"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyContent = errors.New("content is required")
	ErrMissingPost  = errors.New("title and content are required")
)

// PostReader defines read-only operations for posts.
type PostReader interface {
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PostWriter defines write operations for posts.
type PostWriter interface {
	Save(ctx context.Context, title, content string, authorID int64) (*models.PostRow, error)
	IncrementCommentCount(ctx context.Context, postID int64) error
}

// AnswerWriter defines write operations for answers.
type AnswerWriter interface {
	Save(ctx context.Context, postID, authorID int64, content string) (*models.AnswerRow, error)
}

// BoardService handles posts and answers.
type BoardService struct {
	posts   PostReader
	postsW  PostWriter
	answers AnswerWriter
	users   UserReader
}

// NewBoardService creates a new BoardService instance.
func NewBoardService(posts PostReader, postsW PostWriter, answers AnswerWriter, users UserReader) *BoardService {
	return &BoardService{
		posts:   posts,
		postsW:  postsW,
		answers: answers,
		users:   users,
	}
}

// CreatePost creates a post owned by the given author.
func (svc *BoardService) CreatePost(ctx context.Context, authorID int64, title, content string) (*models.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrMissingPost
	}

	row, err := svc.postsW.Save(ctx, title, content, authorID)
	if err != nil {
		logger.Log.Errorw("failed to save post", "err", err)
		return nil, err
	}
	return models.PublicPost(row), nil
}

// ListPosts returns all posts with authors attached.
func (svc *BoardService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := svc.posts.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list posts", "err", err)
		return nil, err
	}
	return posts, nil
}

// GetPost returns one post with author and ordered answers, or ErrPostNotFound.
func (svc *BoardService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := svc.posts.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get post", "id", id, "err", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// AddAnswer validates and stores an answer against an existing post, bumping
// the post's comment counter. The handler route wraps the call in a single
// transaction, so the existence check, insert and increment commit together.
func (svc *BoardService) AddAnswer(ctx context.Context, postID, authorID int64, content string) (*models.Answer, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}

	exists, err := svc.posts.Exists(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to check post exists", "post_id", postID, "err", err)
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	row, err := svc.answers.Save(ctx, postID, authorID, trimmed)
	if err != nil {
		logger.Log.Errorw("failed to save answer", "post_id", postID, "err", err)
		return nil, err
	}

	if err := svc.postsW.IncrementCommentCount(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		logger.Log.Errorw("failed to increment comment count", "post_id", postID, "err", err)
		return nil, err
	}

	answer := models.PublicAnswer(row)
	author, err := svc.users.GetByID(ctx, authorID)
	if err != nil {
		logger.Log.Errorw("failed to load answer author", "author_id", authorID, "err", err)
		return nil, err
	}
	answer.Author = models.AuthorRef(author)
	return answer, nil
}
