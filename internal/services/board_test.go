package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"qna-board/internal/models"
	"qna-board/internal/services"
)

func newBoardService(ctrl *gomock.Controller) (*services.BoardService, *services.MockPostReader, *services.MockPostWriter, *services.MockAnswerWriter, *services.MockUserReader) {
	posts := services.NewMockPostReader(ctrl)
	postsW := services.NewMockPostWriter(ctrl)
	answers := services.NewMockAnswerWriter(ctrl)
	users := services.NewMockUserReader(ctrl)
	return services.NewBoardService(posts, postsW, answers, users), posts, postsW, answers, users
}

func TestBoardService_CreatePost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("success", func(t *testing.T) {
		svc, _, postsW, _, _ := newBoardService(ctrl)

		authorID := int64(5)
		postsW.EXPECT().
			Save(gomock.Any(), "Q1", "body", authorID).
			Return(&models.PostRow{
				ID: 1, Title: "Q1", Content: "body",
				ViewCount: 99, CommentCount: 1, AuthorID: &authorID,
			}, nil)

		post, err := svc.CreatePost(context.Background(), authorID, "Q1", "body")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), post.ID)
		assert.Equal(t, 99, post.ViewCount)
		assert.Equal(t, 1, post.CommentCount)
	})

	t.Run("missing title or content", func(t *testing.T) {
		svc, _, _, _, _ := newBoardService(ctrl)

		for _, tt := range []struct{ title, content string }{
			{"", "body"},
			{"   ", "body"},
			{"Q1", ""},
			{"Q1", "\t\n"},
		} {
			post, err := svc.CreatePost(context.Background(), 1, tt.title, tt.content)
			assert.ErrorIs(t, err, services.ErrMissingPost)
			assert.Nil(t, post)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		svc, _, postsW, _, _ := newBoardService(ctrl)

		postsW.EXPECT().
			Save(gomock.Any(), "Q1", "body", int64(1)).
			Return(nil, errors.New("insert failed"))

		post, err := svc.CreatePost(context.Background(), 1, "Q1", "body")
		assert.Error(t, err)
		assert.Nil(t, post)
	})
}

func TestBoardService_GetPost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("found", func(t *testing.T) {
		svc, posts, _, _, _ := newBoardService(ctrl)

		posts.EXPECT().
			GetByID(gomock.Any(), int64(3)).
			Return(&models.Post{ID: 3, Title: "Q"}, nil)

		post, err := svc.GetPost(context.Background(), 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), post.ID)
	})

	t.Run("absent", func(t *testing.T) {
		svc, posts, _, _, _ := newBoardService(ctrl)

		posts.EXPECT().
			GetByID(gomock.Any(), int64(99)).
			Return(nil, nil)

		post, err := svc.GetPost(context.Background(), 99)
		assert.ErrorIs(t, err, services.ErrPostNotFound)
		assert.Nil(t, post)
	})
}

func TestBoardService_AddAnswer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("success trims content and attaches author", func(t *testing.T) {
		svc, posts, postsW, answers, users := newBoardService(ctrl)

		posts.EXPECT().Exists(gomock.Any(), int64(1)).Return(true, nil)
		answers.EXPECT().
			Save(gomock.Any(), int64(1), int64(2), "A1").
			Return(&models.AnswerRow{ID: 10, Content: "A1", PostID: 1, AuthorID: 2}, nil)
		postsW.EXPECT().IncrementCommentCount(gomock.Any(), int64(1)).Return(nil)
		users.EXPECT().
			GetByID(gomock.Any(), int64(2)).
			Return(&models.UserRow{ID: 2, Username: "alice", Email: "alice@example.com"}, nil)

		answer, err := svc.AddAnswer(context.Background(), 1, 2, "  A1  ")
		assert.NoError(t, err)
		assert.Equal(t, "A1", answer.Content)
		assert.NotNil(t, answer.Author)
		assert.Equal(t, "alice", answer.Author.Username)
		// compact author attachment: no email
		assert.Empty(t, answer.Author.Email)
	})

	t.Run("whitespace-only content rejected before any write", func(t *testing.T) {
		svc, _, _, _, _ := newBoardService(ctrl)

		answer, err := svc.AddAnswer(context.Background(), 1, 2, "   \t\n ")
		assert.ErrorIs(t, err, services.ErrEmptyContent)
		assert.Nil(t, answer)
	})

	t.Run("post absent", func(t *testing.T) {
		svc, posts, _, _, _ := newBoardService(ctrl)

		posts.EXPECT().Exists(gomock.Any(), int64(404)).Return(false, nil)

		answer, err := svc.AddAnswer(context.Background(), 404, 2, "A1")
		assert.ErrorIs(t, err, services.ErrPostNotFound)
		assert.Nil(t, answer)
	})

	t.Run("post vanishes between check and increment", func(t *testing.T) {
		svc, posts, postsW, answers, _ := newBoardService(ctrl)

		posts.EXPECT().Exists(gomock.Any(), int64(1)).Return(true, nil)
		answers.EXPECT().
			Save(gomock.Any(), int64(1), int64(2), "A1").
			Return(&models.AnswerRow{ID: 10, Content: "A1", PostID: 1, AuthorID: 2}, nil)
		postsW.EXPECT().IncrementCommentCount(gomock.Any(), int64(1)).Return(sql.ErrNoRows)

		answer, err := svc.AddAnswer(context.Background(), 1, 2, "A1")
		assert.ErrorIs(t, err, services.ErrPostNotFound)
		assert.Nil(t, answer)
	})

	t.Run("answer insert failure", func(t *testing.T) {
		svc, posts, _, answers, _ := newBoardService(ctrl)

		posts.EXPECT().Exists(gomock.Any(), int64(1)).Return(true, nil)
		answers.EXPECT().
			Save(gomock.Any(), int64(1), int64(2), "A1").
			Return(nil, errors.New("insert failed"))

		answer, err := svc.AddAnswer(context.Background(), 1, 2, "A1")
		assert.Error(t, err)
		assert.Nil(t, answer)
	})
}

func TestBoardService_ListPosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, posts, _, _, _ := newBoardService(ctrl)

	posts.EXPECT().
		List(gomock.Any()).
		Return([]models.Post{{ID: 1}, {ID: 2}}, nil)

	got, err := svc.ListPosts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}
