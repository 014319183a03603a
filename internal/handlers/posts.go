package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"qna-board/internal/logger"
	"qna-board/internal/models"
	"qna-board/internal/services"
)

// PostLister defines the listing operation the posts index handler needs.
type PostLister interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// PostGetter defines the detail read the single-post handler needs.
type PostGetter interface {
	GetPost(ctx context.Context, id int64) (*models.Post, error)
}

// PostCreator defines the creation operation the post creation handler needs.
type PostCreator interface {
	CreatePost(ctx context.Context, authorID int64, title, content string) (*models.Post, error)
}

// CreatePostRequest represents the JSON body for creating a post
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// Title
	// required: true
	// example: How do I do X?
	Title string `json:"title"`

	// Content
	// required: true
	// example: Long question body
	Content string `json:"content"`
}

// PostErrorResponse represents an error response for post routes
// swagger:model PostErrorResponse
type PostErrorResponse struct {
	// Error message
	// example: Post not found
	Error string `json:"error"`
}

// NewListPostsHandler returns an HTTP handler listing all posts.
// @Summary List posts
// @Description Returns all posts with their authors eagerly attached.
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Failure 500 {object} handlers.PostErrorResponse "Internal server error"
// @Router /posts [get]
func NewListPostsHandler(svc PostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := svc.ListPosts(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to list posts", "err", err)
			writeJSON(w, http.StatusInternalServerError, PostErrorResponse{Error: "Internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

// NewGetPostHandler returns an HTTP handler for a single post with its author
// and answers.
// @Summary Get one post
// @Description Returns a post with author and answers ordered ascending by creation time.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} handlers.PostErrorResponse "Post not found"
// @Failure 500 {object} handlers.PostErrorResponse "Internal server error"
// @Router /posts/{id} [get]
func NewGetPostHandler(svc PostGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, PostErrorResponse{Error: "Post not found"})
			return
		}

		post, err := svc.GetPost(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrPostNotFound) {
				writeJSON(w, http.StatusNotFound, PostErrorResponse{Error: "Post not found"})
				return
			}
			logger.Log.Errorw("failed to get post", "id", id, "err", err)
			writeJSON(w, http.StatusInternalServerError, PostErrorResponse{Error: "Internal server error"})
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

// NewCreatePostHandler returns an HTTP handler creating a post owned by the
// authenticated caller.
// @Summary Create a post
// @Description Creates a question owned by the token's user.
// @Tags posts
// @Accept json
// @Produce json
// @Param request body handlers.CreatePostRequest true "Post to create"
// @Success 201 {object} models.Post
// @Failure 400 {object} handlers.PostErrorResponse "Missing title or content"
// @Failure 401 {object} handlers.PostErrorResponse "Unauthorized"
// @Router /posts [post]
// @Security BearerAuth
func NewCreatePostHandler(svc PostCreator, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := callerID(r, tokener)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, PostErrorResponse{Error: "Unauthorized"})
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, PostErrorResponse{Error: "Invalid request body"})
			return
		}

		post, err := svc.CreatePost(r.Context(), authorID, req.Title, req.Content)
		if err != nil {
			if errors.Is(err, services.ErrMissingPost) {
				writeJSON(w, http.StatusBadRequest, PostErrorResponse{Error: err.Error()})
				return
			}
			logger.Log.Errorw("failed to create post", "err", err)
			writeJSON(w, http.StatusInternalServerError, PostErrorResponse{Error: "Internal server error"})
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}
