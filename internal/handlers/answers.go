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

// AnswerCreator defines the operation the answer creation handler needs.
type AnswerCreator interface {
	AddAnswer(ctx context.Context, postID, authorID int64, content string) (*models.Answer, error)
}

// CreateAnswerRequest represents the JSON body for answering a post
// swagger:model CreateAnswerRequest
type CreateAnswerRequest struct {
	// Content
	// required: true
	// example: Have you tried Y?
	Content string `json:"content"`
}

// AnswerErrorResponse represents an error response for answer routes
// swagger:model AnswerErrorResponse
type AnswerErrorResponse struct {
	// Error message
	// example: Content is required
	Error string `json:"error"`
}

// NewCreateAnswerHandler returns an HTTP handler creating an answer on a post.
// @Summary Answer a post
// @Description Creates an answer owned by the token's user and bumps the post's comment count.
// @Tags answers
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body handlers.CreateAnswerRequest true "Answer to create"
// @Success 201 {object} models.Answer
// @Failure 400 {object} handlers.AnswerErrorResponse "Empty content"
// @Failure 401 {object} handlers.AnswerErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.AnswerErrorResponse "Post not found"
// @Router /posts/{id}/answers [post]
// @Security BearerAuth
func NewCreateAnswerHandler(svc AnswerCreator, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := callerID(r, tokener)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, AnswerErrorResponse{Error: "Unauthorized"})
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, AnswerErrorResponse{Error: "Post not found"})
			return
		}

		var req CreateAnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, AnswerErrorResponse{Error: "Invalid request body"})
			return
		}

		answer, err := svc.AddAnswer(r.Context(), postID, authorID, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyContent):
				writeJSON(w, http.StatusBadRequest, AnswerErrorResponse{Error: "Content is required"})
			case errors.Is(err, services.ErrPostNotFound):
				writeJSON(w, http.StatusNotFound, AnswerErrorResponse{Error: "Post not found"})
			default:
				logger.Log.Errorw("failed to create answer", "post_id", postID, "err", err)
				writeJSON(w, http.StatusInternalServerError, AnswerErrorResponse{Error: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusCreated, answer)
	}
}
