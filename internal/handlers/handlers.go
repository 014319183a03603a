package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"qna-board/internal/jwt"
)

// Tokener defines the token operations protected handlers need to resolve the
// caller's identity.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// callerID resolves the authenticated user from the bearer token. The auth
// middleware has already validated the token; this extracts the identity.
func callerID(r *http.Request, tokener Tokener) (int64, error) {
	ctx := r.Context()
	tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		return 0, err
	}
	claims, err := tokener.GetClaims(ctx, tokenStr)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
