package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sbilibin2017/gw-microblog/internal/logger"
	"github.com/sbilibin2017/gw-microblog/internal/middlewares"
	"github.com/sbilibin2017/gw-microblog/internal/models"
)

//go:generate mockgen -source=response.go -destination=mock_response_test.go -package=handlers

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Please use a different username.
	Error string `json:"error"`

	// Form field the error refers to, empty for non-field errors
	// default: username
	Field string `json:"field,omitempty"`
}

// MessageResponse represents a plain success message
// swagger:model MessageResponse
type MessageResponse struct {
	// Success message
	Message string `json:"message"`
}

// UserGetter loads the authenticated user.
type UserGetter interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError answers field errors with 400 and everything else with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *models.FieldError
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fe.Message, Field: fe.Field})
		return
	}

	logger.FromContext(r.Context()).Errorw("internal server error", "err", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// currentUser loads the user the request is authenticated as. It writes the
// error response itself and reports false when the handler should stop.
func currentUser(w http.ResponseWriter, r *http.Request, users UserGetter) (*models.User, bool) {
	ctx := r.Context()

	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	user, err := users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			logger.FromContext(ctx).Infow("token refers to unknown user", "user_id", userID)
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return nil, false
		}
		writeServiceError(w, r, err)
		return nil, false
	}
	return user, true
}

// pageFromRequest reads the 1-based ?page= parameter, defaulting to 1.
func pageFromRequest(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
