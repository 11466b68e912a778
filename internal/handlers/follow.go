package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-microblog/internal/models"
	"github.com/sbilibin2017/gw-microblog/internal/services"
)

//go:generate mockgen -source=follow.go -destination=mock_follow_test.go -package=handlers

// FollowToggler follows and unfollows users.
type FollowToggler interface {
	Follow(ctx context.Context, follower *models.User, username string) error
	Unfollow(ctx context.Context, follower *models.User, username string) error
}

// NewFollowHandler returns an HTTP handler making the authenticated user follow {username}.
// @Summary Follow user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.MessageResponse "Now following"
// @Failure 400 {object} handlers.ErrorResponse "Cannot follow yourself"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /follow/{username} [post]
// @Security BearerAuth
func NewFollowHandler(users UserGetter, svc FollowToggler) http.HandlerFunc {
	return newFollowToggleHandler(users, svc.Follow, "You are following %s!", "You cannot follow yourself!")
}

// NewUnfollowHandler returns an HTTP handler making the authenticated user unfollow {username}.
// @Summary Unfollow user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.MessageResponse "No longer following"
// @Failure 400 {object} handlers.ErrorResponse "Cannot unfollow yourself"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /unfollow/{username} [post]
// @Security BearerAuth
func NewUnfollowHandler(users UserGetter, svc FollowToggler) http.HandlerFunc {
	return newFollowToggleHandler(users, svc.Unfollow, "You are not following %s.", "You cannot unfollow yourself!")
}

func newFollowToggleHandler(
	users UserGetter,
	toggle func(ctx context.Context, follower *models.User, username string) error,
	successMsg, selfMsg string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r, users)
		if !ok {
			return
		}

		username := chi.URLParam(r, "username")
		if err := toggle(r.Context(), user, username); err != nil {
			switch {
			case errors.Is(err, models.ErrUserNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("User %s not found.", username)})
			case errors.Is(err, services.ErrCannotFollowSelf):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: selfMsg})
			default:
				writeServiceError(w, r, err)
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf(successMsg, username)})
	}
}
