package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-microblog/internal/middlewares"
	"github.com/sbilibin2017/gw-microblog/internal/models"
	"github.com/sbilibin2017/gw-microblog/internal/services"
)

//go:generate mockgen -source=user.go -destination=mock_user_test.go -package=handlers

// AvatarSize is the pixel size of avatars on profile pages.
const AvatarSize = 128

// ProfileGetter loads a profile as seen by a viewer (0 for anonymous).
type ProfileGetter interface {
	GetProfile(ctx context.Context, username string, viewerID int64) (*services.Profile, error)
}

// AuthorPostLister lists one page of an author's posts.
type AuthorPostLister interface {
	ListByAuthor(ctx context.Context, userID int64, page int) (*models.Page, error)
}

// UserResponse represents the public view of a user
// swagger:model UserResponse
type UserResponse struct {
	// User ID
	// default: 1
	ID int64 `json:"id"`

	// Username
	// default: susan
	Username string `json:"username"`

	// Biography
	AboutMe *string `json:"about_me,omitempty"`

	// Last time the user was active
	LastSeen *time.Time `json:"last_seen,omitempty"`

	// Gravatar URL
	Avatar string `json:"avatar"`
}

// ProfileResponse represents a user's profile page
// swagger:model ProfileResponse
type ProfileResponse struct {
	User UserResponse `json:"user"`

	// Number of followers
	Followers int `json:"followers"`

	// Number of followed users
	Following int `json:"following"`

	// Whether the authenticated viewer follows this user
	IsFollowing bool `json:"is_following"`

	// One page of the user's posts, newest first
	Posts *models.Page `json:"posts"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		AboutMe:  u.AboutMe,
		LastSeen: u.LastSeen,
		Avatar:   u.AvatarURL(AvatarSize),
	}
}

// NewUserHandler returns an HTTP handler for a user's profile page.
// @Summary User profile
// @Description Returns a user with avatar, follower counts and a page of their posts, newest first
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} handlers.ProfileResponse "Profile page"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users/{username} [get]
func NewUserHandler(profiles ProfileGetter, posts AuthorPostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		viewerID, _ := middlewares.UserIDFromContext(ctx)

		profile, err := profiles.GetProfile(ctx, chi.URLParam(r, "username"), viewerID)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "User not found"})
				return
			}
			writeServiceError(w, r, err)
			return
		}

		page, err := posts.ListByAuthor(ctx, profile.User.ID, pageFromRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, ProfileResponse{
			User:        newUserResponse(profile.User),
			Followers:   profile.Followers,
			Following:   profile.Following,
			IsFollowing: profile.IsFollowing,
			Posts:       page,
		})
	}
}
