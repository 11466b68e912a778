package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-microblog/internal/models"
)

//go:generate mockgen -source=profile.go -destination=mock_profile_test.go -package=handlers

// ProfileEditor changes a user's username and biography.
type ProfileEditor interface {
	EditProfile(ctx context.Context, current *models.User, username, aboutMe string) (*models.User, error)
}

// EditProfileRequest represents the edit-profile form
// swagger:model EditProfileRequest
type EditProfileRequest struct {
	// Username
	// required: true
	// default: susan
	Username string `json:"username"`

	// Biography, at most 140 characters
	// default: I like cats.
	AboutMe string `json:"about_me"`
}

// EditProfileResponse represents a saved profile edit
// swagger:model EditProfileResponse
type EditProfileResponse struct {
	// Success message
	// default: Your changes have been saved.
	Message string `json:"message"`

	User UserResponse `json:"user"`
}

// NewGetEditProfileHandler returns an HTTP handler that prefills the edit-profile form.
// @Summary Edit profile form
// @Description Returns the authenticated user's current username and biography
// @Tags users
// @Produce json
// @Success 200 {object} handlers.EditProfileRequest "Current values"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /edit_profile [get]
// @Security BearerAuth
func NewGetEditProfileHandler(users UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r, users)
		if !ok {
			return
		}

		form := EditProfileRequest{Username: user.Username}
		if user.AboutMe != nil {
			form.AboutMe = *user.AboutMe
		}
		writeJSON(w, http.StatusOK, form)
	}
}

// NewEditProfileHandler returns an HTTP handler that saves the edit-profile form.
// The user record is loaded once when the request starts and its username is
// the value the proposed username is compared against.
// @Summary Edit profile
// @Description Changes the authenticated user's username and biography. Keeping the current username is always allowed.
// @Tags users
// @Accept json
// @Produce json
// @Param editProfileRequest body handlers.EditProfileRequest true "Profile"
// @Success 200 {object} handlers.EditProfileResponse "Changes saved"
// @Failure 400 {object} handlers.ErrorResponse "Invalid field or username taken"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /edit_profile [put]
// @Security BearerAuth
func NewEditProfileHandler(users UserGetter, svc ProfileEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r, users)
		if !ok {
			return
		}

		var req EditProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}

		updated, err := svc.EditProfile(r.Context(), user, req.Username, req.AboutMe)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, EditProfileResponse{
			Message: "Your changes have been saved.",
			User:    newUserResponse(updated),
		})
	}
}
