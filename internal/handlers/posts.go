package handlers

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"

	"github.com/sbilibin2017/gw-microblog/internal/logger"
	"github.com/sbilibin2017/gw-microblog/internal/models"
)

//go:generate mockgen -source=posts.go -destination=mock_posts_test.go -package=handlers

// Explorer lists all posts.
type Explorer interface {
	Explore(ctx context.Context, page int) (*models.Page, error)
}

// FeedLister lists a user's home feed.
type FeedLister interface {
	Feed(ctx context.Context, userID int64, page int) (*models.Page, error)
}

// PostCreator publishes posts.
type PostCreator interface {
	Create(ctx context.Context, author *models.User, body string) (*models.Post, error)
}

// PostExporter streams every post by an author.
type PostExporter interface {
	AllByAuthor(ctx context.Context, userID int64) iter.Seq2[models.Post, error]
}

// CreatePostRequest represents the JSON body for a new post
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// Post text, 1 to 140 characters
	// required: true
	// default: Hello world!
	Body string `json:"body"`
}

// NewExploreHandler returns an HTTP handler listing all posts.
// @Summary Explore
// @Description Returns a page of all posts, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.Page "Posts"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /explore [get]
func NewExploreHandler(svc Explorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.Explore(r.Context(), pageFromRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// NewIndexHandler returns an HTTP handler for the authenticated user's feed.
// @Summary Home feed
// @Description Returns a page of the user's own posts and posts by followed users, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.Page "Posts"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /index [get]
// @Security BearerAuth
func NewIndexHandler(users UserGetter, svc FeedLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r, users)
		if !ok {
			return
		}

		page, err := svc.Feed(r.Context(), user.ID, pageFromRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// NewCreatePostHandler returns an HTTP handler publishing a post.
// @Summary Create post
// @Description Publishes a post by the authenticated user
// @Tags posts
// @Accept json
// @Produce json
// @Param createPostRequest body handlers.CreatePostRequest true "Post"
// @Success 201 {object} models.Post "Created post"
// @Failure 400 {object} handlers.ErrorResponse "Invalid body"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /posts [post]
// @Security BearerAuth
func NewCreatePostHandler(users UserGetter, svc PostCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r, users)
		if !ok {
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}

		post, err := svc.Create(r.Context(), user, req.Body)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

// NewExportPostsHandler returns an HTTP handler streaming all of the
// authenticated user's posts as newline-delimited JSON, newest first.
// @Summary Export posts
// @Description Streams every post by the authenticated user, one JSON object per line
// @Tags posts
// @Produce x-ndjson
// @Success 200 {object} models.Post "One post per line"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /export_posts [get]
// @Security BearerAuth
func NewExportPostsHandler(users UserGetter, svc PostExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, ok := currentUser(w, r, users)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)

		enc := json.NewEncoder(w)
		flusher, _ := w.(http.Flusher)

		count := 0
		for post, err := range svc.AllByAuthor(ctx, user.ID) {
			if err != nil {
				// Headers are already sent; the client sees a truncated stream.
				logger.FromContext(ctx).Errorw("failed to export posts", "user_id", user.ID, "exported", count, "err", err)
				return
			}
			post.Author = user.Username
			if err := enc.Encode(post); err != nil {
				logger.FromContext(ctx).Warnw("client went away during export", "user_id", user.ID, "err", err)
				return
			}
			count++
			if flusher != nil && count%100 == 0 {
				flusher.Flush()
			}
		}
	}
}
