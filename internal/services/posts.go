package services

import (
	"context"
	"iter"
	"math"
	"time"

	"github.com/sbilibin2017/gw-microblog/internal/logger"
	"github.com/sbilibin2017/gw-microblog/internal/models"
	"github.com/sbilibin2017/gw-microblog/internal/validators"
)

//go:generate mockgen -source=posts.go -destination=mock_posts_test.go -package=services

// PostWriter appends posts.
type PostWriter interface {
	Create(ctx context.Context, userID int64, body string, at time.Time) (*models.Post, error)
}

// PostReader reads posts newest first.
type PostReader interface {
	ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error)
	ListFeed(ctx context.Context, userID int64, limit, offset int) ([]models.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Post, error)
	IterateByAuthor(ctx context.Context, userID int64) iter.Seq2[models.Post, error]
}

// PostService handles posting and the paginated post listings.
type PostService struct {
	reader  PostReader
	writer  PostWriter
	events  EventPublisher
	perPage int
	now     func() time.Time
}

// NewPostService creates a new PostService returning perPage posts per page.
func NewPostService(reader PostReader, writer PostWriter, events EventPublisher, perPage int) *PostService {
	if perPage < 1 {
		perPage = 25
	}
	return &PostService{
		reader:  reader,
		writer:  writer,
		events:  events,
		perPage: perPage,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create publishes a new post by author.
func (s *PostService) Create(ctx context.Context, author *models.User, body string) (*models.Post, error) {
	if err := validators.ValidatePostBody(body); err != nil {
		return nil, err
	}

	post, err := s.writer.Create(ctx, author.ID, body, s.now())
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to save post", "user_id", author.ID, "error", err)
		return nil, err
	}
	post.Author = author.Username

	s.events.Publish(ctx, newEvent(models.EventPostCreated, author, map[string]any{
		"post_id": post.ID,
	}))

	return post, nil
}

// ListByAuthor returns one page of the author's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, userID int64, page int) (*models.Page, error) {
	return s.paginate(ctx, page, func(limit, offset int) ([]models.Post, error) {
		return s.reader.ListByAuthor(ctx, userID, limit, offset)
	})
}

// Feed returns one page of the user's home feed: own posts and followed users' posts.
func (s *PostService) Feed(ctx context.Context, userID int64, page int) (*models.Page, error) {
	return s.paginate(ctx, page, func(limit, offset int) ([]models.Post, error) {
		return s.reader.ListFeed(ctx, userID, limit, offset)
	})
}

// Explore returns one page of all posts.
func (s *PostService) Explore(ctx context.Context, page int) (*models.Page, error) {
	return s.paginate(ctx, page, func(limit, offset int) ([]models.Post, error) {
		return s.reader.ListAll(ctx, limit, offset)
	})
}

// AllByAuthor returns every post by the author as a lazy, restartable sequence.
func (s *PostService) AllByAuthor(ctx context.Context, userID int64) iter.Seq2[models.Post, error] {
	return s.reader.IterateByAuthor(ctx, userID)
}

// paginate fetches one extra row to learn whether a next page exists.
func (s *PostService) paginate(ctx context.Context, page int, fetch func(limit, offset int) ([]models.Post, error)) (*models.Page, error) {
	if page < 1 {
		page = 1
	}
	// Keep the offset within int32 so it cannot overflow on any platform.
	if maxPage := math.MaxInt32/s.perPage + 1; page > maxPage {
		page = maxPage
	}

	posts, err := fetch(s.perPage+1, (page-1)*s.perPage)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to list posts", "page", page, "error", err)
		return nil, err
	}

	result := &models.Page{
		Page:    page,
		HasPrev: page > 1,
	}
	if len(posts) > s.perPage {
		result.HasNext = true
		posts = posts[:s.perPage]
	}
	result.Posts = posts
	return result, nil
}
