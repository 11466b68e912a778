package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sbilibin2017/gw-microblog/internal/logger"
	"github.com/sbilibin2017/gw-microblog/internal/models"
	"github.com/sbilibin2017/gw-microblog/internal/validators"
)

//go:generate mockgen -source=profile.go -destination=mock_profile_test.go -package=services

// ErrCannotFollowSelf is returned when a user tries to follow or unfollow themselves.
var ErrCannotFollowSelf = errors.New("cannot follow yourself")

// FollowStore stores the follower relation.
type FollowStore interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
}

// LastSeenThrottle decides whether a last-seen write may happen now.
// Release gives the window back after a failed write.
type LastSeenThrottle interface {
	Acquire(ctx context.Context, userID int64) (bool, error)
	Release(ctx context.Context, userID int64) error
}

// Profile is a user together with follower statistics.
type Profile struct {
	User      *models.User
	Followers int
	Following int
	// IsFollowing is set when the profile is viewed by an authenticated user.
	IsFollowing bool
}

// ProfileService handles profile reads, profile edits, follows and last-seen tracking.
type ProfileService struct {
	reader   UserReader
	writer   UserWriter
	follows  FollowStore
	throttle LastSeenThrottle
	events   EventPublisher
}

// NewProfileService creates a new ProfileService. throttle may be nil.
func NewProfileService(reader UserReader, writer UserWriter, follows FollowStore, throttle LastSeenThrottle, events EventPublisher) *ProfileService {
	return &ProfileService{
		reader:   reader,
		writer:   writer,
		follows:  follows,
		throttle: throttle,
		events:   events,
	}
}

// GetUser returns the user with the given id.
func (s *ProfileService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get user", "user_id", id, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

// GetProfile returns the profile of username as seen by viewerID (0 for anonymous).
func (s *ProfileService) GetProfile(ctx context.Context, username string, viewerID int64) (*Profile, error) {
	log := logger.FromContext(ctx)

	user, err := s.reader.GetByUsername(ctx, username)
	if err != nil {
		log.Errorw("failed to get user", "username", username, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	profile := &Profile{User: user}
	if profile.Followers, err = s.follows.CountFollowers(ctx, user.ID); err != nil {
		log.Errorw("failed to count followers", "user_id", user.ID, "error", err)
		return nil, err
	}
	if profile.Following, err = s.follows.CountFollowing(ctx, user.ID); err != nil {
		log.Errorw("failed to count following", "user_id", user.ID, "error", err)
		return nil, err
	}
	if viewerID != 0 && viewerID != user.ID {
		if profile.IsFollowing, err = s.follows.IsFollowing(ctx, viewerID, user.ID); err != nil {
			log.Errorw("failed to check follow", "user_id", user.ID, "viewer_id", viewerID, "error", err)
			return nil, err
		}
	}
	return profile, nil
}

// EditProfile changes the username and biography of current. current is the
// user record loaded when the request was built; its Username is the
// original value the proposed username is compared against.
//
// Rejections by the pre-check are *models.FieldError. A duplicate that only
// the store detects (a concurrent writer took the name in between) is
// returned wrapped and is not retried.
func (s *ProfileService) EditProfile(ctx context.Context, current *models.User, username, aboutMe string) (*models.User, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validators.ValidateAboutMe(aboutMe); err != nil {
		return nil, err
	}

	if err := validators.ValidateUsernameChange(ctx, s.reader, username, current.Username); err != nil {
		if errors.Is(err, models.ErrDuplicateIdentity) {
			log.Infow("username change rejected", "user_id", current.ID, "proposed", username)
		} else {
			log.Errorw("failed to check username", "user_id", current.ID, "error", err)
		}
		return nil, err
	}

	var about *string
	if aboutMe != "" {
		about = &aboutMe
	}

	if err := s.writer.UpdateProfile(ctx, current.ID, username, about); err != nil {
		log.Errorw("failed to update profile", "user_id", current.ID, "proposed", username, "error", err)
		return nil, fmt.Errorf("update profile: %w", err)
	}

	updated := *current
	updated.Username = username
	updated.AboutMe = about

	s.events.Publish(ctx, newEvent(models.EventProfileUpdated, &updated, map[string]any{
		"previous_username": current.Username,
	}))

	return &updated, nil
}

// TouchLastSeen records that userID was just active. With a throttle
// configured only the first call per window reaches the store. Throttle
// failures fall back to writing.
func (s *ProfileService) TouchLastSeen(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	acquired := false
	if s.throttle != nil {
		ok, err := s.throttle.Acquire(ctx, userID)
		if err != nil {
			log.Warnw("last seen throttle unavailable", "user_id", userID, "error", err)
		} else if !ok {
			return nil
		}
		acquired = ok
	}

	if err := s.writer.TouchLastSeen(ctx, userID, time.Now().UTC()); err != nil {
		log.Errorw("failed to update last seen", "user_id", userID, "error", err)
		if acquired {
			if relErr := s.throttle.Release(ctx, userID); relErr != nil {
				log.Warnw("failed to release last seen throttle", "user_id", userID, "error", relErr)
			}
		}
		return err
	}
	return nil
}

// Follow makes follower follow username.
func (s *ProfileService) Follow(ctx context.Context, follower *models.User, username string) error {
	target, err := s.followTarget(ctx, follower, username)
	if err != nil {
		return err
	}

	if err := s.follows.Follow(ctx, follower.ID, target.ID); err != nil {
		logger.FromContext(ctx).Errorw("failed to follow", "follower_id", follower.ID, "followed_id", target.ID, "error", err)
		return err
	}

	s.events.Publish(ctx, newEvent(models.EventUserFollowed, follower, map[string]any{
		"followed_id":       target.ID,
		"followed_username": target.Username,
	}))
	return nil
}

// Unfollow makes follower stop following username.
func (s *ProfileService) Unfollow(ctx context.Context, follower *models.User, username string) error {
	target, err := s.followTarget(ctx, follower, username)
	if err != nil {
		return err
	}

	if err := s.follows.Unfollow(ctx, follower.ID, target.ID); err != nil {
		logger.FromContext(ctx).Errorw("failed to unfollow", "follower_id", follower.ID, "followed_id", target.ID, "error", err)
		return err
	}
	return nil
}

func (s *ProfileService) followTarget(ctx context.Context, follower *models.User, username string) (*models.User, error) {
	target, err := s.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get user", "username", username, "error", err)
		return nil, err
	}
	if target == nil {
		return nil, models.ErrUserNotFound
	}
	if target.ID == follower.ID {
		return nil, ErrCannotFollowSelf
	}
	return target, nil
}
