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

//go:generate mockgen -source=auth.go -destination=mock_auth_test.go -package=services

// Error variables
var (
	ErrUserDoesNotExist   = errors.New("username does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserReader defines read-only operations for users.
// A nil user with a nil error means the user does not exist.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, username string, aboutMe *string) error
	TouchLastSeen(ctx context.Context, id int64, at time.Time) error
}

// DigestHasher derives and verifies credential digests.
type DigestHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// TokenGenerator defines an interface for generating session tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	reader UserReader
	writer UserWriter
	hasher DigestHasher
	tokens TokenGenerator
	events EventPublisher
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, hasher DigestHasher, tokens TokenGenerator, events EventPublisher) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		hasher: hasher,
		tokens: tokens,
		events: events,
	}
}

// Register creates a new account. Input problems and taken identifiers are
// returned as *models.FieldError. A collision detected only by the store
// at commit time is returned as a plain wrapped error.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	log := logger.FromContext(ctx)

	for _, err := range []error{
		validators.ValidateUsername(username),
		validators.ValidateEmail(email),
		validators.ValidatePassword(password),
	} {
		if err != nil {
			return nil, err
		}
	}

	if err := validators.ValidateNewIdentity(ctx, svc.reader, username, email); err != nil {
		if errors.Is(err, models.ErrDuplicateIdentity) {
			log.Infow("registration rejected", "username", username, "email", email, "err", err)
		} else {
			log.Errorw("failed to check user exists", "err", err)
		}
		return nil, err
	}

	digest, err := svc.hasher.Hash(password)
	if err != nil {
		log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Create(ctx, username, email, digest)
	if err != nil {
		log.Errorw("failed to save user", "username", username, "err", err)
		return nil, fmt.Errorf("register user: %w", err)
	}

	svc.events.Publish(ctx, newEvent(models.EventUserRegistered, user, nil))

	return user, nil
}

// Login authenticates a user and returns a session token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	log := logger.FromContext(ctx)

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		log.Infow("user does not exist", "username", username)
		return "", ErrUserDoesNotExist
	}
	if user.PasswordHash == nil {
		log.Infow("user has no credential set", "username", username)
		return "", ErrInvalidCredentials
	}

	ok, err := svc.hasher.Verify(password, *user.PasswordHash)
	if err != nil {
		log.Errorw("failed to verify stored credential digest", "user_id", user.ID, "err", err)
		return "", err
	}
	if !ok {
		log.Infow("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.tokens.Generate(ctx, user.ID)
	if err != nil {
		log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}
