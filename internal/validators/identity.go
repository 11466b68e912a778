// Package validators decides whether user input may be written to the
// identity and authorship stores.
//
// The uniqueness checks here are a best-effort pre-check. They are not
// atomic with the write that follows, so the store's UNIQUE constraints
// remain the only enforcement under concurrent writers.
package validators

import (
	"context"

	"github.com/sbilibin2017/gw-microblog/internal/models"
)

//go:generate mockgen -source=identity.go -destination=mock_identity_test.go -package=validators

// User-facing messages for identity collisions.
const (
	MsgDuplicateUsername = "Please use a different username."
	MsgDuplicateEmail    = "Please use a different email address."
)

// UsernameFinder looks up a user by username. A nil user with a nil error means absent.
type UsernameFinder interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// IdentityFinder looks up users by either unique identifier.
type IdentityFinder interface {
	UsernameFinder
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ValidateUsernameChange decides whether a user currently holding original
// may switch to proposed. An unchanged value is accepted without a lookup.
// Any existing holder of proposed causes a duplicate-identity rejection.
func ValidateUsernameChange(ctx context.Context, finder UsernameFinder, proposed, original string) error {
	if proposed == original {
		return nil
	}

	user, err := finder.GetByUsername(ctx, proposed)
	if err != nil {
		return err
	}
	if user != nil {
		return models.NewDuplicateError("username", MsgDuplicateUsername)
	}
	return nil
}

// ValidateNewIdentity checks that neither username nor email is taken.
// There is no original value at registration, so nothing is exempt.
func ValidateNewIdentity(ctx context.Context, finder IdentityFinder, username, email string) error {
	user, err := finder.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user != nil {
		return models.NewDuplicateError("username", MsgDuplicateUsername)
	}

	user, err = finder.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user != nil {
		return models.NewDuplicateError("email", MsgDuplicateEmail)
	}
	return nil
}
