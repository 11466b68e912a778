// Package digest derives and verifies salted one-way credential digests.
//
// New digests use argon2id and are encoded in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// Digests produced by bcrypt are still accepted by Verify.
package digest

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMalformedDigest is returned when a stored digest does not parse.
	ErrMalformedDigest = errors.New("malformed digest")
	// ErrEmptyPassword is returned when asked to hash an empty plaintext.
	ErrEmptyPassword = errors.New("empty password")
)

// Argon2 holds the argon2id cost parameters used for new digests.
// Verify always uses the parameters embedded in the digest.
type Argon2 struct {
	Memory      uint32 // Memory cost in KiB
	Iterations  uint32 // Number of passes
	Parallelism uint8  // Number of lanes
	SaltLength  uint32 // Length of random salt in bytes
	KeyLength   uint32 // Length of derived key in bytes
}

// Option configures an Argon2 hasher.
type Option func(*Argon2)

// WithMemory sets the memory cost in KiB.
func WithMemory(kib uint32) Option {
	return func(a *Argon2) { a.Memory = kib }
}

// WithIterations sets the number of passes.
func WithIterations(n uint32) Option {
	return func(a *Argon2) { a.Iterations = n }
}

// WithParallelism sets the number of lanes.
func WithParallelism(p uint8) Option {
	return func(a *Argon2) { a.Parallelism = p }
}

// New creates an argon2id hasher with OWASP recommended defaults.
func New(opts ...Option) *Argon2 {
	a := &Argon2{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Hash derives a digest from plaintext using a fresh random salt.
func (a *Argon2) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, a.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, a.Iterations, a.Memory, a.Parallelism, a.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.Memory,
		a.Iterations,
		a.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext produced digest.
func (a *Argon2) Verify(plaintext, digest string) (bool, error) {
	if isBcrypt(digest) {
		err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
		}
	}

	params, salt, key, err := decode(digest)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(plaintext), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

func isBcrypt(digest string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(digest, prefix) {
			return true
		}
	}
	return false
}

// Upper bounds on the cost parameters accepted from a stored digest.
// Larger values would exhaust memory or stall the request.
const (
	maxMemory      = 1 << 22 // KiB, 4 GiB
	maxIterations  = 64
	maxParallelism = 64
	maxKeyLength   = 1024
)

func decode(digest string) (*Argon2, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, nil, nil, fmt.Errorf("%w: expected 6 fields", ErrMalformedDigest)
	}
	if parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedDigest, parts[1])
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return nil, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrMalformedDigest, parts[2])
	}

	params := &Argon2{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: invalid parameters: %v", ErrMalformedDigest, err)
	}
	if parts[3] != fmt.Sprintf("m=%d,t=%d,p=%d", params.Memory, params.Iterations, params.Parallelism) {
		return nil, nil, nil, fmt.Errorf("%w: invalid parameters %q", ErrMalformedDigest, parts[3])
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return nil, nil, nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedDigest)
	}
	if params.Memory > maxMemory || params.Iterations > maxIterations || params.Parallelism > maxParallelism {
		return nil, nil, nil, fmt.Errorf("%w: cost parameters out of range %q", ErrMalformedDigest, parts[3])
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: invalid salt encoding", ErrMalformedDigest)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxKeyLength {
		return nil, nil, nil, fmt.Errorf("%w: invalid key encoding", ErrMalformedDigest)
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}
