package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Field length limits shared by the schema and the validators.
const (
	UsernameMaxLen = 64
	EmailMaxLen    = 120
	AboutMeMaxLen  = 140
)

// User represents a user record in the database
type User struct {
	ID           int64      `json:"id" db:"id"`                       // Primary key
	Username     string     `json:"username" db:"username"`           // Unique username
	Email        string     `json:"email" db:"email"`                 // Unique email
	PasswordHash *string    `json:"-" db:"password_hash"`             // Credential digest, nil until set
	AboutMe      *string    `json:"about_me,omitempty" db:"about_me"` // Free-text biography
	LastSeen     *time.Time `json:"last_seen,omitempty" db:"last_seen"`
}

// AvatarURL returns the Gravatar identicon URL for the user's email.
func (u *User) AvatarURL(size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", hex.EncodeToString(sum[:]), size)
}
