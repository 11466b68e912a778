package validators

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sbilibin2017/gw-microblog/internal/models"
)

const msgRequired = "This field is required."

func lengthError(field string, min, max int) error {
	return models.NewValidationError(field, fmt.Sprintf("Field must be between %d and %d characters long.", min, max))
}

// ValidateUsername checks that a username is present and within bounds.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return models.NewValidationError("username", msgRequired)
	}
	if utf8.RuneCountInString(username) > models.UsernameMaxLen {
		return lengthError("username", 1, models.UsernameMaxLen)
	}
	return nil
}

// ValidateEmail checks that an email is present, within bounds and a bare address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return models.NewValidationError("email", msgRequired)
	}
	if utf8.RuneCountInString(email) > models.EmailMaxLen {
		return lengthError("email", 1, models.EmailMaxLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return models.NewValidationError("email", "Invalid email address.")
	}
	return nil
}

// ValidatePassword checks that a password is present.
func ValidatePassword(password string) error {
	if password == "" {
		return models.NewValidationError("password", msgRequired)
	}
	return nil
}

// ValidateAboutMe checks the biography length.
func ValidateAboutMe(aboutMe string) error {
	if utf8.RuneCountInString(aboutMe) > models.AboutMeMaxLen {
		return lengthError("about_me", 0, models.AboutMeMaxLen)
	}
	return nil
}

// ValidatePostBody checks that a post body is non-blank and within bounds.
func ValidatePostBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return models.NewValidationError("body", msgRequired)
	}
	if utf8.RuneCountInString(body) > models.PostBodyMaxLen {
		return lengthError("body", 1, models.PostBodyMaxLen)
	}
	return nil
}
