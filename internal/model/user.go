package model

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User is a marketplace account. The same user can be a seller on their own
// listings and a buyer on everyone else's.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return InvalidArgument(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// ValidateEmail checks that email is a well-formed address and, if domain is
// non-empty, that it belongs to that domain.
func ValidateEmail(email, domain string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return InvalidArgument("invalid email address")
	}
	if domain == "" {
		return nil
	}
	if !strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(domain)) {
		return InvalidArgument(fmt.Sprintf("only @%s email addresses are allowed", domain))
	}
	return nil
}
