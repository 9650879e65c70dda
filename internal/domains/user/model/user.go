package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"biblioteca-api/pkg/jwt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("this email is already registered")
	// ErrInvalidLogin never says whether the email or the password was wrong
	ErrInvalidLogin            = errors.New("Invalid login")
	ErrCurrentPasswordRequired = errors.New("Current password is required to change the password")
	ErrIncorrectPassword       = errors.New("Incorrect password")
)

// User is an account. Claims are the rows of user_claims keyed by type.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	BirthDate    *time.Time
	Claims       map[string]string
}

func (u *User) IsAdmin() bool {
	return u.Claims[jwt.ClaimIsAdmin] == "true"
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
