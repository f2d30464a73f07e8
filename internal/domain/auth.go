package domain

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrDuplicateEmail    = errors.New("user already exists with this email")
	ErrInvalidUsername   = errors.New("username must be 2-20 letters, digits or underscores")
	ErrCodeExpired       = errors.New("verification code has expired")
	ErrCodeMismatch      = errors.New("incorrect verification code")
	ErrNotVerified       = errors.New("account is not verified")
	ErrInvalidPassword   = errors.New("incorrect password")
	ErrUnauthenticated   = errors.New("not authenticated")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{2,20}$`)

// ValidUsername reports whether s can be used as a username (and therefore
// as the last segment of a profile link).
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

type User struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	VerifyCode          string
	VerifyCodeExpiresAt time.Time
	IsVerified          bool
	IsAcceptingMessages bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CodeExpired reports whether the verification code is no longer usable at now.
func (u *User) CodeExpired(now time.Time) bool {
	return now.After(u.VerifyCodeExpiresAt)
}

// Totals is a point-in-time snapshot of the store used by the stats reporter.
type Totals struct {
	VerifiedUsers   int64
	UnverifiedUsers int64
	Messages        int64
}
