package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/ErlanBelekov/mystery-threads/internal/email"
	"github.com/ErlanBelekov/mystery-threads/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultCodeTTL = time.Hour
	codeLength     = 6
)

// tokenIssuer is satisfied by *session.Issuer.
type tokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

type AuthUsecase struct {
	users      repository.UserRepository
	email      email.Sender
	tokens     tokenIssuer
	codeTTL    time.Duration
	bcryptCost int
}

func NewAuthUsecase(users repository.UserRepository, emailSender email.Sender, tokens tokenIssuer, codeTTL time.Duration) *AuthUsecase {
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	return &AuthUsecase{
		users:      users,
		email:      emailSender,
		tokens:     tokens,
		codeTTL:    codeTTL,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type RegisterResult struct {
	User *domain.User
	// Created is false when an unverified account with the same email was
	// overwritten instead of inserting a new one.
	Created bool
}

// Register creates an unverified account (or refreshes a stale unverified one
// sharing the email) and emails it a fresh verification code.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	taken, err := u.users.ExistsVerifiedUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateUsername
	}

	existing, err := u.users.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil && existing.IsVerified {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), u.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := generateCode(codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	expiresAt := time.Now().Add(u.codeTTL)

	var user *domain.User
	if existing != nil {
		existing.Username = input.Username
		existing.PasswordHash = string(hash)
		existing.VerifyCode = code
		existing.VerifyCodeExpiresAt = expiresAt
		user, err = u.users.ReplaceUnverified(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("replace unverified user: %w", err)
		}
	} else {
		user, err = u.users.Create(ctx, &domain.User{
			Username:            input.Username,
			Email:               input.Email,
			PasswordHash:        string(hash),
			VerifyCode:          code,
			VerifyCodeExpiresAt: expiresAt,
			IsAcceptingMessages: true,
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	subject, body := email.VerificationEmail(user.Username, code, u.codeTTL)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		return nil, fmt.Errorf("send verification code: %w", err)
	}

	return &RegisterResult{User: user, Created: existing == nil}, nil
}

// Verify checks a signup code. The username may arrive URL-encoded from the
// verify page path.
func (u *AuthUsecase) Verify(ctx context.Context, username, code string) error {
	if decoded, err := url.PathUnescape(username); err == nil {
		username = decoded
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user.IsVerified {
		return nil
	}
	if user.CodeExpired(time.Now()) {
		return domain.ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(user.VerifyCode), []byte(code)) != 1 {
		return domain.ErrCodeMismatch
	}

	if err := u.users.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// Authenticate looks the user up by email or username and, if the account is
// verified and the password matches, returns a signed session token.
func (u *AuthUsecase) Authenticate(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	user, err := u.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsVerified {
		return "", nil, domain.ErrNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidPassword
	}

	token, err := u.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}
	return token, user, nil
}

// UsernameAvailable reports whether no verified account holds username.
func (u *AuthUsecase) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if !domain.ValidUsername(username) {
		return false, domain.ErrInvalidUsername
	}
	taken, err := u.users.ExistsVerifiedUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !taken, nil
}

func (u *AuthUsecase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func generateCode(n int) (string, error) {
	buf := make([]byte, n)
	ten := big.NewInt(10)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = '0' + byte(d.Int64())
	}
	return string(buf), nil
}
