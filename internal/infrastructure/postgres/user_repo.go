package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, username, email, password_hash, verify_code, verify_code_expires_at,
		       is_verified, is_accepting_messages, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (
			username, email, password_hash, verify_code, verify_code_expires_at,
			is_verified, is_accepting_messages
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.VerifyCode,
		u.VerifyCodeExpiresAt,
		u.IsVerified,
		u.IsAcceptingMessages,
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// Usernames cannot contain '@', so an identifier can match at most one row.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR username = $1 LIMIT 1`,
		identifier)
}

func (r *UserRepository) ExistsVerifiedUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND is_verified)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ReplaceUnverified(ctx context.Context, u *domain.User) (*domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `
		UPDATE users
		SET    username               = $2,
		       password_hash          = $3,
		       verify_code            = $4,
		       verify_code_expires_at = $5,
		       is_accepting_messages  = TRUE,
		       updated_at             = NOW()
		WHERE  id = $1 AND NOT is_verified
		RETURNING `+userColumns,
		u.ID, u.Username, u.PasswordHash, u.VerifyCode, u.VerifyCodeExpiresAt,
	)

	var updated *domain.User
	updated, err = scanUser(row)
	if err != nil {
		// Zero rows means the account was verified after the caller read it.
		if errors.Is(err, domain.ErrUserNotFound) {
			err = domain.ErrDuplicateEmail
			return nil, err
		}
		err = mapUniqueViolation(err)
		return nil, err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM messages WHERE user_id = $1`, u.ID); err != nil {
		return nil, fmt.Errorf("clear messages: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetAcceptingMessages(ctx context.Context, id string) (bool, error) {
	var accepting bool
	err := r.db.QueryRow(ctx,
		`SELECT is_accepting_messages FROM users WHERE id = $1`, id,
	).Scan(&accepting)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrUserNotFound
		}
		return false, fmt.Errorf("get accepting messages: %w", err)
	}
	return accepting, nil
}

func (r *UserRepository) SetAcceptingMessages(ctx context.Context, id string, accepting bool) (bool, error) {
	var current bool
	err := r.db.QueryRow(ctx, `
		UPDATE users SET is_accepting_messages = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING is_accepting_messages`,
		id, accepting,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrUserNotFound
		}
		return false, fmt.Errorf("set accepting messages: %w", err)
	}
	return current, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, query, arg))
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.VerifyCode, &u.VerifyCodeExpiresAt,
		&u.IsVerified, &u.IsAcceptingMessages, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "users_email_key" {
			return domain.ErrDuplicateEmail
		}
		return domain.ErrDuplicateUsername
	}
	return err
}
