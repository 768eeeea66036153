package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailExists         = errors.New("email already exists")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or expired")
)

// CreateUserWithHousehold registers a new account and its household in a
// single transaction, seeding the household's default settings.
func (db *DB) CreateUserWithHousehold(ctx context.Context, email, passwordHash, householdName string) (*models.User, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var householdID string
	err = tx.QueryRow(ctx, `
		INSERT INTO households (name) VALUES ($1) RETURNING id
	`, householdName).Scan(&householdID)
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (household_id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, household_id, email, password_hash, created_at, last_login_at
	`, householdID, email, passwordHash).Scan(
		&user.ID, &user.HouseholdID, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	defaults := models.DefaultSettings()
	_, err = tx.Exec(ctx, `
		INSERT INTO household_settings (household_id, locations, categories, category_emojis)
		VALUES ($1, $2, $3, $4)
	`, householdID, defaults.Locations, defaults.Categories, defaults.CategoryEmojis)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user for login
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, household_id, email, password_hash, created_at, last_login_at
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email).Scan(
		&user.ID, &user.HouseholdID, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by id
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, household_id, email, password_hash, created_at, last_login_at
		FROM users WHERE id = $1
	`, id).Scan(
		&user.ID, &user.HouseholdID, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserLastLogin stamps a successful login
func (db *DB) UpdateUserLastLogin(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE users SET last_login_at = NOW() WHERE id = $1
	`, id)
	return err
}

// StoreRefreshToken persists a refresh token for later renewal
func (db *DB) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, userID, token, expiresAt)
	return err
}

// ConsumeRefreshToken validates a refresh token and rotates it out. Tokens
// are single-use; renewal issues a replacement.
func (db *DB) ConsumeRefreshToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := db.Pool.QueryRow(ctx, `
		DELETE FROM refresh_tokens
		WHERE token = $1 AND expires_at > NOW()
		RETURNING user_id
	`, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrRefreshTokenInvalid
		}
		return "", err
	}
	return userID, nil
}

// DeleteExpiredRefreshTokens clears out stale tokens
func (db *DB) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM refresh_tokens WHERE expires_at <= NOW()
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetHousehold retrieves a household by id
func (db *DB) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	h := &models.Household{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, created_at FROM households WHERE id = $1
	`, id).Scan(&h.ID, &h.Name, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return h, nil
}
