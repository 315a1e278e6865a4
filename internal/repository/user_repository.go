package repository

//go:generate mockgen -destination=mocks/user_repository_mock.go -package=mocks mangiato/internal/repository UserRepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"mangiato/internal/entities"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// Postgres unique_violation
const uniqueViolation = "23505"

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash, firstName, lastName string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	Confirm(ctx context.Context, id int64, at time.Time) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, password_hash, first_name, last_name, confirmed, confirmed_on, created_at, updated_at`

func scanUser(row *sql.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Confirmed,
		&user.ConfirmedOn,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new, unconfirmed user. A taken username yields ErrUserExists.
func (r *userRepository) Create(ctx context.Context, username, passwordHash, firstName, lastName string) (*entities.User, error) {
	query := `
		INSERT INTO users (username, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username, passwordHash, firstName, lastName))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// FindByUsername finds a user by username (email)
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Confirm marks the account as confirmed
func (r *userRepository) Confirm(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET confirmed = TRUE, confirmed_on = $2, updated_at = NOW()
		WHERE id = $1
	`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
