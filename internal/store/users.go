package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"boxd/internal/models"
)

// CreateUser inserts a new user with a pre-hashed password.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, now time.Time) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	userID, err := GenerateUserID(s.UserExists)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, email, passwordHash, dbFormatTime(now))
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           models.UserID(userID),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC(),
	}, nil
}

// GetUserByEmail returns a user by normalized email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`, email)
	return scanUser(row)
}

// GetUserByID returns a user by id, or nil when absent.
func (s *Store) GetUserByID(ctx context.Context, id models.UserID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`, string(id))
	return scanUser(row)
}

// UserExists checks whether a user exists by raw id.
func (s *Store) UserExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanUser(scanner interface {
	Scan(dest ...any) error
}) (*models.User, error) {
	var user models.User
	var id, createdAt string
	err := scanner.Scan(&id, &user.Email, &user.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.ID = models.UserID(id)
	if user.CreatedAt, err = dbParseTime(createdAt); err != nil {
		return nil, err
	}
	return &user, nil
}
