package models

import "time"

// User is an account that owns entries and holds sessions.
type User struct {
	ID           UserID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
