package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	// APIKey is the per-account generative API key issued by an admin.
	// Empty means the account falls back to the server default key.
	APIKey    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
