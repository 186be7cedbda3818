package domain

import (
	"errors"
	"time"
)

// User represents a system user
type User struct {
	ID           string
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Currency     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Authentication errors
var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidToken           = errors.New("invalid token")
	ErrExpiredToken           = errors.New("token has expired")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordMismatch       = errors.New("password confirmation does not match")
	ErrInvalidResetToken      = errors.New("password reset token is invalid or expired")
)
