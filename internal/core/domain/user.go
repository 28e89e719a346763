package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrTokenRevoked = errors.New("token revoked")

// User models an account able to sign in to the billing console.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleName     string    `json:"role"`
	RoleID       string    `json:"rolId"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Record converts the user to the shape the login response embeds.
func (u *User) Record() *UserRecord {
	if u == nil {
		return nil
	}
	return &UserRecord{
		ID:     u.ID,
		Name:   u.Name,
		Role:   u.RoleName,
		RoleID: u.RoleID,
	}
}
