//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
)

const maxNameLen = 255

// User is a portal account. PasswordHash never leaves the data layer in
// API responses (json:"-").
type User struct {
	ID           string          `json:"id"                   db:"id"`
	Email        string          `json:"email"                db:"email"`
	Name         string          `json:"name"                 db:"name"`
	Role         domainauth.Role `json:"role"                 db:"role"`
	PasswordHash string          `json:"-"                    db:"password_hash"`
	Department   *string         `json:"department,omitempty" db:"department"`
	Semester     *int            `json:"semester,omitempty"   db:"semester"`
	CreatedAt    time.Time       `json:"created_at"           db:"created_at"`
}

// CreateUserRequest represents parameters to create a User.
type CreateUserRequest struct {
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Role       domainauth.Role `json:"role"`
	Password   string          `json:"password"`
	Department *string         `json:"department,omitempty"`
	Semester   *int            `json:"semester,omitempty"`
}

// Validate validates CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.Name) > maxNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if _, err := domainauth.ParseRole(string(r.Role)); err != nil {
		return err
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.Role.IsStudent() && (r.Semester == nil || *r.Semester < 1) {
		return errors.New("semester is required for student accounts")
	}
	return nil
}
