//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Department is an academic department.
type Department struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateDepartmentRequest represents parameters to create a Department.
type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

// Validate validates CreateDepartmentRequest.
func (r *CreateDepartmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.Name) > maxNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	return nil
}

// UpdateDepartmentRequest represents parameters to update a Department.
type UpdateDepartmentRequest struct {
	Name *string `json:"name,omitempty"`
}

// Validate validates UpdateDepartmentRequest.
func (r *UpdateDepartmentRequest) Validate() error {
	if r.Name == nil {
		return errors.New("no fields to update")
	}
	trimmed := strings.TrimSpace(*r.Name)
	if trimmed == "" {
		return errors.New("name cannot be empty")
	}
	r.Name = &trimmed
	return nil
}
