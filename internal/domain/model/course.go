//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

const maxSemester = 8

// Course is a taught course within a department, pinned to a semester and
// a teacher.
type Course struct {
	ID           string    `json:"id"            db:"id"`
	Name         string    `json:"name"          db:"name"`
	DepartmentID string    `json:"department_id" db:"department_id"`
	Semester     int       `json:"semester"      db:"semester"`
	TeacherID    string    `json:"teacher_id"    db:"teacher_id"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// CreateCourseRequest represents parameters to create a Course.
type CreateCourseRequest struct {
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
	Semester     int    `json:"semester"`
	TeacherID    string `json:"teacher_id"`
}

// Validate validates CreateCourseRequest.
func (r *CreateCourseRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.DepartmentID) == "" {
		return errors.New("department_id is required")
	}
	if r.Semester < 1 || r.Semester > maxSemester {
		return errors.New("semester must be between 1 and 8")
	}
	if strings.TrimSpace(r.TeacherID) == "" {
		return errors.New("teacher_id is required")
	}
	return nil
}

// UpdateCourseRequest represents parameters to update a Course.
type UpdateCourseRequest struct {
	Name      *string `json:"name,omitempty"`
	Semester  *int    `json:"semester,omitempty"`
	TeacherID *string `json:"teacher_id,omitempty"`
}

// Validate validates UpdateCourseRequest.
func (r *UpdateCourseRequest) Validate() error {
	if r.Name == nil && r.Semester == nil && r.TeacherID == nil {
		return errors.New("no fields to update")
	}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return errors.New("name cannot be empty")
		}
		r.Name = &trimmed
	}
	if r.Semester != nil && (*r.Semester < 1 || *r.Semester > maxSemester) {
		return errors.New("semester must be between 1 and 8")
	}
	return nil
}
