//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// MarkType distinguishes midterm and final marks.
type MarkType string

const (
	MarkMidterm MarkType = "midterm"
	MarkFinal   MarkType = "final"
)

// Valid reports whether the mark type is supported.
func (t MarkType) Valid() bool {
	return t == MarkMidterm || t == MarkFinal
}

// Mark is a recorded score for a student in a course.
type Mark struct {
	ID        string    `json:"id"         db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	CourseID  string    `json:"course_id"  db:"course_id"`
	Type      MarkType  `json:"type"       db:"type"`
	Marks     int       `json:"marks"      db:"marks"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RecordMarkRequest represents a teacher recording a mark. Recording the
// same (student, course, type) again overwrites the previous score.
type RecordMarkRequest struct {
	StudentID string   `json:"student_id"`
	CourseID  string   `json:"course_id"`
	Type      MarkType `json:"type"`
	Marks     int      `json:"marks"`
}

// Validate validates RecordMarkRequest.
func (r *RecordMarkRequest) Validate() error {
	if strings.TrimSpace(r.StudentID) == "" {
		return errors.New("student_id is required")
	}
	if strings.TrimSpace(r.CourseID) == "" {
		return errors.New("course_id is required")
	}
	if !r.Type.Valid() {
		return errors.New("type must be midterm or final")
	}
	if r.Marks < 0 || r.Marks > 100 {
		return errors.New("marks must be between 0 and 100")
	}
	return nil
}
