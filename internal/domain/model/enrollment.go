//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// EnrollmentStatus tracks an enrollment request through admin review.
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

// Valid reports whether the enrollment status is supported.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentPending, EnrollmentApproved, EnrollmentRejected:
		return true
	default:
		return false
	}
}

// EnrollmentWindow is an admin-opened period during which students may
// request enrollment. A window is open iff ClosedAt is nil and ClosesAt is
// in the future; the scheduler service closes windows past their deadline.
type EnrollmentWindow struct {
	ID        string     `json:"id"                  db:"id"`
	Semester  int        `json:"semester"            db:"semester"`
	OpensAt   time.Time  `json:"opens_at"            db:"opens_at"`
	ClosesAt  time.Time  `json:"closes_at"           db:"closes_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty" db:"closed_at"`
	CreatedAt time.Time  `json:"created_at"          db:"created_at"`
}

// Open reports whether the window currently accepts enrollment requests.
func (w EnrollmentWindow) Open(now time.Time) bool {
	return w.ClosedAt == nil && now.After(w.OpensAt) && now.Before(w.ClosesAt)
}

// OpenWindowRequest represents parameters to open an enrollment window.
type OpenWindowRequest struct {
	Semester int       `json:"semester"`
	ClosesAt time.Time `json:"closes_at"`
}

// Validate validates OpenWindowRequest.
func (r *OpenWindowRequest) Validate() error {
	if r.Semester < 1 || r.Semester > maxSemester {
		return errors.New("semester must be between 1 and 8")
	}
	if r.ClosesAt.IsZero() || !r.ClosesAt.After(time.Now()) {
		return errors.New("closes_at must be in the future")
	}
	return nil
}

// Enrollment is a student's request to take a course.
type Enrollment struct {
	ID        string           `json:"id"         db:"id"`
	StudentID string           `json:"student_id" db:"student_id"`
	CourseID  string           `json:"course_id"  db:"course_id"`
	Status    EnrollmentStatus `json:"status"     db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// EnrollRequest represents a student's course enrollment request.
type EnrollRequest struct {
	CourseID string `json:"course_id"`
}

// Validate validates EnrollRequest.
func (r *EnrollRequest) Validate() error {
	if strings.TrimSpace(r.CourseID) == "" {
		return errors.New("course_id is required")
	}
	return nil
}

// ReviewEnrollmentRequest represents an admin approve/reject decision.
type ReviewEnrollmentRequest struct {
	EnrollmentID string `json:"enrollment_id"`
}

// Validate validates ReviewEnrollmentRequest.
func (r *ReviewEnrollmentRequest) Validate() error {
	if strings.TrimSpace(r.EnrollmentID) == "" {
		return errors.New("enrollment_id is required")
	}
	return nil
}

// BulkReviewEnrollmentRequest represents a bulk approve decision.
type BulkReviewEnrollmentRequest struct {
	EnrollmentIDs []string `json:"enrollment_ids"`
}

// Validate validates BulkReviewEnrollmentRequest.
func (r *BulkReviewEnrollmentRequest) Validate() error {
	if len(r.EnrollmentIDs) == 0 {
		return errors.New("enrollment_ids is required")
	}
	for _, id := range r.EnrollmentIDs {
		if strings.TrimSpace(id) == "" {
			return errors.New("enrollment_ids cannot contain empty values")
		}
	}
	return nil
}
