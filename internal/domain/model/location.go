//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// PointLocation is the last reported position of a location-point user.
// Positions live in Redis with a freshness TTL; a point that stops
// reporting simply ages out of the live set.
type PointLocation struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetLocationRequest represents a position report from a point user.
type SetLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate validates SetLocationRequest.
func (r *SetLocationRequest) Validate() error {
	if r.Latitude < -90 || r.Latitude > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// Feedback is a free-form student submission.
type Feedback struct {
	ID        string    `json:"id"         db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Message   string    `json:"message"    db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SubmitFeedbackRequest represents parameters to submit feedback.
type SubmitFeedbackRequest struct {
	Message string `json:"message"`
}

// Validate validates SubmitFeedbackRequest.
func (r *SubmitFeedbackRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return errors.New("message is required")
	}
	if len(r.Message) > 2000 {
		return errors.New("message cannot exceed 2000 characters")
	}
	return nil
}
