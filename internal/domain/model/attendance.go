//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// AttendanceStatus marks a student present or absent for one class date.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid reports whether the attendance status is supported.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// Attendance is one student's record for one course on one date.
type Attendance struct {
	ID        string           `json:"id"         db:"id"`
	StudentID string           `json:"student_id" db:"student_id"`
	CourseID  string           `json:"course_id"  db:"course_id"`
	Date      time.Time        `json:"date"       db:"date"`
	Status    AttendanceStatus `json:"status"     db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// RecordAttendanceRequest represents a teacher recording attendance for one
// student on one date. Re-recording the same (student, course, date)
// overwrites the previous status.
type RecordAttendanceRequest struct {
	StudentID string           `json:"student_id"`
	CourseID  string           `json:"course_id"`
	Date      string           `json:"date"` // YYYY-MM-DD
	Status    AttendanceStatus `json:"status"`
}

// Validate validates RecordAttendanceRequest and parses the date.
func (r *RecordAttendanceRequest) Validate() (time.Time, error) {
	if strings.TrimSpace(r.StudentID) == "" {
		return time.Time{}, errors.New("student_id is required")
	}
	if strings.TrimSpace(r.CourseID) == "" {
		return time.Time{}, errors.New("course_id is required")
	}
	if !r.Status.Valid() {
		return time.Time{}, errors.New("status must be present or absent")
	}
	day, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be in YYYY-MM-DD format")
	}
	return day, nil
}

// AttendanceSummary aggregates a student's attendance for one course.
type AttendanceSummary struct {
	CourseID string `json:"course_id" db:"course_id"`
	Present  int    `json:"present"   db:"present"`
	Absent   int    `json:"absent"    db:"absent"`
}
