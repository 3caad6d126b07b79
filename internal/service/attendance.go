package service

import (
	"context"
	"time"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
)

// AttendanceService manages attendance records with the same ownership
// rules as marks.
type AttendanceService struct {
	attendance *data.AttendanceRepo
	courses    *data.CourseRepo
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(attendance *data.AttendanceRepo, courses *data.CourseRepo) *AttendanceService {
	return &AttendanceService{attendance: attendance, courses: courses}
}

// Record upserts one student's attendance after verifying the teacher
// teaches the course.
func (s *AttendanceService) Record(
	ctx context.Context,
	teacherID string,
	req *model.RecordAttendanceRequest,
) (*model.Attendance, error) {
	if req != nil {
		if _, err := requireCourseTeacher(ctx, s.courses, req.CourseID, teacherID); err != nil {
			return nil, err
		}
	}
	return s.attendance.Record(ctx, req)
}

// ListForStudent returns a student's records for one course.
func (s *AttendanceService) ListForStudent(ctx context.Context, studentID, courseID string) ([]*model.Attendance, error) {
	return s.attendance.ListByStudentCourse(ctx, studentID, courseID)
}

// ListForCourseDate returns the whole class roster's records for one date.
func (s *AttendanceService) ListForCourseDate(
	ctx context.Context,
	teacherID, courseID string,
	date time.Time,
) ([]*model.Attendance, error) {
	if _, err := requireCourseTeacher(ctx, s.courses, courseID, teacherID); err != nil {
		return nil, err
	}
	return s.attendance.ListByCourseDate(ctx, courseID, date)
}

// Summary aggregates a student's attendance per course.
func (s *AttendanceService) Summary(ctx context.Context, studentID string) ([]*model.AttendanceSummary, error) {
	return s.attendance.SummaryByStudent(ctx, studentID)
}
