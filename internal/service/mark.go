package service

import (
	"context"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
)

// MarkService manages recorded marks. Teachers only touch their own
// courses; students only read their own marks.
type MarkService struct {
	marks   *data.MarkRepo
	courses *data.CourseRepo
}

// NewMarkService constructs a MarkService.
func NewMarkService(marks *data.MarkRepo, courses *data.CourseRepo) *MarkService {
	return &MarkService{marks: marks, courses: courses}
}

// Record upserts a mark after verifying the teacher teaches the course.
func (s *MarkService) Record(ctx context.Context, teacherID string, req *model.RecordMarkRequest) (*model.Mark, error) {
	if req != nil {
		if _, err := requireCourseTeacher(ctx, s.courses, req.CourseID, teacherID); err != nil {
			return nil, err
		}
	}
	return s.marks.Record(ctx, req)
}

// ListForStudent returns one student's marks.
func (s *MarkService) ListForStudent(ctx context.Context, studentID string) ([]*model.Mark, error) {
	return s.marks.ListByStudent(ctx, studentID)
}

// ListForCourse returns all marks in a course the teacher teaches.
func (s *MarkService) ListForCourse(ctx context.Context, teacherID, courseID string) ([]*model.Mark, error) {
	if _, err := requireCourseTeacher(ctx, s.courses, courseID, teacherID); err != nil {
		return nil, err
	}
	return s.marks.ListByCourse(ctx, courseID)
}
