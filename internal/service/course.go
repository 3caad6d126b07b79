package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/domain/model"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

// CourseService manages courses and their teacher assignments.
type CourseService struct {
	courses *data.CourseRepo
	users   *data.UserRepo
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses *data.CourseRepo, users *data.UserRepo) *CourseService {
	return &CourseService{courses: courses, users: users}
}

// Create adds a course after checking the assigned teacher actually holds
// the teacher role.
func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	if req == nil {
		return nil, apperrors.Validation("create course request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	teacher, err := s.users.GetByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.ValidationField("teacher_id", "teacher does not exist")
		}
		return nil, fmt.Errorf("look up teacher: %w", err)
	}
	if teacher.Role != domainauth.RoleTeacher {
		return nil, apperrors.ValidationField("teacher_id", "assigned user is not a teacher")
	}

	return s.courses.Create(ctx, req)
}

// Get retrieves a course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// List retrieves courses matching the filters.
func (s *CourseService) List(ctx context.Context, opts data.CoursesListOptions) ([]*model.Course, error) {
	return s.courses.List(ctx, opts)
}

// ListForTeacher retrieves the courses taught by one teacher.
func (s *CourseService) ListForTeacher(ctx context.Context, teacherID string) ([]*model.Course, error) {
	return s.courses.List(ctx, data.CoursesListOptions{TeacherID: teacherID})
}

// Update updates fields of a course, re-checking any new teacher.
func (s *CourseService) Update(ctx context.Context, id string, req model.UpdateCourseRequest) (*model.Course, error) {
	if req.TeacherID != nil {
		teacher, err := s.users.GetByID(ctx, *req.TeacherID)
		if err != nil {
			if errors.Is(err, data.ErrUserNotFound) {
				return nil, apperrors.ValidationField("teacher_id", "teacher does not exist")
			}
			return nil, fmt.Errorf("look up teacher: %w", err)
		}
		if teacher.Role != domainauth.RoleTeacher {
			return nil, apperrors.ValidationField("teacher_id", "assigned user is not a teacher")
		}
	}
	return s.courses.Update(ctx, id, req)
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	return s.courses.Delete(ctx, id)
}

// requireCourseTeacher loads a course and verifies the session user teaches
// it. Shared by the marks and attendance services.
func requireCourseTeacher(
	ctx context.Context,
	courses *data.CourseRepo,
	courseID, teacherID string,
) (*model.Course, error) {
	course, err := courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, apperrors.Forbidden("course is taught by another teacher")
	}
	return course, nil
}
