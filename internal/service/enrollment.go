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

// ErrWindowClosed is returned when a student enrolls outside an open window.
var ErrWindowClosed = errors.New("no open enrollment window for this semester")

// EnrollmentService manages enrollment windows and the request/review flow.
type EnrollmentService struct {
	enrollments *data.EnrollmentRepo
	courses     *data.CourseRepo
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(enrollments *data.EnrollmentRepo, courses *data.CourseRepo) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments, courses: courses}
}

// OpenWindow opens an enrollment window for a semester.
func (s *EnrollmentService) OpenWindow(ctx context.Context, req *model.OpenWindowRequest) (*model.EnrollmentWindow, error) {
	return s.enrollments.OpenWindow(ctx, req)
}

// ListWindows returns all enrollment windows, newest first.
func (s *EnrollmentService) ListWindows(ctx context.Context) ([]*model.EnrollmentWindow, error) {
	return s.enrollments.ListWindows(ctx)
}

// CloseWindow closes a window before its deadline.
func (s *EnrollmentService) CloseWindow(ctx context.Context, id string) error {
	return s.enrollments.CloseWindow(ctx, id)
}

// Enroll records a student's request to take a course. The request only
// goes through while a window for the student's semester is open, and only
// for courses pinned to that semester.
func (s *EnrollmentService) Enroll(
	ctx context.Context,
	student *domainauth.Session,
	req *model.EnrollRequest,
) (*model.Enrollment, error) {
	if student == nil || !student.Role.IsStudent() {
		return nil, apperrors.Forbidden("only students may enroll")
	}
	if req == nil {
		return nil, apperrors.Validation("enroll request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Semester != student.Semester {
		return nil, apperrors.ValidationField("course_id", "course is not offered in your semester")
	}

	if _, err := s.enrollments.GetOpenWindow(ctx, student.Semester); err != nil {
		if errors.Is(err, data.ErrWindowNotFound) {
			return nil, ErrWindowClosed
		}
		return nil, fmt.Errorf("check enrollment window: %w", err)
	}

	return s.enrollments.CreateRequest(ctx, student.UserID, req.CourseID)
}

// ListMine returns the calling student's enrollments.
func (s *EnrollmentService) ListMine(ctx context.Context, studentID string) ([]*model.Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

// ListPending returns the admin review queue in arrival order.
func (s *EnrollmentService) ListPending(ctx context.Context) ([]*model.Enrollment, error) {
	return s.enrollments.ListByStatus(ctx, model.EnrollmentPending)
}

// Approve moves a pending enrollment to approved.
func (s *EnrollmentService) Approve(ctx context.Context, id string) (*model.Enrollment, error) {
	return s.enrollments.SetStatus(ctx, id, model.EnrollmentApproved)
}

// Reject moves a pending enrollment to rejected.
func (s *EnrollmentService) Reject(ctx context.Context, id string) (*model.Enrollment, error) {
	return s.enrollments.SetStatus(ctx, id, model.EnrollmentRejected)
}

// BulkApprove approves several pending enrollments at once, returning the
// number actually updated.
func (s *EnrollmentService) BulkApprove(ctx context.Context, req *model.BulkReviewEnrollmentRequest) (int64, error) {
	if req == nil {
		return 0, apperrors.Validation("bulk review request is required")
	}
	if err := req.Validate(); err != nil {
		return 0, apperrors.Validation(err.Error())
	}
	return s.enrollments.BulkSetStatus(ctx, req.EnrollmentIDs, model.EnrollmentApproved)
}
