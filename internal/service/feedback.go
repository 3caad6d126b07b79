package service

import (
	"context"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
)

// FeedbackService collects student feedback for admin review.
type FeedbackService struct {
	repo *data.FeedbackRepo
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(repo *data.FeedbackRepo) *FeedbackService {
	return &FeedbackService{repo: repo}
}

// Submit stores a student's feedback.
func (s *FeedbackService) Submit(ctx context.Context, studentID string, req *model.SubmitFeedbackRequest) (*model.Feedback, error) {
	return s.repo.Create(ctx, studentID, req)
}

// List returns feedback for the admin view, newest first.
func (s *FeedbackService) List(ctx context.Context, limit, offset int) ([]*model.Feedback, error) {
	return s.repo.List(ctx, limit, offset)
}
