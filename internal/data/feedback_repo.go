package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neduet/campus-api/internal/data/pgxutil"
	"github.com/neduet/campus-api/internal/domain/model"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

const feedbackColumns = "id, student_id, message, created_at"

// FeedbackRepo provides database operations for student feedback.
type FeedbackRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewFeedbackRepo creates a new FeedbackRepo with real time provider.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create stores a feedback submission.
func (r *FeedbackRepo) Create(
	ctx context.Context,
	studentID string,
	req *model.SubmitFeedbackRequest,
) (*model.Feedback, error) {
	if req == nil {
		return nil, errors.New("submit feedback request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Feedback
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO feedback (student_id, message, created_at)
			VALUES ($1, $2, $3)
			RETURNING `+feedbackColumns,
			studentID, req.Message, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Feedback])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List returns all feedback, newest first. Admin-only view.
func (r *FeedbackRepo) List(ctx context.Context, limit, offset int) ([]*model.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	var rowsOut []model.Feedback
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			"SELECT "+feedbackColumns+" FROM feedback ORDER BY created_at DESC LIMIT $1 OFFSET $2",
			limit, offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Feedback])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	res := make([]*model.Feedback, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
