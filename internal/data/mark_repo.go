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

// ErrMarkNotFound is returned when a mark is not found.
var ErrMarkNotFound = errors.New("mark not found")

const markColumns = "id, student_id, course_id, type, marks, created_at, updated_at"

// MarkRepo provides database operations for marks.
type MarkRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMarkRepo creates a new MarkRepo with real time provider.
func NewMarkRepo(db *sql.DB) *MarkRepo {
	return &MarkRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Record upserts a mark for (student, course, type). Re-recording
// overwrites the previous score.
func (r *MarkRepo) Record(ctx context.Context, req *model.RecordMarkRequest) (*model.Mark, error) {
	if req == nil {
		return nil, errors.New("record mark request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Mark
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO marks (student_id, course_id, type, marks, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (student_id, course_id, type)
			DO UPDATE SET marks = EXCLUDED.marks, updated_at = EXCLUDED.updated_at
			RETURNING `+markColumns,
			req.StudentID, req.CourseID, string(req.Type), req.Marks, now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Mark])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByStudent returns a student's marks across all courses.
func (r *MarkRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Mark, error) {
	return r.list(ctx,
		"SELECT "+markColumns+" FROM marks WHERE student_id = $1 ORDER BY course_id, type",
		studentID,
	)
}

// ListByCourse returns all marks recorded for a course.
func (r *MarkRepo) ListByCourse(ctx context.Context, courseID string) ([]*model.Mark, error) {
	return r.list(ctx,
		"SELECT "+markColumns+" FROM marks WHERE course_id = $1 ORDER BY student_id, type",
		courseID,
	)
}

func (r *MarkRepo) list(ctx context.Context, q string, args ...any) ([]*model.Mark, error) {
	var rowsOut []model.Mark
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Mark])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
	}
	res := make([]*model.Mark, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
