package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/neduet/campus-api/internal/data/pgxutil"
	"github.com/neduet/campus-api/internal/domain/model"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

const attendanceColumns = "id, student_id, course_id, date, status, created_at"

// AttendanceRepo provides database operations for attendance records.
type AttendanceRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAttendanceRepo creates a new AttendanceRepo with real time provider.
func NewAttendanceRepo(db *sql.DB) *AttendanceRepo {
	return &AttendanceRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Record upserts attendance for (student, course, date). Re-recording
// overwrites the previous status.
func (r *AttendanceRepo) Record(
	ctx context.Context,
	req *model.RecordAttendanceRequest,
) (*model.Attendance, error) {
	if req == nil {
		return nil, errors.New("record attendance request is required")
	}
	day, err := req.Validate()
	if err != nil {
		return nil, err
	}

	var out model.Attendance
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO attendance (student_id, course_id, date, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (student_id, course_id, date)
			DO UPDATE SET status = EXCLUDED.status
			RETURNING `+attendanceColumns,
			req.StudentID, req.CourseID, day, string(req.Status),
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Attendance])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByStudentCourse returns a student's attendance records for one course,
// oldest date first.
func (r *AttendanceRepo) ListByStudentCourse(
	ctx context.Context,
	studentID, courseID string,
) ([]*model.Attendance, error) {
	var rowsOut []model.Attendance
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			"SELECT "+attendanceColumns+" FROM attendance WHERE student_id = $1 AND course_id = $2 ORDER BY date",
			studentID, courseID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Attendance])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	res := make([]*model.Attendance, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// ListByCourseDate returns every student's record for one course on one date.
func (r *AttendanceRepo) ListByCourseDate(
	ctx context.Context,
	courseID string,
	date time.Time,
) ([]*model.Attendance, error) {
	var rowsOut []model.Attendance
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			"SELECT "+attendanceColumns+" FROM attendance WHERE course_id = $1 AND date = $2 ORDER BY student_id",
			courseID, date,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Attendance])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	res := make([]*model.Attendance, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// SummaryByStudent aggregates present/absent counts per course for a student.
func (r *AttendanceRepo) SummaryByStudent(
	ctx context.Context,
	studentID string,
) ([]*model.AttendanceSummary, error) {
	var rowsOut []model.AttendanceSummary
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT course_id,
			       COUNT(*) FILTER (WHERE status = 'present')::int AS present,
			       COUNT(*) FILTER (WHERE status = 'absent')::int  AS absent
			FROM attendance
			WHERE student_id = $1
			GROUP BY course_id
			ORDER BY course_id`,
			studentID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.AttendanceSummary])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	res := make([]*model.AttendanceSummary, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
