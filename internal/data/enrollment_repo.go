package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/neduet/campus-api/internal/data/pgxutil"
	"github.com/neduet/campus-api/internal/domain/model"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

var (
	// ErrWindowNotFound is returned when no enrollment window matches.
	ErrWindowNotFound = errors.New("enrollment window not found")
	// ErrWindowExists is returned when an open window already exists for the semester.
	ErrWindowExists = errors.New("an open enrollment window already exists for this semester")
	// ErrEnrollmentNotFound is returned when an enrollment is not found.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrAlreadyEnrolled is returned when a student re-requests a course.
	ErrAlreadyEnrolled = errors.New("enrollment already requested for this course")
)

const (
	windowColumns     = "id, semester, opens_at, closes_at, closed_at, created_at"
	enrollmentColumns = "id, student_id, course_id, status, created_at, updated_at"
)

// EnrollmentRepo provides database operations for enrollment windows and
// student enrollment requests.
type EnrollmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEnrollmentRepo creates a new EnrollmentRepo with real time provider.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo {
	return &EnrollmentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewEnrollmentRepoWithTimeProvider creates a new EnrollmentRepo with a custom time provider.
func NewEnrollmentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EnrollmentRepo {
	return &EnrollmentRepo{DB: db, timeProvider: tp}
}

// OpenWindow opens an enrollment window for a semester. At most one window
// per semester may be open at a time; a partial unique index enforces this.
func (r *EnrollmentRepo) OpenWindow(
	ctx context.Context,
	req *model.OpenWindowRequest,
) (*model.EnrollmentWindow, error) {
	if req == nil {
		return nil, errors.New("open window request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.EnrollmentWindow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO enrollment_windows (semester, opens_at, closes_at, created_at)
			VALUES ($1, $2, $3, $2)
			RETURNING `+windowColumns,
			req.Semester, now, req.ClosesAt.UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EnrollmentWindow])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrWindowExists
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetOpenWindow returns the currently open window for a semester.
func (r *EnrollmentRepo) GetOpenWindow(
	ctx context.Context,
	semester int,
) (*model.EnrollmentWindow, error) {
	now := r.timeProvider.Now().UTC()
	var out model.EnrollmentWindow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+windowColumns+` FROM enrollment_windows
			WHERE semester = $1 AND closed_at IS NULL AND opens_at <= $2 AND closes_at > $2`,
			semester, now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EnrollmentWindow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWindowNotFound
		}
		return nil, fmt.Errorf("failed to get open window: %w", err)
	}
	return &out, nil
}

// ListWindows returns all windows, newest first.
func (r *EnrollmentRepo) ListWindows(ctx context.Context) ([]*model.EnrollmentWindow, error) {
	var rowsOut []model.EnrollmentWindow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			"SELECT "+windowColumns+" FROM enrollment_windows ORDER BY created_at DESC")
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.EnrollmentWindow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}
	res := make([]*model.EnrollmentWindow, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CloseWindow closes a window explicitly, before its deadline.
func (r *EnrollmentRepo) CloseWindow(ctx context.Context, id string) error {
	now := r.timeProvider.Now().UTC()
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			"UPDATE enrollment_windows SET closed_at = $1 WHERE id = $2 AND closed_at IS NULL",
			now, id,
		)
		if err != nil {
			return apperrors.MapDBError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrWindowNotFound
		}
		return nil
	})
}

// CloseExpiredWindows stamps closed_at on every window whose deadline has
// passed. Returns the number of windows closed. Run by the scheduler.
func (r *EnrollmentRepo) CloseExpiredWindows(ctx context.Context) (int64, error) {
	now := r.timeProvider.Now().UTC()
	var closed int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			"UPDATE enrollment_windows SET closed_at = $1 WHERE closed_at IS NULL AND closes_at <= $1",
			now,
		)
		if err != nil {
			return err
		}
		closed = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to close expired windows: %w", err)
	}
	return closed, nil
}

// CreateRequest records a student's pending enrollment request.
func (r *EnrollmentRepo) CreateRequest(
	ctx context.Context,
	studentID, courseID string,
) (*model.Enrollment, error) {
	now := r.timeProvider.Now().UTC()
	var out model.Enrollment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO enrollments (student_id, course_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			RETURNING `+enrollmentColumns,
			studentID, courseID, string(model.EnrollmentPending), now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Enrollment])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrAlreadyEnrolled
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByStudent returns a student's enrollments, newest first.
func (r *EnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Enrollment, error) {
	return r.list(ctx,
		"SELECT "+enrollmentColumns+" FROM enrollments WHERE student_id = $1 ORDER BY created_at DESC",
		studentID,
	)
}

// ListByStatus returns enrollments in the given review state, oldest first
// so admins work through the queue in arrival order.
func (r *EnrollmentRepo) ListByStatus(
	ctx context.Context,
	status model.EnrollmentStatus,
) ([]*model.Enrollment, error) {
	return r.list(ctx,
		"SELECT "+enrollmentColumns+" FROM enrollments WHERE status = $1 ORDER BY created_at",
		string(status),
	)
}

// SetStatus moves a pending enrollment to approved or rejected.
func (r *EnrollmentRepo) SetStatus(
	ctx context.Context,
	id string,
	status model.EnrollmentStatus,
) (*model.Enrollment, error) {
	if !status.Valid() {
		return nil, errors.New("invalid enrollment status")
	}

	now := r.timeProvider.Now().UTC()
	var out model.Enrollment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE enrollments SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
			RETURNING `+enrollmentColumns,
			string(status), now, id, string(model.EnrollmentPending),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Enrollment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// BulkSetStatus reviews several pending enrollments in one transaction.
// Returns the number updated; IDs that were not pending are skipped.
func (r *EnrollmentRepo) BulkSetStatus(
	ctx context.Context,
	ids []string,
	status model.EnrollmentStatus,
) (int64, error) {
	if !status.Valid() {
		return 0, errors.New("invalid enrollment status")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	now := r.timeProvider.Now().UTC()
	var updated int64
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx, `
				UPDATE enrollments SET status = $1, updated_at = $2
				WHERE id = ANY($3) AND status = $4`,
				string(status), now, ids, string(model.EnrollmentPending),
			)
			if err != nil {
				return err
			}
			updated = tag.RowsAffected()
			return nil
		},
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return updated, nil
}

func (r *EnrollmentRepo) list(ctx context.Context, q string, args ...any) ([]*model.Enrollment, error) {
	var rowsOut []model.Enrollment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Enrollment])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	res := make([]*model.Enrollment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
