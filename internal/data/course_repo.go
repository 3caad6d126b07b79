package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/neduet/campus-api/internal/data/pgxutil"
	"github.com/neduet/campus-api/internal/domain/model"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

// ErrCourseNotFound is returned when a course is not found.
var ErrCourseNotFound = errors.New("course not found")

const courseColumns = "id, name, department_id, semester, teacher_id, created_at"

// CourseRepo provides database operations for courses.
type CourseRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCourseRepo creates a new CourseRepo with real time provider.
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new course.
func (r *CourseRepo) Create(
	ctx context.Context,
	req *model.CreateCourseRequest,
) (*model.Course, error) {
	if req == nil {
		return nil, errors.New("create course request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Course
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO courses (name, department_id, semester, teacher_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+courseColumns,
			req.Name,
			req.DepartmentID,
			req.Semester,
			req.TeacherID,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Course])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a course by ID.
func (r *CourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			"SELECT "+courseColumns+" FROM courses WHERE id = $1", id)
		if err != nil {
			return err
		}
		defer rows.Close()
		course, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Course])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course by ID: %w", err)
	}
	return &course, nil
}

// CoursesListOptions filters course listings. Zero values mean no filter.
type CoursesListOptions struct {
	DepartmentID string
	Semester     int
	TeacherID    string
}

// List retrieves courses matching the given filters, ordered by semester then name.
func (r *CourseRepo) List(ctx context.Context, opts CoursesListOptions) ([]*model.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses"
	args := make([]any, 0, 3)
	where := ""
	appendCond := func(cond string, val any) {
		args = append(args, val)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += cond + " = $" + strconv.Itoa(len(args))
	}
	if opts.DepartmentID != "" {
		appendCond("department_id", opts.DepartmentID)
	}
	if opts.Semester > 0 {
		appendCond("semester", opts.Semester)
	}
	if opts.TeacherID != "" {
		appendCond("teacher_id", opts.TeacherID)
	}
	query += where + " ORDER BY semester, name"

	var rowsOut []model.Course
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Course])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	res := make([]*model.Course, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a course.
func (r *CourseRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateCourseRequest,
) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if req.Name != nil {
		args = append(args, *req.Name)
		setParts = append(setParts, "name = $"+strconv.Itoa(len(args)))
	}
	if req.Semester != nil {
		args = append(args, *req.Semester)
		setParts = append(setParts, "semester = $"+strconv.Itoa(len(args)))
	}
	if req.TeacherID != nil {
		args = append(args, *req.TeacherID)
		setParts = append(setParts, "teacher_id = $"+strconv.Itoa(len(args)))
	}

	setClause := setParts[0]
	for _, p := range setParts[1:] {
		setClause += ", " + p
	}
	args = append(args, id)
	query := "UPDATE courses SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + courseColumns

	var out model.Course
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Course])
		return err
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete removes a course.
func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
		if err != nil {
			return apperrors.MapDBError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

func (r *CourseRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrCourseNotFound
	}
	return apperrors.MapDBError(err)
}
