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
	// ErrDepartmentNotFound is returned when a department is not found.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrDepartmentNameExists is returned when attempting to create/update a department with a duplicate name.
	ErrDepartmentNameExists = errors.New("department name already exists")
)

// DepartmentRepo provides database operations for departments.
type DepartmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDepartmentRepo creates a new DepartmentRepo with real time provider.
func NewDepartmentRepo(db *sql.DB) *DepartmentRepo {
	return &DepartmentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new department.
func (r *DepartmentRepo) Create(
	ctx context.Context,
	req *model.CreateDepartmentRequest,
) (*model.Department, error) {
	if req == nil {
		return nil, errors.New("create department request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Department
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO departments (name, created_at)
			VALUES ($1, $2)
			RETURNING id, name, created_at`,
			req.Name,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Department])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a department by ID.
func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			"SELECT id, name, created_at FROM departments WHERE id = $1", id)
		if err != nil {
			return err
		}
		defer rows.Close()
		dept, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Department])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department by ID: %w", err)
	}
	return &dept, nil
}

// List retrieves all departments ordered by name.
func (r *DepartmentRepo) List(ctx context.Context) ([]*model.Department, error) {
	var rowsOut []model.Department
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, "SELECT id, name, created_at FROM departments ORDER BY name")
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Department])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	res := make([]*model.Department, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update renames a department.
func (r *DepartmentRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateDepartmentRequest,
) (*model.Department, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Department
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE departments SET name = $1 WHERE id = $2
			RETURNING id, name, created_at`,
			*req.Name, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Department])
		return err
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete removes a department. Fails if courses still reference it.
func (r *DepartmentRepo) Delete(ctx context.Context, id string) error {
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
		if err != nil {
			return apperrors.MapDBError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrDepartmentNotFound
		}
		return nil
	})
}

func (r *DepartmentRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrDepartmentNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDepartmentNameExists
	}
	return apperrors.MapDBError(err)
}
