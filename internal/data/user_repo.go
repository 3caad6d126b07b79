package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/neduet/campus-api/internal/errors"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/data/pgxutil"
	"github.com/neduet/campus-api/internal/domain/model"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserEmailExists is returned when attempting to create a user with a duplicate email.
	ErrUserEmailExists = errors.New("user email already exists")
)

const userColumns = "id, email, name, role, password_hash, department, semester, created_at"

// UserRepo provides database operations for portal accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Create inserts a new user. The password hash is computed by the caller;
// this layer never sees the plaintext password.
func (r *UserRepo) Create(
	ctx context.Context,
	req *model.CreateUserRequest,
	passwordHash string,
) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (email, name, role, password_hash, department, semester, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+userColumns,
			req.Email,
			req.Name,
			string(req.Role),
			passwordHash,
			req.Department,
			req.Semester,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1",
		"failed to get user by email",
		strings.ToLower(strings.TrimSpace(email)),
	)
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		"failed to get user by ID",
		id,
	)
}

// ListByRole retrieves users holding the given role, ordered by name.
func (r *UserRepo) ListByRole(ctx context.Context, role domainauth.Role) ([]*model.User, error) {
	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			"SELECT "+userColumns+" FROM users WHERE role = $1 ORDER BY name",
			string(role),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if passwordHash == "" {
		return errors.New("password hash is required")
	}
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, id)
		if err != nil {
			return apperrors.MapDBError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// Delete removes a user by ID.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
		if err != nil {
			return apperrors.MapDBError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// getByQuery is a helper to execute a query and return a single user.
func (r *UserRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &user, nil
}

func (r *UserRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrUserEmailExists
	}
	return apperrors.MapDBError(err)
}
