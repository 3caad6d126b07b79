package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Regular expressions for parsing PgError.Detail messages.
var (
	// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// reReferencedFrom detects parent deletion: "... is still referenced from table ...".
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// reNotPresent detects missing parent: "... is not present in table ...".
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// MapDBError maps database errors to AppError instances:
// pgx.ErrNoRows → NotFound, unique violations → Conflict, foreign key
// violations → ForeignKey, check/NOT NULL violations → Validation, context
// timeouts/cancellations → Timeout/Canceled. Unrecognized errors pass
// through unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return mapUniqueViolation(pgErr)
	case pgerrcode.ForeignKeyViolation:
		return mapForeignKeyViolation(pgErr)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return mapConstraintViolation(pgErr)
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

// mapUniqueViolation maps unique constraint violations to Conflict errors.
func mapUniqueViolation(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName

	// Fallback: parse Detail for "Key (field)=(value) already exists."
	if field == "" && pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}

	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Field:   field,
		Cause:   pgErr,
	}
}

// mapForeignKeyViolation maps foreign key constraint violations to
// ForeignKey errors, distinguishing in-use parents from missing parents.
func mapForeignKeyViolation(pgErr *pgconn.PgError) error {
	var message string

	if pgErr.Detail != "" {
		if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			message = "Cannot delete because this item is in use by " + tableDomainName(m[1]) + "."
		} else if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			message = "Cannot complete operation because the referenced " + tableDomainName(m[1]) + " does not exist."
		}
	}
	if message == "" && pgErr.TableName != "" {
		message = "Cannot complete operation because this item is in use by " + tableDomainName(pgErr.TableName) + "."
	}
	if message == "" {
		message = "Cannot complete operation because this item is in use."
	}

	return &AppError{Code: ErrCodeForeignKey, Message: message, Cause: pgErr}
}

// mapConstraintViolation maps check and NOT NULL violations to Validation errors.
func mapConstraintViolation(pgErr *pgconn.PgError) error {
	message := "Invalid data. Please check your input."
	if pgErr.Code == pgerrcode.NotNullViolation {
		message = "Required field is missing. Please check your input."
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   pgErr.ColumnName,
		Cause:   pgErr,
	}
}

// tableDomainName maps table names to user-facing domain names.
func tableDomainName(table string) string {
	switch strings.ToLower(strings.TrimSpace(table)) {
	case "users":
		return "a user account"
	case "departments":
		return "a department"
	case "courses":
		return "a course"
	case "enrollments":
		return "an enrollment"
	case "enrollment_windows":
		return "an enrollment window"
	case "marks":
		return "a mark"
	case "attendance":
		return "an attendance record"
	case "menu_items":
		return "a menu item"
	case "bills":
		return "a bill"
	default:
		return "a " + strings.ReplaceAll(strings.ToLower(table), "_", " ")
	}
}
