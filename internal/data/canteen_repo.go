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
	// ErrMenuItemNotFound is returned when a menu item is not found.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrMenuItemExists is returned on a duplicate menu item name.
	ErrMenuItemExists = errors.New("menu item already exists")
	// ErrBillNotFound is returned when a bill is not found.
	ErrBillNotFound = errors.New("bill not found")
)

const (
	menuItemColumns = "id, name, price_cts, available, created_at"
	billColumns     = "id, user_id, items, total_cts, paid, created_at"
)

// CanteenRepo provides database operations for the canteen menu and bills.
type CanteenRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCanteenRepo creates a new CanteenRepo with real time provider.
func NewCanteenRepo(db *sql.DB) *CanteenRepo {
	return &CanteenRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// CreateMenuItem adds an item to the menu.
func (r *CanteenRepo) CreateMenuItem(
	ctx context.Context,
	req *model.CreateMenuItemRequest,
) (*model.MenuItem, error) {
	if req == nil {
		return nil, errors.New("create menu item request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	var out model.MenuItem
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO menu_items (name, price_cts, available, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+menuItemColumns,
			req.Name, req.PriceCts, available, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MenuItem])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrMenuItemExists
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListMenu returns menu items. When availableOnly is true, hidden items are
// filtered out (the student/teacher view); the canteen view lists everything.
func (r *CanteenRepo) ListMenu(ctx context.Context, availableOnly bool) ([]*model.MenuItem, error) {
	query := "SELECT " + menuItemColumns + " FROM menu_items"
	if availableOnly {
		query += " WHERE available"
	}
	query += " ORDER BY name"

	var rowsOut []model.MenuItem
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.MenuItem])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	res := make([]*model.MenuItem, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// SetMenuItemAvailability toggles whether an item appears on the menu.
func (r *CanteenRepo) SetMenuItemAvailability(ctx context.Context, id string, available bool) error {
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			"UPDATE menu_items SET available = $1 WHERE id = $2", available, id)
		if err != nil {
			return apperrors.MapDBError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrMenuItemNotFound
		}
		return nil
	})
}

// DeleteMenuItem removes a menu item.
func (r *CanteenRepo) DeleteMenuItem(ctx context.Context, id string) error {
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, "DELETE FROM menu_items WHERE id = $1", id)
		if err != nil {
			return apperrors.MapDBError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrMenuItemNotFound
		}
		return nil
	})
}

// CreateBill records a charge against a user account.
func (r *CanteenRepo) CreateBill(ctx context.Context, req *model.CreateBillRequest) (*model.Bill, error) {
	if req == nil {
		return nil, errors.New("create bill request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Bill
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO bills (user_id, items, total_cts, paid, created_at)
			VALUES ($1, $2, $3, FALSE, $4)
			RETURNING `+billColumns,
			req.UserID, req.Items, req.TotalCts, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Bill])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// MarkBillPaid settles a bill.
func (r *CanteenRepo) MarkBillPaid(ctx context.Context, id string) error {
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, "UPDATE bills SET paid = TRUE WHERE id = $1", id)
		if err != nil {
			return apperrors.MapDBError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrBillNotFound
		}
		return nil
	})
}

// ListBillsByUser returns a user's bills, newest first.
func (r *CanteenRepo) ListBillsByUser(ctx context.Context, userID string) ([]*model.Bill, error) {
	return r.listBills(ctx,
		"SELECT "+billColumns+" FROM bills WHERE user_id = $1 ORDER BY created_at DESC",
		userID,
	)
}

// ListUnpaidBills returns all unpaid bills, oldest first.
func (r *CanteenRepo) ListUnpaidBills(ctx context.Context) ([]*model.Bill, error) {
	return r.listBills(ctx,
		"SELECT "+billColumns+" FROM bills WHERE NOT paid ORDER BY created_at")
}

func (r *CanteenRepo) listBills(ctx context.Context, q string, args ...any) ([]*model.Bill, error) {
	var rowsOut []model.Bill
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Bill])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	res := make([]*model.Bill, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
