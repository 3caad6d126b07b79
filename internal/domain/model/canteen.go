//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// MenuItem is one entry on the canteen menu.
type MenuItem struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	PriceCts  int       `json:"price_cts"  db:"price_cts"`
	Available bool      `json:"available"  db:"available"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateMenuItemRequest represents parameters to add a menu item.
type CreateMenuItemRequest struct {
	Name      string `json:"name"`
	PriceCts  int    `json:"price_cts"`
	Available *bool  `json:"available,omitempty"`
}

// Validate validates CreateMenuItemRequest.
func (r *CreateMenuItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.PriceCts <= 0 {
		return errors.New("price_cts must be > 0")
	}
	return nil
}

// Bill is a canteen charge against a user account.
type Bill struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Items     string    `json:"items"      db:"items"`
	TotalCts  int       `json:"total_cts"  db:"total_cts"`
	Paid      bool      `json:"paid"       db:"paid"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateBillRequest represents parameters to record a bill.
type CreateBillRequest struct {
	UserID   string `json:"user_id"`
	Items    string `json:"items"`
	TotalCts int    `json:"total_cts"`
}

// Validate validates CreateBillRequest.
func (r *CreateBillRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	r.Items = strings.TrimSpace(r.Items)
	if r.Items == "" {
		return errors.New("items is required")
	}
	if r.TotalCts <= 0 {
		return errors.New("total_cts must be > 0")
	}
	return nil
}
