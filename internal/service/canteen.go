package service

import (
	"context"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
)

// CanteenService manages the canteen menu and billing.
type CanteenService struct {
	repo *data.CanteenRepo
}

// NewCanteenService constructs a CanteenService.
func NewCanteenService(repo *data.CanteenRepo) *CanteenService {
	return &CanteenService{repo: repo}
}

// AddMenuItem adds an item to the menu.
func (s *CanteenService) AddMenuItem(ctx context.Context, req *model.CreateMenuItemRequest) (*model.MenuItem, error) {
	return s.repo.CreateMenuItem(ctx, req)
}

// Menu lists menu items. Non-canteen callers only see available items.
func (s *CanteenService) Menu(ctx context.Context, includeHidden bool) ([]*model.MenuItem, error) {
	return s.repo.ListMenu(ctx, !includeHidden)
}

// SetAvailability toggles a menu item's visibility.
func (s *CanteenService) SetAvailability(ctx context.Context, id string, available bool) error {
	return s.repo.SetMenuItemAvailability(ctx, id, available)
}

// RemoveMenuItem deletes a menu item.
func (s *CanteenService) RemoveMenuItem(ctx context.Context, id string) error {
	return s.repo.DeleteMenuItem(ctx, id)
}

// CreateBill records a charge against a user account.
func (s *CanteenService) CreateBill(ctx context.Context, req *model.CreateBillRequest) (*model.Bill, error) {
	return s.repo.CreateBill(ctx, req)
}

// SettleBill marks a bill paid.
func (s *CanteenService) SettleBill(ctx context.Context, id string) error {
	return s.repo.MarkBillPaid(ctx, id)
}

// BillsForUser returns one user's bills.
func (s *CanteenService) BillsForUser(ctx context.Context, userID string) ([]*model.Bill, error) {
	return s.repo.ListBillsByUser(ctx, userID)
}

// UnpaidBills returns the canteen's outstanding bills.
func (s *CanteenService) UnpaidBills(ctx context.Context) ([]*model.Bill, error) {
	return s.repo.ListUnpaidBills(ctx)
}
