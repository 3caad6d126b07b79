package service

import (
	"context"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
)

// DepartmentService manages academic departments.
type DepartmentService struct {
	repo *data.DepartmentRepo
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo *data.DepartmentRepo) *DepartmentService {
	return &DepartmentService{repo: repo}
}

// Create adds a department.
func (s *DepartmentService) Create(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	return s.repo.Create(ctx, req)
}

// Get retrieves a department by ID.
func (s *DepartmentService) Get(ctx context.Context, id string) (*model.Department, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all departments.
func (s *DepartmentService) List(ctx context.Context) ([]*model.Department, error) {
	return s.repo.List(ctx)
}

// Update renames a department.
func (s *DepartmentService) Update(ctx context.Context, id string, req model.UpdateDepartmentRequest) (*model.Department, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete removes a department.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
