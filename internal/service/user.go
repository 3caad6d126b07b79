package service

import (
	"context"

	"github.com/neduet/campus-api/internal/adapters/pgauth"
	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/domain/model"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

// UserService manages portal accounts. Account creation is an admin
// operation; there is no self-service signup.
type UserService struct {
	repo *data.UserRepo
}

// NewUserService constructs a UserService.
func NewUserService(repo *data.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Create provisions an account with a freshly hashed password.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, apperrors.Validation("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	hash, err := pgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req, hash)
}

// Get retrieves an account by ID.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByRole lists accounts holding one role.
func (s *UserService) ListByRole(ctx context.Context, role domainauth.Role) ([]*model.User, error) {
	if _, err := domainauth.ParseRole(string(role)); err != nil {
		return nil, apperrors.ValidationField("role", "unknown role")
	}
	return s.repo.ListByRole(ctx, role)
}

// SetPassword replaces an account's password.
func (s *UserService) SetPassword(ctx context.Context, id, password string) error {
	if len(password) < 8 {
		return apperrors.ValidationField("password", "password must be at least 8 characters")
	}
	hash, err := pgauth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
