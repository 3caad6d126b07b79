package service

import (
	"context"
	"time"

	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/domain/model"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

// LocationService manages live point positions and the point-user roster.
type LocationService struct {
	locations *data.LocationRepo
	users     *data.UserRepo
}

// NewLocationService constructs a LocationService.
func NewLocationService(locations *data.LocationRepo, users *data.UserRepo) *LocationService {
	return &LocationService{locations: locations, users: users}
}

// Report stores the calling point user's position.
func (s *LocationService) Report(
	ctx context.Context,
	reporter *domainauth.Session,
	req *model.SetLocationRequest,
) (*model.PointLocation, error) {
	if reporter == nil || reporter.Role != domainauth.RoleLocationPoint {
		return nil, apperrors.Forbidden("only location points may report positions")
	}
	if req == nil {
		return nil, apperrors.Validation("set location request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	loc := model.PointLocation{
		UserID:    reporter.UserID,
		Name:      reporter.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.locations.Set(ctx, loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// Live returns every currently live point position.
func (s *LocationService) Live(ctx context.Context) ([]model.PointLocation, error) {
	return s.locations.List(ctx)
}

// Watch streams position updates until ctx is cancelled.
func (s *LocationService) Watch(ctx context.Context) (<-chan model.PointLocation, error) {
	return s.locations.Subscribe(ctx)
}

// PointUsers lists every account holding the location-point role, live or not.
func (s *LocationService) PointUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.ListByRole(ctx, domainauth.RoleLocationPoint)
}
