package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/app/repositories"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
)

// RideService defines the interface for community ride operations
type RideService interface {
	GetAllRides(ctx context.Context, filter *dto.RideFilterRequest) (*dto.RideListResponse, error)
	GetRideByID(ctx context.Context, id int64) (*dto.RideResponse, error)
	CreateRide(ctx context.Context, req *dto.CreateRideRequest, creatorID int64) (*dto.RideResponse, error)
	UpdateRide(ctx context.Context, id int64, req *dto.UpdateRideRequest) (*dto.RideResponse, error)
	DeleteRide(ctx context.Context, id int64) error
}

// rideServiceImpl implements RideService
type rideServiceImpl struct {
	rideRepo *repositories.RideRepository
	logger   zerolog.Logger
}

// NewRideService creates a new RideService
func NewRideService(rideRepo *repositories.RideRepository, logger zerolog.Logger) RideService {
	return &rideServiceImpl{rideRepo: rideRepo, logger: logger}
}

// GetAllRides retrieves rides with optional status filter and pagination
func (s *rideServiceImpl) GetAllRides(ctx context.Context, filter *dto.RideFilterRequest) (*dto.RideListResponse, error) {
	page, size := 1, 10
	status := ""
	if filter != nil {
		page, size = filter.Page, filter.PageSize
		if filter.Status != nil {
			status = *filter.Status
		}
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	rides, total, err := s.rideRepo.ListRides(ctx, status, int(offset), limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RideResponse, 0, len(rides))
	for _, ride := range rides {
		responses = append(responses, dto.NewRideResponse(ride))
	}
	return &dto.RideListResponse{
		Rides:          responses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetRideByID retrieves a single ride
func (s *rideServiceImpl) GetRideByID(ctx context.Context, id int64) (*dto.RideResponse, error) {
	ride, err := s.rideRepo.GetRideByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewRideResponse(ride)
	return &resp, nil
}

// CreateRide creates a new community ride
func (s *rideServiceImpl) CreateRide(ctx context.Context, req *dto.CreateRideRequest, creatorID int64) (*dto.RideResponse, error) {
	rideDate, err := helpers.ParseDate(req.RideDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid ride date")
	}

	ride := &models.Ride{
		Title:       req.Title,
		Description: req.Description,
		RideDate:    rideDate,
		StartPoint:  req.StartPoint,
		Distance:    req.Distance,
		Pace:        req.Pace,
		Status:      models.EventUpcoming,
		CreatedBy:   creatorID,
	}

	id, err := s.rideRepo.CreateRide(ctx, ride)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("rideID", id).Msg("Ride created")
	return s.GetRideByID(ctx, id)
}

// UpdateRide applies the non-nil fields of the request to an existing ride
func (s *rideServiceImpl) UpdateRide(ctx context.Context, id int64, req *dto.UpdateRideRequest) (*dto.RideResponse, error) {
	ride, err := s.rideRepo.GetRideByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		ride.Title = *req.Title
	}
	if req.Description != nil {
		ride.Description = *req.Description
	}
	if req.RideDate != nil {
		rideDate, err := helpers.ParseDate(*req.RideDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid ride date")
		}
		ride.RideDate = rideDate
	}
	if req.StartPoint != nil {
		ride.StartPoint = *req.StartPoint
	}
	if req.Distance != nil {
		ride.Distance = req.Distance
	}
	if req.Pace != nil {
		ride.Pace = req.Pace
	}
	if req.Status != nil {
		ride.Status = models.EventStatus(*req.Status)
	}

	if err := s.rideRepo.UpdateRide(ctx, ride); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("rideID", id).Msg("Ride updated")
	return s.GetRideByID(ctx, id)
}

// DeleteRide removes a ride
func (s *rideServiceImpl) DeleteRide(ctx context.Context, id int64) error {
	if err := s.rideRepo.DeleteRide(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("rideID", id).Msg("Ride deleted")
	return nil
}
