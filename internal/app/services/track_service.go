package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/app/repositories"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
)

// TrackService defines the interface for track operations
type TrackService interface {
	GetAllTracks(ctx context.Context, city string, page, size int) (*dto.TrackListResponse, error)
	GetTrackByID(ctx context.Context, id int64) (*dto.TrackResponse, error)
	CreateTrack(ctx context.Context, req *dto.CreateTrackRequest, creatorID int64) (*dto.TrackResponse, error)
	UpdateTrack(ctx context.Context, id int64, req *dto.UpdateTrackRequest) (*dto.TrackResponse, error)
	DeleteTrack(ctx context.Context, id int64) error
}

// trackServiceImpl implements TrackService
type trackServiceImpl struct {
	trackRepo *repositories.TrackRepository
	logger    zerolog.Logger
}

// NewTrackService creates a new TrackService
func NewTrackService(trackRepo *repositories.TrackRepository, logger zerolog.Logger) TrackService {
	return &trackServiceImpl{trackRepo: trackRepo, logger: logger}
}

// GetAllTracks retrieves tracks with optional city filter and pagination
func (s *trackServiceImpl) GetAllTracks(ctx context.Context, city string, page, size int) (*dto.TrackListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	tracks, total, err := s.trackRepo.ListTracks(ctx, city, int(offset), limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		responses = append(responses, dto.NewTrackResponse(t))
	}
	return &dto.TrackListResponse{
		Tracks:         responses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetTrackByID retrieves a single track
func (s *trackServiceImpl) GetTrackByID(ctx context.Context, id int64) (*dto.TrackResponse, error) {
	track, err := s.trackRepo.GetTrackByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTrackResponse(track)
	return &resp, nil
}

// CreateTrack creates a new track
func (s *trackServiceImpl) CreateTrack(ctx context.Context, req *dto.CreateTrackRequest, creatorID int64) (*dto.TrackResponse, error) {
	track := &models.Track{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		City:        req.City,
		Address:     req.Address,
		Zipcode:     req.Zipcode,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Distance:    req.Distance,
		Elevation:   req.Elevation,
		Type:        models.TrackType(req.Type),
		AvgTime:     req.AvgTime,
		Pace:        req.Pace,
		Facilities:  req.Facilities,
		CreatedBy:   creatorID,
	}

	id, err := s.trackRepo.CreateTrack(ctx, track)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("trackID", id).Msg("Track created")
	return s.GetTrackByID(ctx, id)
}

// UpdateTrack applies the non-nil fields of the request to an existing track
func (s *trackServiceImpl) UpdateTrack(ctx context.Context, id int64, req *dto.UpdateTrackRequest) (*dto.TrackResponse, error) {
	track, err := s.trackRepo.GetTrackByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		track.Title = *req.Title
	}
	if req.Description != nil {
		track.Description = *req.Description
	}
	if req.Image != nil {
		track.Image = req.Image
	}
	if req.City != nil {
		track.City = *req.City
	}
	if req.Address != nil {
		track.Address = req.Address
	}
	if req.Zipcode != nil {
		track.Zipcode = req.Zipcode
	}
	if req.Latitude != nil {
		track.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		track.Longitude = req.Longitude
	}
	if req.Distance != nil {
		track.Distance = *req.Distance
	}
	if req.Elevation != nil {
		track.Elevation = *req.Elevation
	}
	if req.Type != nil {
		track.Type = models.TrackType(*req.Type)
	}
	if req.AvgTime != nil {
		track.AvgTime = *req.AvgTime
	}
	if req.Pace != nil {
		track.Pace = *req.Pace
	}
	if req.Facilities != nil {
		track.Facilities = req.Facilities
	}

	if err := s.trackRepo.UpdateTrack(ctx, track); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("trackID", id).Msg("Track updated")
	return s.GetTrackByID(ctx, id)
}

// DeleteTrack removes a track
func (s *trackServiceImpl) DeleteTrack(ctx context.Context, id int64) error {
	if err := s.trackRepo.DeleteTrack(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("trackID", id).Msg("Track deleted")
	return nil
}
