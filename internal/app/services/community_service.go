package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/app/repositories"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
)

// CommunityService defines the interface for community operations
type CommunityService interface {
	GetAllCommunities(ctx context.Context, filter *dto.CommunityFilterRequest) (*dto.CommunityListResponse, error)
	GetCommunityByID(ctx context.Context, id int64) (*dto.CommunityResponse, error)
	CreateCommunity(ctx context.Context, req *dto.CreateCommunityRequest, creatorID int64) (*dto.CommunityResponse, error)
	UpdateCommunity(ctx context.Context, id int64, req *dto.UpdateCommunityRequest) (*dto.CommunityResponse, error)
	DeleteCommunity(ctx context.Context, id int64) error
}

// communityServiceImpl implements CommunityService
type communityServiceImpl struct {
	communityRepo  *repositories.CommunityRepository
	membershipRepo *repositories.MembershipRepository
	userRepo       *repositories.UserRepository
	logger         zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(
	communityRepo *repositories.CommunityRepository,
	membershipRepo *repositories.MembershipRepository,
	userRepo *repositories.UserRepository,
	logger zerolog.Logger,
) CommunityService {
	return &communityServiceImpl{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// GetAllCommunities retrieves communities with filtering, pagination and
// live member counts
func (s *communityServiceImpl) GetAllCommunities(ctx context.Context, filter *dto.CommunityFilterRequest) (*dto.CommunityListResponse, error) {
	page, size := 1, 10
	if filter != nil {
		page, size = filter.Page, filter.PageSize
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	communities, total, err := s.communityRepo.ListCommunities(ctx, filter, int(offset), limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(communities))
	for _, c := range communities {
		ids = append(ids, c.ID)
	}
	counts, err := s.membershipRepo.CountActiveByCommunityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommunityResponse, 0, len(communities))
	for _, c := range communities {
		c.MemberCount = counts[c.ID]
		responses = append(responses, dto.NewCommunityResponse(c))
	}
	return &dto.CommunityListResponse{
		Communities:    responses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetCommunityByID retrieves a single community with its creator profile and
// live member count
func (s *communityServiceImpl) GetCommunityByID(ctx context.Context, id int64) (*dto.CommunityResponse, error) {
	community, err := s.communityRepo.GetCommunityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.membershipRepo.CountMembersByStatus(ctx, id, models.MembershipActive)
	if err != nil {
		return nil, err
	}
	community.MemberCount = count

	if creator, err := s.userRepo.GetUserByID(ctx, community.CreatedBy); err == nil {
		community.Creator = creator
	}

	resp := dto.NewCommunityResponse(community)
	return &resp, nil
}

// CreateCommunity creates a new community owned by the caller
func (s *communityServiceImpl) CreateCommunity(ctx context.Context, req *dto.CreateCommunityRequest, creatorID int64) (*dto.CommunityResponse, error) {
	community := &models.Community{
		Title:       req.Title,
		Description: req.Description,
		Type:        models.CommunityType(req.Type),
		Category:    req.Category,
		Location:    req.Location,
		Image:       req.Image,
		Logo:        req.Logo,
		TrackName:   req.TrackName,
		Distance:    req.Distance,
		Terrain:     req.Terrain,
		IsActive:    true,
		IsPublic:    true,
		CreatedBy:   creatorID,
	}
	if req.IsPublic != nil {
		community.IsPublic = *req.IsPublic
	}
	if req.IsFeatured != nil {
		community.IsFeatured = *req.IsFeatured
	}

	id, err := s.communityRepo.CreateCommunity(ctx, community)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("communityID", id).Int64("creatorID", creatorID).Msg("Community created")
	return s.GetCommunityByID(ctx, id)
}

// UpdateCommunity applies the non-nil fields of the request to an existing
// community
func (s *communityServiceImpl) UpdateCommunity(ctx context.Context, id int64, req *dto.UpdateCommunityRequest) (*dto.CommunityResponse, error) {
	community, err := s.communityRepo.GetCommunityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		community.Title = *req.Title
	}
	if req.Description != nil {
		community.Description = *req.Description
	}
	if req.Type != nil {
		community.Type = models.CommunityType(*req.Type)
	}
	if req.Category != nil {
		community.Category = req.Category
	}
	if req.Location != nil {
		community.Location = req.Location
	}
	if req.Image != nil {
		community.Image = req.Image
	}
	if req.Logo != nil {
		community.Logo = req.Logo
	}
	if req.TrackName != nil {
		community.TrackName = req.TrackName
	}
	if req.Distance != nil {
		community.Distance = req.Distance
	}
	if req.Terrain != nil {
		community.Terrain = req.Terrain
	}
	if req.IsActive != nil {
		community.IsActive = *req.IsActive
	}
	if req.IsPublic != nil {
		community.IsPublic = *req.IsPublic
	}
	if req.IsFeatured != nil {
		community.IsFeatured = *req.IsFeatured
	}

	if err := s.communityRepo.UpdateCommunity(ctx, community); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("communityID", id).Msg("Community updated")
	return s.GetCommunityByID(ctx, id)
}

// DeleteCommunity soft-deletes a community; its memberships are preserved
func (s *communityServiceImpl) DeleteCommunity(ctx context.Context, id int64) error {
	if err := s.communityRepo.DeleteCommunity(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("communityID", id).Msg("Community deleted")
	return nil
}
