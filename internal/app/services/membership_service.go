package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
	"github.com/veloclub/veloclub/internal/pkg/events"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
)

// membershipStore is the membership persistence surface the service needs.
// Satisfied by *repositories.MembershipRepository.
type membershipStore interface {
	Toggle(ctx context.Context, communityID, userID int64) (*models.Membership, error)
	Deactivate(ctx context.Context, communityID, userID int64) (bool, error)
	SetStatus(ctx context.Context, communityID, userID int64, status models.MembershipStatus) (*models.Membership, error)
	IsActiveMember(ctx context.Context, communityID, userID int64) (bool, error)
	GetMembership(ctx context.Context, communityID, userID int64) (*models.Membership, error)
	GetMembersByCommunityID(ctx context.Context, communityID int64, status models.MembershipStatus, offset, limit int) ([]*models.Membership, error)
	CountMembersByStatus(ctx context.Context, communityID int64, status models.MembershipStatus) (int, error)
	GetCommunitiesByUserID(ctx context.Context, userID int64) ([]*models.Community, error)
}

// communityStore is the community lookup surface the membership service
// needs. Satisfied by *repositories.CommunityRepository.
type communityStore interface {
	GetCommunityByID(ctx context.Context, id int64) (*models.Community, error)
}

// moderatorAuthorizer checks the acting user's current role. Satisfied by
// *auth.AuthorizationService.
type moderatorAuthorizer interface {
	ValidateModerator(ctx context.Context, userID int64) error
}

// MembershipService defines the interface for community membership operations
type MembershipService interface {
	ToggleMembership(ctx context.Context, communityID, userID int64) (*dto.MembershipResponse, error)
	LeaveCommunity(ctx context.Context, communityID, userID int64) (*dto.LeaveCommunityResponse, error)
	IsMember(ctx context.Context, communityID, userID int64) (*dto.IsMemberResponse, error)
	GetMembers(ctx context.Context, communityID int64, page, size int) (*dto.MemberListResponse, error)
	GetBannedMembers(ctx context.Context, communityID int64, page, size int) (*dto.MemberListResponse, error)
	BanMember(ctx context.Context, communityID, userID, actorID int64) (*dto.MembershipResponse, error)
	UnbanMember(ctx context.Context, communityID, userID, actorID int64) (*dto.MembershipResponse, error)
	GetUserCommunities(ctx context.Context, userID int64) ([]dto.CommunityResponse, error)
}

// membershipServiceImpl implements MembershipService
type membershipServiceImpl struct {
	membershipRepo membershipStore
	communityRepo  communityStore
	authz          moderatorAuthorizer
	producer       *events.Producer
	logger         zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	membershipRepo membershipStore,
	communityRepo communityStore,
	authz moderatorAuthorizer,
	producer *events.Producer,
	logger zerolog.Logger,
) MembershipService {
	return &membershipServiceImpl{
		membershipRepo: membershipRepo,
		communityRepo:  communityRepo,
		authz:          authz,
		producer:       producer,
		logger:         logger,
	}
}

// ToggleMembership joins the user to the community or, if already an active
// member, leaves it. Banned members cannot toggle. The flip itself is a
// single upsert in the repository, so concurrent calls settle into a valid
// state instead of duplicating rows.
func (s *membershipServiceImpl) ToggleMembership(ctx context.Context, communityID, userID int64) (*dto.MembershipResponse, error) {
	community, err := s.communityRepo.GetCommunityByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if !community.IsActive {
		return nil, apperrors.ErrCommunityInactive
	}

	membership, err := s.membershipRepo.Toggle(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}

	if membership.Status == models.MembershipActive {
		s.producer.Publish(ctx, events.TypeMembershipJoined, userID, communityID)
		s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("Member joined community")
	} else {
		s.producer.Publish(ctx, events.TypeMembershipLeft, userID, communityID)
		s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("Member left community")
	}

	resp := dto.NewMembershipResponse(membership)
	return &resp, nil
}

// LeaveCommunity explicitly deactivates the caller's membership. Unlike the
// toggle it is idempotent for existing members: leaving twice returns the
// current state without error. A user who never joined gets a not-found, and
// banned memberships are reported as banned rather than silently ignored.
func (s *membershipServiceImpl) LeaveCommunity(ctx context.Context, communityID, userID int64) (*dto.LeaveCommunityResponse, error) {
	community, err := s.communityRepo.GetCommunityByID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if membership.Status == models.MembershipBanned {
		return nil, apperrors.ErrMemberBanned
	}

	deactivated, err := s.membershipRepo.Deactivate(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if deactivated {
		membership.Status = models.MembershipInactive
		s.producer.Publish(ctx, events.TypeMembershipLeft, userID, communityID)
		s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("Member left community")
	}

	count, err := s.membershipRepo.CountMembersByStatus(ctx, communityID, models.MembershipActive)
	if err != nil {
		return nil, err
	}
	community.MemberCount = count

	return &dto.LeaveCommunityResponse{
		Membership: dto.NewMembershipResponse(membership),
		Community:  dto.NewCommunityResponse(community),
	}, nil
}

// IsMember reports whether the user currently holds an active membership in
// the community. Inactive and banned memberships both read as false.
func (s *membershipServiceImpl) IsMember(ctx context.Context, communityID, userID int64) (*dto.IsMemberResponse, error) {
	if _, err := s.communityRepo.GetCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}

	isMember, err := s.membershipRepo.IsActiveMember(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.IsMemberResponse{IsMember: isMember}, nil
}

func (s *membershipServiceImpl) listMembers(ctx context.Context, communityID int64, status models.MembershipStatus, page, size int) (*dto.MemberListResponse, error) {
	if _, err := s.communityRepo.GetCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	memberships, err := s.membershipRepo.GetMembersByCommunityID(ctx, communityID, status, int(offset), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.membershipRepo.CountMembersByStatus(ctx, communityID, status)
	if err != nil {
		return nil, err
	}

	members := make([]dto.MembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, dto.NewMembershipResponse(m))
	}
	return &dto.MemberListResponse{
		Members:        members,
		PaginationInfo: helpers.NewPaginationInfo(int64(total), page, size),
	}, nil
}

// GetMembers retrieves a page of the community's active members, newest
// joiners first
func (s *membershipServiceImpl) GetMembers(ctx context.Context, communityID int64, page, size int) (*dto.MemberListResponse, error) {
	return s.listMembers(ctx, communityID, models.MembershipActive, page, size)
}

// GetBannedMembers retrieves a page of the community's banned members
func (s *membershipServiceImpl) GetBannedMembers(ctx context.Context, communityID int64, page, size int) (*dto.MemberListResponse, error) {
	return s.listMembers(ctx, communityID, models.MembershipBanned, page, size)
}

// BanMember forces a member's status to banned. A banned member cannot
// rejoin or leave until unbanned. The actor's role is re-checked against the
// database because the token role may be stale after a demotion.
func (s *membershipServiceImpl) BanMember(ctx context.Context, communityID, userID, actorID int64) (*dto.MembershipResponse, error) {
	if err := s.authz.ValidateModerator(ctx, actorID); err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.SetStatus(ctx, communityID, userID, models.MembershipBanned)
	if err != nil {
		return nil, err
	}
	s.producer.Publish(ctx, events.TypeMembershipBanned, userID, communityID)
	s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("Member banned")
	resp := dto.NewMembershipResponse(membership)
	return &resp, nil
}

// UnbanMember lifts a ban, returning the member to inactive so they may
// rejoin on their own
func (s *membershipServiceImpl) UnbanMember(ctx context.Context, communityID, userID, actorID int64) (*dto.MembershipResponse, error) {
	if err := s.authz.ValidateModerator(ctx, actorID); err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if membership.Status != models.MembershipBanned {
		resp := dto.NewMembershipResponse(membership)
		return &resp, nil
	}

	membership, err = s.membershipRepo.SetStatus(ctx, communityID, userID, models.MembershipInactive)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("Member unbanned")
	resp := dto.NewMembershipResponse(membership)
	return &resp, nil
}

// GetUserCommunities retrieves the communities the user is an active member of
func (s *membershipServiceImpl) GetUserCommunities(ctx context.Context, userID int64) ([]dto.CommunityResponse, error) {
	communities, err := s.membershipRepo.GetCommunitiesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.CommunityResponse, 0, len(communities))
	for _, c := range communities {
		responses = append(responses, dto.NewCommunityResponse(c))
	}
	return responses, nil
}
