package auth

import (
	"context"

	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/repositories"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
)

// AuthorizationService resolves a user's platform role and checks it against
// the capability an operation requires.
type AuthorizationService struct {
	userRepo *repositories.UserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

func (s *AuthorizationService) roleOf(ctx context.Context, userID int64) (models.RoleType, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.RoleType, nil
}

// ValidateContentManager returns ErrPermissionDenied unless the user may
// create, update or delete platform content
func (s *AuthorizationService) ValidateContentManager(ctx context.Context, userID int64) error {
	role, err := s.roleOf(ctx, userID)
	if err != nil {
		return err
	}
	if !role.CanManageContent() {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateModerator returns ErrPermissionDenied unless the user may ban or
// unban community members
func (s *AuthorizationService) ValidateModerator(ctx context.Context, userID int64) error {
	role, err := s.roleOf(ctx, userID)
	if err != nil {
		return err
	}
	if !role.CanModerateMembers() {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
