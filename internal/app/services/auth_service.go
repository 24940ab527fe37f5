package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/app/repositories"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
	"github.com/veloclub/veloclub/internal/pkg/auth"
	"github.com/veloclub/veloclub/internal/pkg/identity"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	VerifyIdentity(ctx context.Context, req *dto.VerifyIdentityRequest) (*dto.VerifyIdentityResponse, error)
	Register(ctx context.Context, grant *auth.Claims, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest) error
	GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	jwtService *auth.JWTService
	verifier   identity.TokenVerifier
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	jwtService *auth.JWTService,
	verifier identity.TokenVerifier,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		verifier:   verifier,
		logger:     logger,
	}
}

func newUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		FullName:   user.FullName,
		Phone:      user.Phone,
		Email:      user.Email,
		Gender:     user.Gender,
		Age:        user.Age,
		RoleType:   string(user.RoleType),
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User, deviceID *string) (dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	err = s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, deviceID, s.jwtService.GetRefreshTokenExpiry())
	if err != nil {
		return dto.TokenResponse{}, err
	}
	return dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}

// VerifyIdentity validates the identity-provider token. A known identity
// gets a full token pair; an unknown one gets a short-lived registration
// grant so the client can complete the profile.
func (s *authServiceImpl) VerifyIdentity(ctx context.Context, req *dto.VerifyIdentityRequest) (*dto.VerifyIdentityResponse, error) {
	ident, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Identity token rejected")
		return nil, apperrors.ErrIdentityRejected
	}

	user, err := s.userRepo.GetUserByFirebaseUID(ctx, ident.UID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}

		grant, expiresIn, err := s.jwtService.GenerateRegistrationGrant(ident.UID, ident.Phone, ident.Email)
		if err != nil {
			return nil, err
		}
		return &dto.VerifyIdentityResponse{
			IsNewUser: true,
			Phone:     ident.Phone,
			Email:     ident.Email,
			Tokens: dto.TokenResponse{
				AccessToken: grant,
				ExpiresIn:   expiresIn,
			},
		}, nil
	}

	tokens, err := s.issueTokens(ctx, user, req.DeviceID)
	if err != nil {
		return nil, err
	}
	userResp := newUserResponse(user)
	return &dto.VerifyIdentityResponse{
		IsNewUser: false,
		Phone:     user.Phone,
		Email:     user.Email,
		User:      &userResp,
		Tokens:    tokens,
	}, nil
}

// Register creates the user account promised by a registration grant
func (s *authServiceImpl) Register(ctx context.Context, grant *auth.Claims, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !grant.IsRegistrationGrant() || grant.Subject == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	user := &models.User{
		FullName:    req.FullName,
		FirebaseUID: grant.Subject,
		Phone:       grant.Phone,
		Email:       grant.Email,
		Gender:      req.Gender,
		Age:         req.Age,
		RoleType:    models.RoleMember,
		IsVerified:  true,
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Warn().Err(err).Str("firebaseUID", grant.Subject).Msg("Registration failed")
		return nil, err
	}

	created, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, created, req.DeviceID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", id).Msg("User registered")
	return &dto.AuthResponse{User: newUserResponse(created), Tokens: tokens}, nil
}

// Login authenticates an admin account with email and password
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == nil || !auth.CheckPassword(*user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", user.ID).Msg("Admin login")
	return &dto.AuthResponse{User: newUserResponse(user), Tokens: tokens}, nil
}

// RefreshToken rotates a refresh token: the old token is revoked and a new
// pair is issued in its place
func (s *authServiceImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	userID, expiryDate, isRevoked, err := s.tokenRepo.GetTokenByValue(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if isRevoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if expiryDate.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.RevokeToken(ctx, req.RefreshToken); err != nil {
		return nil, err
	}
	tokens, err := s.issueTokens(ctx, user, nil)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Logout revokes the presented refresh token. Revoking a token that is
// already revoked or unknown is not an error.
func (s *authServiceImpl) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	err := s.tokenRepo.RevokeToken(ctx, req.RefreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

// GetCurrentUser returns the authenticated user's profile
func (s *authServiceImpl) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := newUserResponse(user)
	return &resp, nil
}

// GuestSessionService issues and resolves anonymous browsing sessions.
type GuestSessionService struct {
	sessionRepo *repositories.GuestSessionRepository
	logger      zerolog.Logger
}

// NewGuestSessionService creates a new GuestSessionService. A nil repository
// disables guest sessions.
func NewGuestSessionService(sessionRepo *repositories.GuestSessionRepository, logger zerolog.Logger) *GuestSessionService {
	return &GuestSessionService{sessionRepo: sessionRepo, logger: logger}
}

// CreateSession opens a guest session for the device. Without a device ID a
// random one is assigned.
func (s *GuestSessionService) CreateSession(ctx context.Context, deviceID string) (*repositories.GuestSession, error) {
	if s.sessionRepo == nil {
		return nil, apperrors.ErrResourceNotFound
	}
	if deviceID == "" {
		deviceID = uuid.New().String()
	}
	session, err := s.sessionRepo.CreateSession(ctx, deviceID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create guest session")
		return nil, err
	}
	return session, nil
}

// GetSession resolves a guest session, refreshing its TTL
func (s *GuestSessionService) GetSession(ctx context.Context, sessionID string) (*repositories.GuestSession, error) {
	if s.sessionRepo == nil {
		return nil, nil
	}
	return s.sessionRepo.GetSession(ctx, sessionID)
}
