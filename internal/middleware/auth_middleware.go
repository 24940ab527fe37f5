package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/pkg/auth"
)

// Context keys populated by JWTAuth.
const (
	ContextUserID = "userID"
	ContextRole   = "roleType"
	ContextClaims = "claims"
)

// AuthMiddleware guards routes with JWT authentication and role checks
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func abortUnauthorized(c *gin.Context, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth validates the bearer token and stores the claims in the request
// context. Registration grants are rejected here; they are only valid on the
// register endpoint, which uses RegistrationGrant instead.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.validate(c)
		if err != nil {
			return
		}
		if claims.IsRegistrationGrant() {
			abortUnauthorized(c, "Registration token cannot access this resource")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.RoleType)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RegistrationGrant accepts only the temporary pre-registration token issued
// by identity verification
func (m *AuthMiddleware) RegistrationGrant() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.validate(c)
		if err != nil {
			return
		}
		if !claims.IsRegistrationGrant() {
			abortUnauthorized(c, "A registration token is required for this resource")
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// validate extracts and verifies the bearer token, aborting the request on
// failure
func (m *AuthMiddleware) validate(c *gin.Context) (*auth.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, "Authorization header missing")
		return nil, auth.ErrInvalidToken
	}

	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err != nil {
		abortUnauthorized(c, "Invalid token format")
		return nil, err
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		errorCode := dto.ErrorCodeInvalidToken
		details := "Invalid token"
		if errors.Is(err, auth.ErrExpiredToken) {
			errorCode = dto.ErrorCodeExpiredToken
			details = "Token has expired"
		}
		errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(details)
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, err
	}
	return claims, nil
}

func abortForbidden(c *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
		WithDetails("You don't have sufficient permissions for this operation")
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
}

func roleFromContext(c *gin.Context) (models.RoleType, bool) {
	value, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := value.(string)
	return models.RoleType(role), ok
}

// ContentManagerRequired allows only roles that may manage platform content.
// Must run after JWTAuth.
func (m *AuthMiddleware) ContentManagerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			abortUnauthorized(c, "User role not found")
			return
		}
		if !role.CanManageContent() {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// ModeratorRequired allows only roles that may moderate community members.
// Must run after JWTAuth.
func (m *AuthMiddleware) ModeratorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			abortUnauthorized(c, "User role not found")
			return
		}
		if !role.CanModerateMembers() {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// GetUserID reads the authenticated user's ID from the request context
func GetUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// GetClaims reads the validated token claims from the request context
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
