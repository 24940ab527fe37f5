package dto

import "time"

// --- Request DTOs ---

// VerifyIdentityRequest carries the identity-provider ID token from the client.
type VerifyIdentityRequest struct {
	IDToken  string  `json:"idToken" binding:"required"`
	DeviceID *string `json:"deviceId,omitempty"`
}

// RegisterRequest completes registration after identity verification.
type RegisterRequest struct {
	FullName string  `json:"fullName" binding:"required,min=2,max=100"`
	Age      *int    `json:"age,omitempty" binding:"omitempty,gte=13,lte=120"`
	Gender   *string `json:"gender,omitempty" binding:"omitempty,oneof=Male Female"`
	DeviceID *string `json:"deviceId,omitempty"`
}

// LoginRequest is the email/password login used by admin accounts.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// --- Response DTOs ---

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken,omitempty"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn,omitempty"`
}

// UserResponse is the user profile returned by auth endpoints.
type UserResponse struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"fullName"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Gender     *string   `json:"gender,omitempty"`
	Age        *int      `json:"age,omitempty"`
	RoleType   string    `json:"roleType"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VerifyIdentityResponse is returned by the identity verification endpoint.
// For an unknown phone/email the user is absent, IsNewUser is set and the
// token pair is a temporary registration grant.
type VerifyIdentityResponse struct {
	IsNewUser bool          `json:"isNewUser"`
	Phone     *string       `json:"phone,omitempty"`
	Email     *string       `json:"email,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
	Tokens    TokenResponse `json:"tokens"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}
