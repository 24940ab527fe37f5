package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloclub/veloclub/internal/app/models"
)

func testService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "veloclub.test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testService(time.Hour)
	phone := "+971501234567"
	user := &models.User{
		ID:       42,
		FullName: "Test Rider",
		Phone:    &phone,
		RoleType: models.RoleMember,
	}

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, int((720 * time.Hour).Seconds()), refreshExpiresIn)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, string(models.RoleMember), claims.RoleType)
	require.NotNil(t, claims.Phone)
	assert.Equal(t, phone, *claims.Phone)
	assert.False(t, claims.IsRegistrationGrant())
}

func TestRegistrationGrant(t *testing.T) {
	svc := testService(time.Hour)
	phone := "+971509876543"

	token, expiresIn, err := svc.GenerateRegistrationGrant("firebase-uid-1", &phone, nil)
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsRegistrationGrant())
	assert.Equal(t, string(models.RoleGuest), claims.RoleType)
	assert.Equal(t, "firebase-uid-1", claims.Subject)
	require.NotNil(t, claims.Phone)
	assert.Equal(t, phone, *claims.Phone)
	assert.Nil(t, claims.Email)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := testService(-time.Minute)
	user := &models.User{ID: 1, RoleType: models.RoleMember}

	access, _, _, _, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	svc := testService(time.Hour)
	other := NewJWTService(JWTConfig{
		SecretKey:       "other-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "veloclub.test",
	})

	user := &models.User{ID: 1, RoleType: models.RoleMember}
	access, _, _, _, err := other.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
