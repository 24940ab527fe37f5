package models

import (
	"time"
)

// RoleType is the closed set of platform roles. Authorization decisions go
// through the capability helpers below instead of comparing role strings at
// call sites.
type RoleType string

const (
	RoleAdmin  RoleType = "ADMIN"
	RoleVendor RoleType = "VENDOR"
	RoleMember RoleType = "MEMBER"
	RoleGuest  RoleType = "GUEST"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleVendor, RoleMember, RoleGuest:
		return true
	}
	return false
}

// CanManageContent reports whether the role may create, update or delete
// communities, events, tracks and rides.
func (r RoleType) CanManageContent() bool {
	return r == RoleAdmin
}

// CanModerateMembers reports whether the role may ban or unban community
// members.
func (r RoleType) CanModerateMembers() bool {
	return r == RoleAdmin || r == RoleVendor
}

// IsAuthenticated reports whether the role belongs to a registered user
// rather than a guest session.
func (r RoleType) IsAuthenticated() bool {
	return r != RoleGuest && r != ""
}

// User defines the user model based on the 'users' table
type User struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	FullName    string    `json:"fullName" db:"full_name" example:"Aisha Rahman"`
	FirebaseUID string    `json:"-" db:"firebase_uid"`
	Phone       *string   `json:"phone,omitempty" db:"phone" example:"+971501234567"`
	Email       *string   `json:"email,omitempty" db:"email" example:"rider@example.com"`
	Password    *string   `json:"-" db:"password"` // bcrypt hash, admin accounts only
	Gender      *string   `json:"gender,omitempty" db:"gender" example:"Female"`
	Age         *int      `json:"age,omitempty" db:"age" example:"28"`
	RoleType    RoleType  `json:"roleType" db:"role_type" example:"MEMBER"`
	IsVerified  bool      `json:"isVerified" db:"is_verified" example:"true"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
}

// RefreshToken defines a stored refresh token based on the 'refresh_tokens' table
type RefreshToken struct {
	ID         int64     `json:"id" db:"id"`
	Token      string    `json:"-" db:"token"`
	UserID     int64     `json:"userId" db:"user_id"`
	DeviceID   *string   `json:"deviceId,omitempty" db:"device_id"`
	ExpiryDate time.Time `json:"expiryDate" db:"expiry_date"`
	IsRevoked  bool      `json:"isRevoked" db:"is_revoked"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
