package dto

import (
	"time"

	"github.com/veloclub/veloclub/internal/app/models"
)

// --- Request DTOs ---

// CreateCommunityRequest represents community creation data
type CreateCommunityRequest struct {
	Title       string   `json:"title" binding:"required,min=2,max=150"`
	Description string   `json:"description" binding:"required"`
	Type        string   `json:"type" binding:"required,oneof=Club Shop Women Youth Family Corporate"`
	Category    []string `json:"category" binding:"required,min=1"`
	Location    *string  `json:"location,omitempty" binding:"omitempty,oneof='Abu Dhabi' Dubai 'Al Ain' Sharjah"`
	Image       *string  `json:"image,omitempty"`
	Logo        *string  `json:"logo,omitempty"`
	TrackName   *string  `json:"trackName,omitempty"`
	Distance    *float64 `json:"distance,omitempty" binding:"omitempty,gte=0"`
	Terrain     *string  `json:"terrain,omitempty"`
	IsPublic    *bool    `json:"isPublic,omitempty"`
	IsFeatured  *bool    `json:"isFeatured,omitempty"`
}

// UpdateCommunityRequest represents community update data; nil fields are
// left unchanged.
type UpdateCommunityRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=2,max=150"`
	Description *string  `json:"description,omitempty"`
	Type        *string  `json:"type,omitempty" binding:"omitempty,oneof=Club Shop Women Youth Family Corporate"`
	Category    []string `json:"category,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Logo        *string  `json:"logo,omitempty"`
	TrackName   *string  `json:"trackName,omitempty"`
	Distance    *float64 `json:"distance,omitempty" binding:"omitempty,gte=0"`
	Terrain     *string  `json:"terrain,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
	IsPublic    *bool    `json:"isPublic,omitempty"`
	IsFeatured  *bool    `json:"isFeatured,omitempty"`
}

// CommunityFilterRequest carries list filters and pagination
type CommunityFilterRequest struct {
	Type     *string
	Location *string
	Category *string
	Search   *string
	IsActive *bool
	Page     int
	PageSize int
}

// --- Response DTOs ---

// CommunityResponse represents basic community information
type CommunityResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Category    []string  `json:"category"`
	Location    *string   `json:"location,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Logo        *string   `json:"logo,omitempty"`
	TrackName   *string   `json:"trackName,omitempty"`
	Distance    *float64  `json:"distance,omitempty"`
	Terrain     *string   `json:"terrain,omitempty"`
	IsActive    bool      `json:"isActive"`
	IsPublic    bool      `json:"isPublic"`
	IsFeatured  bool      `json:"isFeatured"`
	MemberCount int       `json:"memberCount"`
	Creator     *UserBasicResponse `json:"creator,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CommunityListResponse is a paginated list of communities
type CommunityListResponse struct {
	Communities    []CommunityResponse `json:"communities"`
	PaginationInfo PaginationInfo      `json:"pagination"`
}

// MembershipResponse represents a user's membership in a community
type MembershipResponse struct {
	ID           int64              `json:"id"`
	CommunityID  int64              `json:"communityId"`
	UserID       int64              `json:"userId"`
	Role         string             `json:"role"`
	Status       string             `json:"status"`
	JoinedAt     time.Time          `json:"joinedAt"`
	Contribution int                `json:"contribution"`
	User         *UserBasicResponse `json:"user,omitempty"`
	Community    *CommunityResponse `json:"community,omitempty"`
}

// MemberListResponse is a paginated list of community members
type MemberListResponse struct {
	Members        []MembershipResponse `json:"members"`
	PaginationInfo PaginationInfo       `json:"pagination"`
}

// IsMemberResponse answers a membership check for a single user
type IsMemberResponse struct {
	IsMember bool `json:"isMember"`
}

// LeaveCommunityResponse returns both sides of a leave operation for client
// convenience.
type LeaveCommunityResponse struct {
	Membership MembershipResponse `json:"membership"`
	Community  CommunityResponse  `json:"community"`
}

// NewMembershipResponse maps a membership model to its response DTO.
func NewMembershipResponse(m *models.Membership) MembershipResponse {
	resp := MembershipResponse{
		ID:           m.ID,
		CommunityID:  m.CommunityID,
		UserID:       m.UserID,
		Role:         string(m.Role),
		Status:       string(m.Status),
		JoinedAt:     m.JoinedAt,
		Contribution: m.Contribution,
	}
	if m.User != nil {
		resp.User = &UserBasicResponse{
			ID:       m.User.ID,
			FullName: m.User.FullName,
			Email:    m.User.Email,
		}
	}
	if m.Community != nil {
		community := NewCommunityResponse(m.Community)
		resp.Community = &community
	}
	return resp
}

// NewCommunityResponse maps a community model to its response DTO.
func NewCommunityResponse(c *models.Community) CommunityResponse {
	resp := CommunityResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Type:        string(c.Type),
		Category:    c.Category,
		Location:    c.Location,
		Image:       c.Image,
		Logo:        c.Logo,
		TrackName:   c.TrackName,
		Distance:    c.Distance,
		Terrain:     c.Terrain,
		IsActive:    c.IsActive,
		IsPublic:    c.IsPublic,
		IsFeatured:  c.IsFeatured,
		MemberCount: c.MemberCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Creator != nil {
		resp.Creator = &UserBasicResponse{
			ID:       c.Creator.ID,
			FullName: c.Creator.FullName,
			Email:    c.Creator.Email,
		}
	}
	return resp
}
