package models

import "time"

// CommunityType is the kind of cycling community.
type CommunityType string

const (
	CommunityClub      CommunityType = "Club"
	CommunityShop      CommunityType = "Shop"
	CommunityWomen     CommunityType = "Women"
	CommunityYouth     CommunityType = "Youth"
	CommunityFamily    CommunityType = "Family"
	CommunityCorporate CommunityType = "Corporate"
)

// Community represents a cycling community based on the 'communities' table.
// Member count is not stored: it is resolved live from community_memberships
// at read time, so it can never drift from the authoritative records.
type Community struct {
	ID          int64         `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Type        CommunityType `json:"type" db:"type"`
	Category    []string      `json:"category" db:"category"`
	Location    *string       `json:"location,omitempty" db:"location"`
	Image       *string       `json:"image,omitempty" db:"image"`
	Logo        *string       `json:"logo,omitempty" db:"logo"`
	TrackName   *string       `json:"trackName,omitempty" db:"track_name"`
	Distance    *float64      `json:"distance,omitempty" db:"distance"`
	Terrain     *string       `json:"terrain,omitempty" db:"terrain"`
	IsActive    bool          `json:"isActive" db:"is_active"`
	IsPublic    bool          `json:"isPublic" db:"is_public"`
	IsFeatured  bool          `json:"isFeatured" db:"is_featured"`
	CreatedBy   int64         `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator     *User `json:"creator,omitempty"`
	MemberCount int   `json:"memberCount"`
}
