package models

import "time"

// MembershipStatus is the lifecycle state of a community membership.
type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "active"
	MembershipInactive MembershipStatus = "inactive"
	MembershipBanned   MembershipStatus = "banned"
)

// MembershipRole is the member's role inside a community, distinct from the
// platform RoleType.
type MembershipRole string

const (
	CommunityMember    MembershipRole = "member"
	CommunityModerator MembershipRole = "moderator"
	CommunityAdmin     MembershipRole = "admin"
)

// Membership relates a user to a community, based on the
// 'community_memberships' table. At most one row exists per
// (community_id, user_id) pair; leaving a community flips the status instead
// of deleting the row, which preserves join history and the contribution
// counter.
type Membership struct {
	ID           int64            `json:"id" db:"id"`
	CommunityID  int64            `json:"communityId" db:"community_id"`
	UserID       int64            `json:"userId" db:"user_id"`
	Role         MembershipRole   `json:"role" db:"role"`
	Status       MembershipStatus `json:"status" db:"status"`
	JoinedAt     time.Time        `json:"joinedAt" db:"joined_at"`
	Contribution int              `json:"contribution" db:"contribution"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time        `json:"updatedAt" db:"updated_at"`

	// Related entities
	User      *User      `json:"user,omitempty"`
	Community *Community `json:"community,omitempty"`
}
