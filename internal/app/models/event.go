package models

import "time"

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event represents a scheduled ride or activity based on the 'events' table.
type Event struct {
	ID              int64       `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description" db:"description"`
	Category        string      `json:"category" db:"category"`
	EventType       string      `json:"eventType" db:"event_type"`
	EventDate       time.Time   `json:"eventDate" db:"event_date"`
	EventTime       string      `json:"eventTime" db:"event_time"`
	Location        string      `json:"location" db:"location"`
	Distance        *string     `json:"distance,omitempty" db:"distance"`
	Surface         *string     `json:"surface,omitempty" db:"surface"`
	Pace            *string     `json:"pace,omitempty" db:"pace"`
	Amenities       []string    `json:"amenities" db:"amenities"`
	Eligibility     string      `json:"eligibility" db:"eligibility"`
	MaxParticipants *int        `json:"maxParticipants,omitempty" db:"max_participants"`
	Status          EventStatus `json:"status" db:"status"`
	IsFree          bool        `json:"isFree" db:"is_free"`
	TrackID         *int64      `json:"trackId,omitempty" db:"track_id"`
	CommunityID     *int64      `json:"communityId,omitempty" db:"community_id"`
	CreatedBy       int64       `json:"createdBy" db:"created_by"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator *User `json:"creator,omitempty"`
}
