package dto

import (
	"time"

	"github.com/veloclub/veloclub/internal/app/models"
)

// --- Request DTOs ---

// CreateEventRequest represents event creation data
type CreateEventRequest struct {
	Title           string   `json:"title" binding:"required,min=2,max=150"`
	Description     string   `json:"description" binding:"required"`
	Category        string   `json:"category" binding:"required"`
	EventType       string   `json:"eventType" binding:"required"`
	EventDate       string   `json:"eventDate" binding:"required"` // RFC 3339 or YYYY-MM-DD
	EventTime       string   `json:"eventTime" binding:"required"`
	Location        string   `json:"location" binding:"required"`
	Distance        *string  `json:"distance,omitempty"`
	Surface         *string  `json:"surface,omitempty"`
	Pace            *string  `json:"pace,omitempty"`
	Amenities       []string `json:"amenities,omitempty"`
	Eligibility     string   `json:"eligibility" binding:"required"`
	MaxParticipants *int     `json:"maxParticipants,omitempty" binding:"omitempty,gt=0"`
	IsFree          *bool    `json:"isFree,omitempty"`
	TrackID         *int64   `json:"trackId,omitempty" binding:"omitempty,gt=0"`
	CommunityID     *int64   `json:"communityId,omitempty" binding:"omitempty,gt=0"`
}

// UpdateEventRequest represents event update data; nil fields are unchanged.
type UpdateEventRequest struct {
	Title           *string  `json:"title,omitempty" binding:"omitempty,min=2,max=150"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	EventType       *string  `json:"eventType,omitempty"`
	EventDate       *string  `json:"eventDate,omitempty"`
	EventTime       *string  `json:"eventTime,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Distance        *string  `json:"distance,omitempty"`
	Surface         *string  `json:"surface,omitempty"`
	Pace            *string  `json:"pace,omitempty"`
	Amenities       []string `json:"amenities,omitempty"`
	Eligibility     *string  `json:"eligibility,omitempty"`
	MaxParticipants *int     `json:"maxParticipants,omitempty" binding:"omitempty,gt=0"`
	Status          *string  `json:"status,omitempty" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
	IsFree          *bool    `json:"isFree,omitempty"`
	TrackID         *int64   `json:"trackId,omitempty" binding:"omitempty,gt=0"`
	CommunityID     *int64   `json:"communityId,omitempty" binding:"omitempty,gt=0"`
}

// EventFilterRequest carries list filters and pagination
type EventFilterRequest struct {
	Status      *string
	Category    *string
	TrackID     *int64
	CommunityID *int64
	Page        int
	PageSize    int
}

// CancelParticipationRequest carries the mandatory cancellation reason.
type CancelParticipationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SubmitResultRequest records a finished ride.
type SubmitResultRequest struct {
	Distance *float64 `json:"distance,omitempty" binding:"omitempty,gte=0"`
	Time     string   `json:"time" binding:"required"` // elapsed HH:MM[:SS]
}

// --- Response DTOs ---

// EventResponse represents event information
type EventResponse struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	EventType       string             `json:"eventType"`
	EventDate       time.Time          `json:"eventDate"`
	EventTime       string             `json:"eventTime"`
	Location        string             `json:"location"`
	Distance        *string            `json:"distance,omitempty"`
	Surface         *string            `json:"surface,omitempty"`
	Pace            *string            `json:"pace,omitempty"`
	Amenities       []string           `json:"amenities"`
	Eligibility     string             `json:"eligibility"`
	MaxParticipants *int               `json:"maxParticipants,omitempty"`
	Status          string             `json:"status"`
	IsFree          bool               `json:"isFree"`
	TrackID         *int64             `json:"trackId,omitempty"`
	CommunityID     *int64             `json:"communityId,omitempty"`
	Creator         *UserBasicResponse `json:"creator,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// EventListResponse is a paginated list of events
type EventListResponse struct {
	Events         []EventResponse `json:"events"`
	PaginationInfo PaginationInfo  `json:"pagination"`
}

// ParticipationResponse represents a user's participation in an event
type ParticipationResponse struct {
	ID          int64      `json:"id"`
	EventID     int64      `json:"eventId"`
	UserID      int64      `json:"userId"`
	Status      string     `json:"status"`
	Distance    *float64   `json:"distance,omitempty"`
	FinishTime  *string    `json:"finishTime,omitempty"`
	Reason      *string    `json:"reason,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MemberEventStatusResponse reports whether and how the caller participates
// in an event.
type MemberEventStatusResponse struct {
	EventID       int64                  `json:"eventId"`
	UserID        int64                  `json:"userId"`
	Status        string                 `json:"status"` // not_joined, joined, cancelled, completed
	Participation *ParticipationResponse `json:"participation,omitempty"`
	Event         EventSummary           `json:"event"`
}

// EventSummary is the compact event projection used in status responses.
type EventSummary struct {
	Title     string    `json:"title"`
	EventDate time.Time `json:"eventDate"`
	Status    string    `json:"status"`
}

// CalendarLinkResponse carries a prefilled calendar URL for an event.
type CalendarLinkResponse struct {
	GoogleCalendarURL string `json:"googleCalendarUrl"`
}

// NewEventResponse maps an event model to its response DTO.
func NewEventResponse(e *models.Event) EventResponse {
	resp := EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Category:        e.Category,
		EventType:       e.EventType,
		EventDate:       e.EventDate,
		EventTime:       e.EventTime,
		Location:        e.Location,
		Distance:        e.Distance,
		Surface:         e.Surface,
		Pace:            e.Pace,
		Amenities:       e.Amenities,
		Eligibility:     e.Eligibility,
		MaxParticipants: e.MaxParticipants,
		Status:          string(e.Status),
		IsFree:          e.IsFree,
		TrackID:         e.TrackID,
		CommunityID:     e.CommunityID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if e.Creator != nil {
		resp.Creator = &UserBasicResponse{
			ID:       e.Creator.ID,
			FullName: e.Creator.FullName,
			Email:    e.Creator.Email,
		}
	}
	return resp
}

// NewParticipationResponse maps a participation model to its response DTO.
func NewParticipationResponse(p *models.Participation) ParticipationResponse {
	return ParticipationResponse{
		ID:          p.ID,
		EventID:     p.EventID,
		UserID:      p.UserID,
		Status:      string(p.Status),
		Distance:    p.Distance,
		FinishTime:  p.FinishTime,
		Reason:      p.Reason,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
