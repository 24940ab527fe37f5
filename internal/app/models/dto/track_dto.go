package dto

import (
	"time"

	"github.com/veloclub/veloclub/internal/app/models"
)

// CreateTrackRequest represents track creation data
type CreateTrackRequest struct {
	Title       string   `json:"title" binding:"required,min=2,max=150"`
	Description string   `json:"description" binding:"required"`
	Image       *string  `json:"image,omitempty"`
	City        string   `json:"city" binding:"required"`
	Address     *string  `json:"address,omitempty"`
	Zipcode     *string  `json:"zipcode,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	Distance    float64  `json:"distance" binding:"required,gt=0"`
	Elevation   string   `json:"elevation" binding:"required"`
	Type        string   `json:"type" binding:"required,oneof=loop road mixed out-and-back point-to-point"`
	AvgTime     string   `json:"avgTime" binding:"required"`
	Pace        string   `json:"pace" binding:"required"`
	Facilities  []string `json:"facilities,omitempty" binding:"omitempty,dive,oneof=water toilets parking lights"`
}

// UpdateTrackRequest represents track update data; nil fields are unchanged.
type UpdateTrackRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=2,max=150"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	City        *string  `json:"city,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Zipcode     *string  `json:"zipcode,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	Distance    *float64 `json:"distance,omitempty" binding:"omitempty,gt=0"`
	Elevation   *string  `json:"elevation,omitempty"`
	Type        *string  `json:"type,omitempty" binding:"omitempty,oneof=loop road mixed out-and-back point-to-point"`
	AvgTime     *string  `json:"avgTime,omitempty"`
	Pace        *string  `json:"pace,omitempty"`
	Facilities  []string `json:"facilities,omitempty" binding:"omitempty,dive,oneof=water toilets parking lights"`
}

// TrackFilterRequest carries list filters and pagination
type TrackFilterRequest struct {
	City     *string
	Type     *string
	Page     int
	PageSize int
}

// TrackResponse represents track information
type TrackResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty"`
	City        string    `json:"city"`
	Address     *string   `json:"address,omitempty"`
	Zipcode     *string   `json:"zipcode,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Distance    float64   `json:"distance"`
	Elevation   string    `json:"elevation"`
	Type        string    `json:"type"`
	AvgTime     string    `json:"avgTime"`
	Pace        string    `json:"pace"`
	Facilities  []string  `json:"facilities"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TrackListResponse is a paginated list of tracks
type TrackListResponse struct {
	Tracks         []TrackResponse `json:"tracks"`
	PaginationInfo PaginationInfo  `json:"pagination"`
}

// NewTrackResponse maps a track model to its response DTO.
func NewTrackResponse(t *models.Track) TrackResponse {
	return TrackResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Image:       t.Image,
		City:        t.City,
		Address:     t.Address,
		Zipcode:     t.Zipcode,
		Latitude:    t.Latitude,
		Longitude:   t.Longitude,
		Distance:    t.Distance,
		Elevation:   t.Elevation,
		Type:        string(t.Type),
		AvgTime:     t.AvgTime,
		Pace:        t.Pace,
		Facilities:  t.Facilities,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
