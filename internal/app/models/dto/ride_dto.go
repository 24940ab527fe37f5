package dto

import (
	"time"

	"github.com/veloclub/veloclub/internal/app/models"
)

// CreateRideRequest represents community ride creation data
type CreateRideRequest struct {
	Title       string   `json:"title" binding:"required,min=2,max=150"`
	Description string   `json:"description" binding:"required"`
	RideDate    string   `json:"rideDate" binding:"required"` // RFC 3339 or YYYY-MM-DD
	StartPoint  string   `json:"startPoint" binding:"required"`
	Distance    *float64 `json:"distance,omitempty" binding:"omitempty,gte=0"`
	Pace        *string  `json:"pace,omitempty"`
}

// UpdateRideRequest represents community ride update data
type UpdateRideRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=2,max=150"`
	Description *string  `json:"description,omitempty"`
	RideDate    *string  `json:"rideDate,omitempty"`
	StartPoint  *string  `json:"startPoint,omitempty"`
	Distance    *float64 `json:"distance,omitempty" binding:"omitempty,gte=0"`
	Pace        *string  `json:"pace,omitempty"`
	Status      *string  `json:"status,omitempty" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

// RideFilterRequest carries list filters and pagination
type RideFilterRequest struct {
	Status   *string
	Page     int
	PageSize int
}

// RideResponse represents community ride information
type RideResponse struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	RideDate    time.Time          `json:"rideDate"`
	StartPoint  string             `json:"startPoint"`
	Distance    *float64           `json:"distance,omitempty"`
	Pace        *string            `json:"pace,omitempty"`
	Status      string             `json:"status"`
	Creator     *UserBasicResponse `json:"creator,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// RideListResponse is a paginated list of community rides
type RideListResponse struct {
	Rides          []RideResponse `json:"rides"`
	PaginationInfo PaginationInfo `json:"pagination"`
}

// NewRideResponse maps a ride model to its response DTO.
func NewRideResponse(r *models.Ride) RideResponse {
	resp := RideResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		RideDate:    r.RideDate,
		StartPoint:  r.StartPoint,
		Distance:    r.Distance,
		Pace:        r.Pace,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Creator != nil {
		resp.Creator = &UserBasicResponse{
			ID:       r.Creator.ID,
			FullName: r.Creator.FullName,
			Email:    r.Creator.Email,
		}
	}
	return resp
}
