package models

import "time"

// TrackType describes the shape of a track route.
type TrackType string

const (
	TrackLoop         TrackType = "loop"
	TrackRoad         TrackType = "road"
	TrackMixed        TrackType = "mixed"
	TrackOutAndBack   TrackType = "out-and-back"
	TrackPointToPoint TrackType = "point-to-point"
)

// Track represents a cycling track based on the 'tracks' table.
type Track struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Image       *string   `json:"image,omitempty" db:"image"`
	City        string    `json:"city" db:"city"`
	Address     *string   `json:"address,omitempty" db:"address"`
	Zipcode     *string   `json:"zipcode,omitempty" db:"zipcode"`
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude"`
	Distance    float64   `json:"distance" db:"distance"`
	Elevation   string    `json:"elevation" db:"elevation"`
	Type        TrackType `json:"type" db:"type"`
	AvgTime     string    `json:"avgTime" db:"avg_time"`
	Pace        string    `json:"pace" db:"pace"`
	Facilities  []string  `json:"facilities" db:"facilities"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
