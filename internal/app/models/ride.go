package models

import "time"

// Ride represents a scheduled community ride based on the 'rides' table.
type Ride struct {
	ID          int64       `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	RideDate    time.Time   `json:"rideDate" db:"ride_date"`
	StartPoint  string      `json:"startPoint" db:"start_point"`
	Distance    *float64    `json:"distance,omitempty" db:"distance"`
	Pace        *string     `json:"pace,omitempty" db:"pace"`
	Status      EventStatus `json:"status" db:"status"`
	CreatedBy   int64       `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator *User `json:"creator,omitempty"`
}
