package models

import "time"

// ParticipationStatus is the state of a user's relationship to an event.
//
// Allowed transitions: joined -> cancelled, joined -> completed,
// cancelled -> joined (rejoin). Completed is terminal: it can neither be
// cancelled nor rejoined.
type ParticipationStatus string

const (
	ParticipationJoined    ParticipationStatus = "joined"
	ParticipationCancelled ParticipationStatus = "cancelled"
	ParticipationCompleted ParticipationStatus = "completed"
)

// Participation records a user's entry in an event based on the
// 'event_participations' table. At most one row exists per
// (event_id, user_id) pair; cancelling flips the status instead of deleting
// the row.
type Participation struct {
	ID          int64               `json:"id" db:"id"`
	EventID     int64               `json:"eventId" db:"event_id"`
	UserID      int64               `json:"userId" db:"user_id"`
	Status      ParticipationStatus `json:"status" db:"status"`
	Distance    *float64            `json:"distance,omitempty" db:"distance"`
	FinishTime  *string             `json:"finishTime,omitempty" db:"finish_time"` // elapsed HH:MM[:SS]
	Reason      *string             `json:"reason,omitempty" db:"reason"`
	CompletedAt *time.Time          `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt   time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time           `json:"updatedAt" db:"updated_at"`

	// Related entities
	User  *User  `json:"user,omitempty"`
	Event *Event `json:"event,omitempty"`
}
