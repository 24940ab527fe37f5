package dto

import "time"

// LeaderboardUser is the rider identity projection on a leaderboard row.
type LeaderboardUser struct {
	ID       int64   `json:"id"`
	FullName string  `json:"fullName"`
	Email    *string `json:"email,omitempty"`
}

// LeaderboardEvent is the event identity projection on a leaderboard row.
type LeaderboardEvent struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	EventDate time.Time `json:"eventDate"`
}

// LeaderboardEntry is one ranked row of an event or track leaderboard.
// Rank is computed on every read and never stored. User and Event may be
// empty when the related record no longer exists; a missing relation drops
// the projection, not the row.
type LeaderboardEntry struct {
	Distance  *float64          `json:"distance,omitempty"`
	Time      *string           `json:"time,omitempty"`
	Rank      int               `json:"rank"`
	CreatedAt time.Time         `json:"createdAt"`
	User      *LeaderboardUser  `json:"user,omitempty"`
	Event     *LeaderboardEvent `json:"event,omitempty"`

	// Seconds is the parsed elapsed time used for ordering; untimed entries
	// carry the maximum sentinel so they sort last.
	Seconds int64 `json:"-"`
}

// ElapsedSeconds implements ranking.Entry.
func (e *LeaderboardEntry) ElapsedSeconds() int64 { return e.Seconds }

// SetRank implements ranking.Entry.
func (e *LeaderboardEntry) SetRank(rank int) { e.Rank = rank }

// LeaderboardResponse is the ordered leaderboard of an event or track.
type LeaderboardResponse struct {
	Entries []*LeaderboardEntry `json:"entries"`
}
