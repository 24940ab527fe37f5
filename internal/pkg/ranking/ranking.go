// Package ranking computes leaderboard orderings from free-text elapsed times.
//
// Rank is never persisted; callers re-rank the current result set on every
// read. Ties share a rank and the rank after a tie group jumps by the group
// size (competition ranking).
package ranking

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// UntimedSeconds is the sentinel elapsed time for entries without a usable
// time value. It sorts after every real time, so untimed entries always rank
// last deterministically.
const UntimedSeconds int64 = math.MaxInt64

// maxFieldValue bounds each parsed time field so the total can never
// overflow int64 or compare above UntimedSeconds.
const maxFieldValue int64 = 1 << 31

// ParseElapsed converts an elapsed-time string in HH:MM or HH:MM:SS form to
// total seconds. Empty or malformed values yield UntimedSeconds rather than
// an error: a rider with an unreadable time still appears on the board, at
// the bottom.
func ParseElapsed(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return UntimedSeconds
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return UntimedSeconds
	}

	var fields [3]int64
	for i, part := range parts {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n < 0 || n > maxFieldValue {
			return UntimedSeconds
		}
		fields[i] = n
	}

	return fields[0]*3600 + fields[1]*60 + fields[2]
}

// Entry is a single ranked row. Seconds is the computed elapsed time and
// Rank is filled in by Apply.
type Entry interface {
	ElapsedSeconds() int64
	SetRank(rank int)
}

// Apply sorts entries ascending by elapsed seconds (stable, so equal times
// keep their input order) and assigns competition ranks in place.
func Apply[E Entry](entries []E) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ElapsedSeconds() < entries[j].ElapsedSeconds()
	})

	rank := 0
	for i, entry := range entries {
		if i == 0 || entry.ElapsedSeconds() != entries[i-1].ElapsedSeconds() {
			rank = i + 1
		}
		entry.SetRank(rank)
	}
}