package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	name    string
	seconds int64
	rank    int
}

func (e *testEntry) ElapsedSeconds() int64 { return e.seconds }
func (e *testEntry) SetRank(rank int)      { e.rank = rank }

func TestParseElapsed(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int64
	}{
		{"hours and minutes", "01:30", 5400},
		{"full form with seconds", "01:30:45", 5445},
		{"seconds are not discarded", "00:00:59", 59},
		{"zero time", "00:00", 0},
		{"large hours", "100:00", 360000},
		{"surrounding whitespace", " 00:45 ", 2700},
		{"empty string", "", UntimedSeconds},
		{"blank string", "   ", UntimedSeconds},
		{"single field", "90", UntimedSeconds},
		{"too many fields", "01:02:03:04", UntimedSeconds},
		{"non-numeric minutes", "01:xx", UntimedSeconds},
		{"negative component", "01:-5", UntimedSeconds},
		{"hours overflowing seconds math", "2562047788015215:30", UntimedSeconds},
		{"every field absurdly large", "9223372036854775807:9223372036854775807:9223372036854775807", UntimedSeconds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseElapsed(tt.value))
		})
	}
}

func TestApplyCompetitionRanking(t *testing.T) {
	entries := []*testEntry{
		{name: "a", seconds: ParseElapsed("01:00")},
		{name: "b", seconds: ParseElapsed("01:00")},
		{name: "c", seconds: ParseElapsed("00:45")},
		{name: "d", seconds: ParseElapsed("")},
	}

	Apply(entries)

	require.Len(t, entries, 4)
	// fastest first
	assert.Equal(t, "c", entries[0].name)
	assert.Equal(t, 1, entries[0].rank)
	// the tie shares rank 2
	assert.Equal(t, 2, entries[1].rank)
	assert.Equal(t, 2, entries[2].rank)
	// the untimed entry is last and the rank after the tie accounts for its size
	assert.Equal(t, "d", entries[3].name)
	assert.Equal(t, 4, entries[3].rank)
}

func TestApplyStableForEqualTimes(t *testing.T) {
	entries := []*testEntry{
		{name: "first", seconds: 600},
		{name: "second", seconds: 600},
		{name: "third", seconds: 600},
	}

	Apply(entries)

	// equal times keep their input order and all share rank 1
	for i, want := range []string{"first", "second", "third"} {
		assert.Equal(t, want, entries[i].name)
		assert.Equal(t, 1, entries[i].rank)
	}
}

func TestApplyEmpty(t *testing.T) {
	var entries []*testEntry
	assert.NotPanics(t, func() { Apply(entries) })
	assert.Empty(t, entries)
}
