package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/repositories"
)

type fakeLeaderboardStore struct {
	rows []*repositories.LeaderboardRow
}

func (f *fakeLeaderboardStore) GetLeaderboardRowsByEventID(_ context.Context, _ int64) ([]*repositories.LeaderboardRow, error) {
	return f.rows, nil
}

func (f *fakeLeaderboardStore) GetLeaderboardRowsByTrackID(_ context.Context, _ int64) ([]*repositories.LeaderboardRow, error) {
	return f.rows, nil
}

func resultRow(userID int64, name string, finishTime *string, submittedAt time.Time) *repositories.LeaderboardRow {
	return &repositories.LeaderboardRow{
		FinishTime:   finishTime,
		CreatedAt:    submittedAt,
		UserID:       &userID,
		UserFullName: &name,
	}
}

func strPtr(s string) *string { return &s }

func TestEventLeaderboardCompetitionRanking(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store := &fakeLeaderboardStore{rows: []*repositories.LeaderboardRow{
		resultRow(1, "Aisha", strPtr("01:00"), base),
		resultRow(2, "Botan", strPtr("00:45"), base.Add(time.Minute)),
		resultRow(3, "Chandra", strPtr("01:00"), base.Add(2*time.Minute)),
		resultRow(4, "Dana", nil, base.Add(3*time.Minute)),
	}}
	eventStore := &fakeEventStore{events: map[int64]*models.Event{
		1: {ID: 1, Title: "Spring Century", Status: models.EventCompleted},
	}}
	svc := NewLeaderboardService(store, eventStore, nil, zerolog.Nop())

	resp, err := svc.GetEventLeaderboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 4)

	// Fastest first, tied times share a rank, the next rank skips, and the
	// untimed entry sits last.
	assert.Equal(t, "Botan", resp.Entries[0].User.FullName)
	assert.Equal(t, 1, resp.Entries[0].Rank)

	assert.Equal(t, "Aisha", resp.Entries[1].User.FullName)
	assert.Equal(t, 2, resp.Entries[1].Rank)
	assert.Equal(t, "Chandra", resp.Entries[2].User.FullName)
	assert.Equal(t, 2, resp.Entries[2].Rank)

	assert.Equal(t, "Dana", resp.Entries[3].User.FullName)
	assert.Equal(t, 4, resp.Entries[3].Rank)
	assert.Nil(t, resp.Entries[3].Time)
}

func TestEventLeaderboardMissingRelations(t *testing.T) {
	ft := strPtr("02:10:05")
	store := &fakeLeaderboardStore{rows: []*repositories.LeaderboardRow{
		{FinishTime: ft, CreatedAt: time.Now()}, // rider account deleted
	}}
	eventStore := &fakeEventStore{events: map[int64]*models.Event{
		1: {ID: 1, Status: models.EventCompleted},
	}}
	svc := NewLeaderboardService(store, eventStore, nil, zerolog.Nop())

	resp, err := svc.GetEventLeaderboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Nil(t, resp.Entries[0].User)
	assert.Equal(t, 1, resp.Entries[0].Rank)
}

func TestEventLeaderboardEmpty(t *testing.T) {
	store := &fakeLeaderboardStore{}
	eventStore := &fakeEventStore{events: map[int64]*models.Event{
		1: {ID: 1, Status: models.EventCompleted},
	}}
	svc := NewLeaderboardService(store, eventStore, nil, zerolog.Nop())

	resp, err := svc.GetEventLeaderboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, resp.Entries)
}
