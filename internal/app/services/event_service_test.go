package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
)

type fakeEventStore struct {
	events map[int64]*models.Event
}

func (f *fakeEventStore) CreateEvent(_ context.Context, event *models.Event) (int64, error) {
	id := int64(len(f.events) + 1)
	event.ID = id
	f.events[id] = event
	return id, nil
}

func (f *fakeEventStore) GetEventByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventStore) ListEvents(_ context.Context, _ *dto.EventFilterRequest, _, _ int) ([]*models.Event, int64, error) {
	return nil, 0, nil
}

func (f *fakeEventStore) UpdateEvent(_ context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventStore) DeleteEvent(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeParticipationStore mimics the repository's status-guarded transitions.
type fakeParticipationStore struct {
	rows map[[2]int64]*models.Participation
	next int64
}

func newFakeParticipationStore() *fakeParticipationStore {
	return &fakeParticipationStore{rows: make(map[[2]int64]*models.Participation)}
}

func (f *fakeParticipationStore) GetParticipation(_ context.Context, eventID, userID int64) (*models.Participation, error) {
	row, ok := f.rows[[2]int64{eventID, userID}]
	if !ok {
		return nil, apperrors.ErrParticipationNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeParticipationStore) Join(_ context.Context, eventID, userID int64) (*models.Participation, error) {
	k := [2]int64{eventID, userID}
	row, ok := f.rows[k]
	if !ok {
		f.next++
		row = &models.Participation{
			ID:      f.next,
			EventID: eventID,
			UserID:  userID,
			Status:  models.ParticipationJoined,
		}
		f.rows[k] = row
		copied := *row
		return &copied, nil
	}
	switch row.Status {
	case models.ParticipationCancelled:
		row.Status = models.ParticipationJoined
		row.Reason = nil
		copied := *row
		return &copied, nil
	case models.ParticipationCompleted:
		return nil, apperrors.ErrRejoinCompleted
	}
	return nil, apperrors.ErrResourceAlreadyExists
}

func (f *fakeParticipationStore) Cancel(_ context.Context, eventID, userID int64, reason string) (*models.Participation, error) {
	row, ok := f.rows[[2]int64{eventID, userID}]
	if !ok {
		return nil, apperrors.ErrParticipationNotFound
	}
	switch row.Status {
	case models.ParticipationCancelled:
		return nil, apperrors.ErrAlreadyCancelled
	case models.ParticipationCompleted:
		return nil, apperrors.ErrCancelCompleted
	}
	row.Status = models.ParticipationCancelled
	row.Reason = &reason
	copied := *row
	return &copied, nil
}

func (f *fakeParticipationStore) SubmitResult(_ context.Context, eventID, userID int64, distance *float64, finishTime string) (*models.Participation, error) {
	row, ok := f.rows[[2]int64{eventID, userID}]
	if !ok {
		return nil, apperrors.ErrParticipationNotFound
	}
	if row.Status == models.ParticipationCompleted {
		return nil, apperrors.ErrResultAlreadySubmitted
	}
	if row.Status != models.ParticipationJoined {
		return nil, apperrors.ErrParticipationNotFound
	}
	now := time.Now()
	row.Status = models.ParticipationCompleted
	row.Distance = distance
	row.FinishTime = &finishTime
	row.CompletedAt = &now
	copied := *row
	return &copied, nil
}

func (f *fakeParticipationStore) GetParticipationsByUserID(_ context.Context, userID int64) ([]*models.Participation, error) {
	var out []*models.Participation
	for _, row := range f.rows {
		if row.UserID == userID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeParticipationStore) CountJoinedByEventID(_ context.Context, eventID int64) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.EventID == eventID && row.Status == models.ParticipationJoined {
			count++
		}
	}
	return count, nil
}

func newEventFixture() (EventService, *fakeEventStore, *fakeParticipationStore) {
	two := 2
	eventStore := &fakeEventStore{events: map[int64]*models.Event{
		1: {ID: 1, Title: "Spring Century", Status: models.EventUpcoming},
		2: {ID: 2, Title: "Cancelled Classic", Status: models.EventCancelled},
		3: {ID: 3, Title: "Small Gravel Loop", Status: models.EventUpcoming, MaxParticipants: &two},
	}}
	participationStore := newFakeParticipationStore()
	svc := NewEventService(eventStore, participationStore, nil, zerolog.Nop())
	return svc, eventStore, participationStore
}

func TestJoinEventLifecycle(t *testing.T) {
	svc, _, _ := newEventFixture()
	ctx := context.Background()

	joined, err := svc.JoinEvent(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.ParticipationJoined), joined.Status)

	// Second join of the same event conflicts
	_, err = svc.JoinEvent(ctx, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestJoinEventClosedForRegistration(t *testing.T) {
	svc, _, _ := newEventFixture()

	_, err := svc.JoinEvent(context.Background(), 2, 10)
	require.Error(t, err)
}

func TestJoinEventEnforcesCap(t *testing.T) {
	svc, _, _ := newEventFixture()
	ctx := context.Background()

	_, err := svc.JoinEvent(ctx, 3, 10)
	require.NoError(t, err)
	_, err = svc.JoinEvent(ctx, 3, 11)
	require.NoError(t, err)

	_, err = svc.JoinEvent(ctx, 3, 12)
	require.Error(t, err)
}

func TestCancelParticipationRequiresReason(t *testing.T) {
	svc, _, _ := newEventFixture()
	ctx := context.Background()

	_, err := svc.JoinEvent(ctx, 1, 10)
	require.NoError(t, err)

	_, err = svc.CancelParticipation(ctx, 1, 10, &dto.CancelParticipationRequest{})
	assert.ErrorIs(t, err, apperrors.ErrReasonRequired)

	cancelled, err := svc.CancelParticipation(ctx, 1, 10, &dto.CancelParticipationRequest{Reason: "injury"})
	require.NoError(t, err)
	assert.Equal(t, string(models.ParticipationCancelled), cancelled.Status)
	require.NotNil(t, cancelled.Reason)
	assert.Equal(t, "injury", *cancelled.Reason)
}

func TestCancelParticipationGuards(t *testing.T) {
	svc, _, _ := newEventFixture()
	ctx := context.Background()
	req := &dto.CancelParticipationRequest{Reason: "schedule conflict"}

	// Cancelling without joining
	_, err := svc.CancelParticipation(ctx, 1, 10, req)
	assert.ErrorIs(t, err, apperrors.ErrParticipationNotFound)

	_, err = svc.JoinEvent(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.CancelParticipation(ctx, 1, 10, req)
	require.NoError(t, err)

	// Cancelling twice
	_, err = svc.CancelParticipation(ctx, 1, 10, req)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCancelled)
}

func TestRejoinAfterCancel(t *testing.T) {
	svc, _, _ := newEventFixture()
	ctx := context.Background()

	_, err := svc.JoinEvent(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.CancelParticipation(ctx, 1, 10, &dto.CancelParticipationRequest{Reason: "weather"})
	require.NoError(t, err)

	rejoined, err := svc.JoinEvent(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.ParticipationJoined), rejoined.Status)
	assert.Nil(t, rejoined.Reason)
}

func TestSubmitResultCompletesParticipation(t *testing.T) {
	svc, _, store := newEventFixture()
	ctx := context.Background()

	_, err := svc.JoinEvent(ctx, 1, 10)
	require.NoError(t, err)

	distance := 42.5
	completed, err := svc.SubmitResult(ctx, 1, 10, &dto.SubmitResultRequest{Distance: &distance, Time: "01:30:45"})
	require.NoError(t, err)
	assert.Equal(t, string(models.ParticipationCompleted), completed.Status)
	require.NotNil(t, completed.FinishTime)
	assert.Equal(t, "01:30:45", *completed.FinishTime)
	assert.NotNil(t, completed.CompletedAt)

	// Completed is terminal: no second result, no cancel, no rejoin
	_, err = svc.SubmitResult(ctx, 1, 10, &dto.SubmitResultRequest{Time: "01:20"})
	assert.ErrorIs(t, err, apperrors.ErrResultAlreadySubmitted)

	_, err = svc.CancelParticipation(ctx, 1, 10, &dto.CancelParticipationRequest{Reason: "mistake"})
	assert.ErrorIs(t, err, apperrors.ErrCancelCompleted)

	_, err = svc.JoinEvent(ctx, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrRejoinCompleted)

	row, err := store.GetParticipation(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationCompleted, row.Status)
}

func TestSubmitResultRejectsMalformedTime(t *testing.T) {
	svc, _, _ := newEventFixture()
	ctx := context.Background()

	_, err := svc.JoinEvent(ctx, 1, 10)
	require.NoError(t, err)

	for _, bad := range []string{"", "90 minutes", "1:2:3:4"} {
		_, err := svc.SubmitResult(ctx, 1, 10, &dto.SubmitResultRequest{Time: bad})
		assert.Error(t, err, "time %q should be rejected", bad)
	}
}

func TestGetMemberEventStatus(t *testing.T) {
	svc, _, _ := newEventFixture()
	ctx := context.Background()

	status, err := svc.GetMemberEventStatus(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "not_joined", status.Status)
	assert.Nil(t, status.Participation)
	assert.Equal(t, "Spring Century", status.Event.Title)

	_, err = svc.JoinEvent(ctx, 1, 10)
	require.NoError(t, err)

	status, err = svc.GetMemberEventStatus(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.ParticipationJoined), status.Status)
	require.NotNil(t, status.Participation)
}
