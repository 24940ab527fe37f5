package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
)

// fakeMembershipStore mimics the repository's flip-on-upsert semantics in
// memory: one row per (community, user), never deleted.
type fakeMembershipStore struct {
	rows map[[2]int64]*models.Membership
	next int64
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{rows: make(map[[2]int64]*models.Membership)}
}

func (f *fakeMembershipStore) key(communityID, userID int64) [2]int64 {
	return [2]int64{communityID, userID}
}

func (f *fakeMembershipStore) Toggle(_ context.Context, communityID, userID int64) (*models.Membership, error) {
	k := f.key(communityID, userID)
	row, ok := f.rows[k]
	if !ok {
		f.next++
		row = &models.Membership{
			ID:          f.next,
			CommunityID: communityID,
			UserID:      userID,
			Role:        models.CommunityMember,
			Status:      models.MembershipActive,
			JoinedAt:    time.Now(),
		}
		f.rows[k] = row
		copied := *row
		return &copied, nil
	}
	switch row.Status {
	case models.MembershipActive:
		row.Status = models.MembershipInactive
	case models.MembershipInactive:
		row.Status = models.MembershipActive
	case models.MembershipBanned:
		return nil, apperrors.ErrMemberBanned
	}
	copied := *row
	return &copied, nil
}

func (f *fakeMembershipStore) Deactivate(_ context.Context, communityID, userID int64) (bool, error) {
	row, ok := f.rows[f.key(communityID, userID)]
	if !ok || row.Status != models.MembershipActive {
		return false, nil
	}
	row.Status = models.MembershipInactive
	return true, nil
}

func (f *fakeMembershipStore) SetStatus(_ context.Context, communityID, userID int64, status models.MembershipStatus) (*models.Membership, error) {
	row, ok := f.rows[f.key(communityID, userID)]
	if !ok {
		return nil, apperrors.ErrMembershipNotFound
	}
	row.Status = status
	copied := *row
	return &copied, nil
}

func (f *fakeMembershipStore) IsActiveMember(_ context.Context, communityID, userID int64) (bool, error) {
	row, ok := f.rows[f.key(communityID, userID)]
	return ok && row.Status == models.MembershipActive, nil
}

func (f *fakeMembershipStore) GetMembership(_ context.Context, communityID, userID int64) (*models.Membership, error) {
	row, ok := f.rows[f.key(communityID, userID)]
	if !ok {
		return nil, apperrors.ErrMembershipNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeMembershipStore) GetMembersByCommunityID(_ context.Context, communityID int64, status models.MembershipStatus, offset, limit int) ([]*models.Membership, error) {
	var members []*models.Membership
	for _, row := range f.rows {
		if row.CommunityID == communityID && row.Status == status {
			copied := *row
			members = append(members, &copied)
		}
	}
	if offset >= len(members) {
		return nil, nil
	}
	members = members[offset:]
	if limit < len(members) {
		members = members[:limit]
	}
	return members, nil
}

func (f *fakeMembershipStore) CountMembersByStatus(_ context.Context, communityID int64, status models.MembershipStatus) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.CommunityID == communityID && row.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeMembershipStore) GetCommunitiesByUserID(_ context.Context, userID int64) ([]*models.Community, error) {
	return nil, nil
}

type fakeCommunityStore struct {
	communities map[int64]*models.Community
}

func (f *fakeCommunityStore) GetCommunityByID(_ context.Context, id int64) (*models.Community, error) {
	c, ok := f.communities[id]
	if !ok {
		return nil, apperrors.ErrCommunityNotFound
	}
	copied := *c
	return &copied, nil
}

// fakeAuthorizer approves every actor except the ids it is told to deny.
type fakeAuthorizer struct {
	denied map[int64]bool
}

func (f *fakeAuthorizer) ValidateModerator(_ context.Context, userID int64) error {
	if f.denied[userID] {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

func newMembershipFixture() (MembershipService, *fakeMembershipStore) {
	store := newFakeMembershipStore()
	communities := &fakeCommunityStore{communities: map[int64]*models.Community{
		1: {ID: 1, Title: "Desert Riders", IsActive: true},
		2: {ID: 2, Title: "Closed Club", IsActive: false},
	}}
	svc := NewMembershipService(store, communities, &fakeAuthorizer{}, nil, zerolog.Nop())
	return svc, store
}

func TestToggleMembershipJoinThenLeave(t *testing.T) {
	svc, store := newMembershipFixture()
	ctx := context.Background()

	joined, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.MembershipActive), joined.Status)

	count, err := store.CountMembersByStatus(ctx, 1, models.MembershipActive)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	left, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.MembershipInactive), left.Status)

	count, err = store.CountMembersByStatus(ctx, 1, models.MembershipActive)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// One row per pair regardless of how many toggles happened
	assert.Len(t, store.rows, 1)
}

func TestToggleMembershipRejoinKeepsSingleRow(t *testing.T) {
	svc, store := newMembershipFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.ToggleMembership(ctx, 1, 10)
		require.NoError(t, err)
	}
	assert.Len(t, store.rows, 1)

	// Odd number of toggles ends active
	m, err := store.GetMembership(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, m.Status)
}

func TestToggleMembershipBannedMemberRejected(t *testing.T) {
	svc, store := newMembershipFixture()
	ctx := context.Background()

	_, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)
	_, err = store.SetStatus(ctx, 1, 10, models.MembershipBanned)
	require.NoError(t, err)

	_, err = svc.ToggleMembership(ctx, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrMemberBanned)

	// The ban survives the attempt
	m, err := store.GetMembership(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipBanned, m.Status)
}

func TestToggleMembershipInactiveCommunity(t *testing.T) {
	svc, _ := newMembershipFixture()

	_, err := svc.ToggleMembership(context.Background(), 2, 10)
	assert.ErrorIs(t, err, apperrors.ErrCommunityInactive)
}

func TestToggleMembershipUnknownCommunity(t *testing.T) {
	svc, _ := newMembershipFixture()

	_, err := svc.ToggleMembership(context.Background(), 99, 10)
	assert.ErrorIs(t, err, apperrors.ErrCommunityNotFound)
}

func TestLeaveCommunityIsIdempotent(t *testing.T) {
	svc, _ := newMembershipFixture()
	ctx := context.Background()

	_, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)

	first, err := svc.LeaveCommunity(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.MembershipInactive), first.Membership.Status)
	assert.Equal(t, 0, first.Community.MemberCount)

	second, err := svc.LeaveCommunity(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.MembershipInactive), second.Membership.Status)
	assert.Equal(t, 0, second.Community.MemberCount)
}

func TestIsMemberTracksMembershipState(t *testing.T) {
	svc, _ := newMembershipFixture()
	ctx := context.Background()

	resp, err := svc.IsMember(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, resp.IsMember)

	_, err = svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)

	resp, err = svc.IsMember(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, resp.IsMember)

	_, err = svc.LeaveCommunity(ctx, 1, 10)
	require.NoError(t, err)

	resp, err = svc.IsMember(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, resp.IsMember)
}

func TestIsMemberBannedReadsAsFalse(t *testing.T) {
	svc, store := newMembershipFixture()
	ctx := context.Background()

	_, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)
	_, err = store.SetStatus(ctx, 1, 10, models.MembershipBanned)
	require.NoError(t, err)

	resp, err := svc.IsMember(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, resp.IsMember)
}

func TestIsMemberUnknownCommunity(t *testing.T) {
	svc, _ := newMembershipFixture()

	_, err := svc.IsMember(context.Background(), 99, 10)
	assert.ErrorIs(t, err, apperrors.ErrCommunityNotFound)
}

func TestLeaveCommunityNeverJoined(t *testing.T) {
	svc, _ := newMembershipFixture()

	_, err := svc.LeaveCommunity(context.Background(), 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrMembershipNotFound)
}

func TestLeaveCommunityBannedMemberRejected(t *testing.T) {
	svc, store := newMembershipFixture()
	ctx := context.Background()

	_, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)
	_, err = store.SetStatus(ctx, 1, 10, models.MembershipBanned)
	require.NoError(t, err)

	_, err = svc.LeaveCommunity(ctx, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrMemberBanned)
}

func TestBanAndUnbanMember(t *testing.T) {
	svc, store := newMembershipFixture()
	ctx := context.Background()

	_, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)

	banned, err := svc.BanMember(ctx, 1, 10, 99)
	require.NoError(t, err)
	assert.Equal(t, string(models.MembershipBanned), banned.Status)

	// Banned members don't count as active
	count, err := store.CountMembersByStatus(ctx, 1, models.MembershipActive)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	unbanned, err := svc.UnbanMember(ctx, 1, 10, 99)
	require.NoError(t, err)
	assert.Equal(t, string(models.MembershipInactive), unbanned.Status)

	// After the unban the member can rejoin on their own
	rejoined, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, string(models.MembershipActive), rejoined.Status)
}

func TestUnbanMemberNotBannedIsNoop(t *testing.T) {
	svc, _ := newMembershipFixture()
	ctx := context.Background()

	_, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)

	resp, err := svc.UnbanMember(ctx, 1, 10, 99)
	require.NoError(t, err)
	assert.Equal(t, string(models.MembershipActive), resp.Status)
}

func TestBanMemberRequiresModeratorRole(t *testing.T) {
	store := newFakeMembershipStore()
	communities := &fakeCommunityStore{communities: map[int64]*models.Community{
		1: {ID: 1, Title: "Desert Riders", IsActive: true},
	}}
	authz := &fakeAuthorizer{denied: map[int64]bool{50: true}}
	svc := NewMembershipService(store, communities, authz, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.ToggleMembership(ctx, 1, 10)
	require.NoError(t, err)

	_, err = svc.BanMember(ctx, 1, 10, 50)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The demoted actor cannot lift bans either
	_, err = svc.UnbanMember(ctx, 1, 10, 50)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetMembersCountsOnlyRequestedStatus(t *testing.T) {
	svc, store := newMembershipFixture()
	ctx := context.Background()

	for userID := int64(10); userID < 14; userID++ {
		_, err := svc.ToggleMembership(ctx, 1, userID)
		require.NoError(t, err)
	}
	_, err := store.SetStatus(ctx, 1, 13, models.MembershipBanned)
	require.NoError(t, err)

	active, err := svc.GetMembers(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Len(t, active.Members, 3)
	assert.Equal(t, int64(3), active.PaginationInfo.TotalItems)

	banned, err := svc.GetBannedMembers(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Len(t, banned.Members, 1)
}

func TestGetMembersPagination(t *testing.T) {
	svc, _ := newMembershipFixture()
	ctx := context.Background()

	for userID := int64(100); userID < 125; userID++ {
		_, err := svc.ToggleMembership(ctx, 1, userID)
		require.NoError(t, err)
	}

	// 25 active members at limit 10: page 2 holds a full 10, page 3 the rest
	page2, err := svc.GetMembers(ctx, 1, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page2.Members, 10)
	assert.Equal(t, 3, page2.PaginationInfo.TotalPages)
	assert.Equal(t, int64(25), page2.PaginationInfo.TotalItems)
	assert.Equal(t, 2, page2.PaginationInfo.CurrentPage)

	page3, err := svc.GetMembers(ctx, 1, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page3.Members, 5)
}
