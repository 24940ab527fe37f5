package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
	"github.com/veloclub/veloclub/internal/pkg/logger"
)

// MembershipRepository handles community membership database operations.
// A membership row is never deleted: join and leave flip the status column,
// which keeps the (community_id, user_id) uniqueness invariant and the join
// history intact.
type MembershipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var membershipColumns = []string{
	"id", "community_id", "user_id", "role", "status",
	"joined_at", "contribution", "created_at", "updated_at",
}

func scanMembership(row pgx.Row) (*models.Membership, error) {
	var m models.Membership
	err := row.Scan(
		&m.ID, &m.CommunityID, &m.UserID, &m.Role, &m.Status,
		&m.JoinedAt, &m.Contribution, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Toggle flips the caller's membership in a single statement. A first join
// inserts an active row; on conflict the existing row's status is flipped
// between active and inactive, while a banned row keeps its status untouched.
// Running the flip inside the upsert removes the read-then-write race: two
// concurrent toggles serialize on the unique index and each sees the other's
// committed state.
func (r *MembershipRepository) Toggle(ctx context.Context, communityID, userID int64) (*models.Membership, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("community_memberships").
		Columns("community_id", "user_id", "role", "status", "joined_at", "contribution", "created_at", "updated_at").
		Values(communityID, userID, models.CommunityMember, models.MembershipActive, now, 0, now, now).
		Suffix(`ON CONFLICT (community_id, user_id) DO UPDATE SET
			status = CASE community_memberships.status
				WHEN 'active' THEN 'inactive'
				WHEN 'inactive' THEN 'active'
				ELSE community_memberships.status
			END,
			joined_at = CASE community_memberships.status
				WHEN 'inactive' THEN EXCLUDED.joined_at
				ELSE community_memberships.joined_at
			END,
			updated_at = EXCLUDED.updated_at
			RETURNING ` + "id, community_id, user_id, role, status, joined_at, contribution, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build toggle membership query: %w", err)
	}

	membership, err := scanMembership(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Int64("communityID", communityID).Int64("userID", userID).Msg("Error toggling membership")
		return nil, fmt.Errorf("error toggling membership: %w", err)
	}
	if membership.Status == models.MembershipBanned {
		return nil, apperrors.ErrMemberBanned
	}
	return membership, nil
}

// Deactivate sets an active membership to inactive. It is idempotent: leaving
// a community the user is not an active member of affects no rows and reports
// that through the returned flag. Banned rows are never touched.
func (r *MembershipRepository) Deactivate(ctx context.Context, communityID, userID int64) (bool, error) {
	sql, args, err := r.sb.Update("community_memberships").
		Set("status", models.MembershipInactive).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{
			"community_id": communityID,
			"user_id":      userID,
			"status":       models.MembershipActive,
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build deactivate membership query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error deactivating membership: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetStatus forces a membership into the given status, used by moderation
// for ban and unban
func (r *MembershipRepository) SetStatus(ctx context.Context, communityID, userID int64, status models.MembershipStatus) (*models.Membership, error) {
	sql, args, err := r.sb.Update("community_memberships").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"community_id": communityID, "user_id": userID}).
		Suffix("RETURNING " + "id, community_id, user_id, role, status, joined_at, contribution, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build set membership status query: %w", err)
	}

	membership, err := scanMembership(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("error setting membership status: %w", err)
	}
	return membership, nil
}

// GetMembership retrieves the membership row for a user in a community
func (r *MembershipRepository) GetMembership(ctx context.Context, communityID, userID int64) (*models.Membership, error) {
	sql, args, err := r.sb.Select(membershipColumns...).
		From("community_memberships").
		Where(squirrel.Eq{"community_id": communityID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get membership query: %w", err)
	}

	membership, err := scanMembership(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("error getting membership: %w", err)
	}
	return membership, nil
}

// IsActiveMember reports whether the user currently holds an active
// membership in the community
func (r *MembershipRepository) IsActiveMember(ctx context.Context, communityID, userID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("community_memberships").
		Where(squirrel.Eq{
			"community_id": communityID,
			"user_id":      userID,
			"status":       models.MembershipActive,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build membership check query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return true, nil
}

// GetMembersByCommunityID retrieves active members of a community with their
// user profiles, newest joiners first
func (r *MembershipRepository) GetMembersByCommunityID(ctx context.Context, communityID int64, status models.MembershipStatus, offset, limit int) ([]*models.Membership, error) {
	sql, args, err := r.sb.Select(
		"m.id", "m.community_id", "m.user_id", "m.role", "m.status",
		"m.joined_at", "m.contribution", "m.created_at", "m.updated_at",
		"u.id", "u.full_name", "u.phone", "u.email", "u.gender", "u.age", "u.role_type",
	).
		From("community_memberships m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.community_id": communityID, "m.status": status}).
		OrderBy("m.joined_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying members: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		var m models.Membership
		var u models.User
		err := rows.Scan(
			&m.ID, &m.CommunityID, &m.UserID, &m.Role, &m.Status,
			&m.JoinedAt, &m.Contribution, &m.CreatedAt, &m.UpdatedAt,
			&u.ID, &u.FullName, &u.Phone, &u.Email, &u.Gender, &u.Age, &u.RoleType,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		m.User = &u
		memberships = append(memberships, &m)
	}
	return memberships, rows.Err()
}

// CountMembersByStatus counts the memberships of a community in the given
// status. Member counts are always derived from this query, never stored.
func (r *MembershipRepository) CountMembersByStatus(ctx context.Context, communityID int64, status models.MembershipStatus) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("community_memberships").
		Where(squirrel.Eq{"community_id": communityID, "status": status}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count members query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting members: %w", err)
	}
	return count, nil
}

// CountActiveByCommunityIDs returns active member counts keyed by community,
// used to enrich community listings in one round trip
func (r *MembershipRepository) CountActiveByCommunityIDs(ctx context.Context, communityIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(communityIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("community_id", "COUNT(*)").
		From("community_memberships").
		Where(squirrel.Eq{"community_id": communityIDs, "status": models.MembershipActive}).
		GroupBy("community_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var communityID int64
		var count int
		if err := rows.Scan(&communityID, &count); err != nil {
			return nil, fmt.Errorf("error scanning count row: %w", err)
		}
		counts[communityID] = count
	}
	return counts, rows.Err()
}

// GetCommunitiesByUserID retrieves the communities where the user holds an
// active membership
func (r *MembershipRepository) GetCommunitiesByUserID(ctx context.Context, userID int64) ([]*models.Community, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.title", "c.description", "c.type", "c.category", "c.location",
		"c.image", "c.logo", "c.track_name", "c.distance", "c.terrain",
		"c.is_active", "c.is_public", "c.is_featured", "c.created_by",
		"c.created_at", "c.updated_at",
	).
		From("community_memberships m").
		Join("communities c ON c.id = m.community_id").
		Where(squirrel.Eq{"m.user_id": userID, "m.status": models.MembershipActive}).
		OrderBy("m.joined_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user communities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying user communities: %w", err)
	}
	defer rows.Close()

	var communities []*models.Community
	for rows.Next() {
		community, err := scanCommunityFromRows(rows)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)
	}
	return communities, rows.Err()
}
