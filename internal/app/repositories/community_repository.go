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
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
)

// CommunityRepository handles community database operations
type CommunityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *pgxpool.Pool) *CommunityRepository {
	return &CommunityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var communityColumns = []string{
	"id", "title", "description", "type", "category", "location",
	"image", "logo", "track_name", "distance", "terrain",
	"is_active", "is_public", "is_featured", "created_by", "created_at", "updated_at",
}

func scanCommunityFromRows(rows pgx.Rows) (*models.Community, error) {
	var c models.Community
	err := rows.Scan(
		&c.ID, &c.Title, &c.Description, &c.Type, &c.Category, &c.Location,
		&c.Image, &c.Logo, &c.TrackName, &c.Distance, &c.Terrain,
		&c.IsActive, &c.IsPublic, &c.IsFeatured, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning community row: %w", err)
	}
	return &c, nil
}

// CreateCommunity inserts a new community and returns its generated ID
func (r *CommunityRepository) CreateCommunity(ctx context.Context, community *models.Community) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("communities").
		Columns("title", "description", "type", "category", "location",
			"image", "logo", "track_name", "distance", "terrain",
			"is_active", "is_public", "is_featured", "created_by", "created_at", "updated_at").
		Values(community.Title, community.Description, community.Type, community.Category,
			community.Location, community.Image, community.Logo, community.TrackName,
			community.Distance, community.Terrain, community.IsActive, community.IsPublic,
			community.IsFeatured, community.CreatedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create community query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating community: %w", err)
	}
	return id, nil
}

// GetCommunityByID retrieves a community by primary key
func (r *CommunityRepository) GetCommunityByID(ctx context.Context, id int64) (*models.Community, error) {
	sql, args, err := r.sb.Select(communityColumns...).
		From("communities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get community query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying community: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading community row: %w", err)
		}
		return nil, apperrors.ErrCommunityNotFound
	}
	return scanCommunityFromRows(rows)
}

// ListCommunities retrieves communities matching the filter, newest first,
// along with the total count for pagination
func (r *CommunityRepository) ListCommunities(ctx context.Context, filter *dto.CommunityFilterRequest, offset, limit int) ([]*models.Community, int64, error) {
	base := r.sb.Select(communityColumns...).From("communities")
	countQuery := r.sb.Select("COUNT(*)").From("communities")

	conds := squirrel.And{}
	if filter != nil {
		if filter.Type != nil {
			conds = append(conds, squirrel.Eq{"type": *filter.Type})
		}
		if filter.Location != nil {
			conds = append(conds, squirrel.ILike{"location": "%" + *filter.Location + "%"})
		}
		if filter.Category != nil {
			conds = append(conds, squirrel.Expr("? = ANY(category)", *filter.Category))
		}
		if filter.Search != nil {
			pattern := "%" + *filter.Search + "%"
			conds = append(conds, squirrel.Or{
				squirrel.ILike{"title": pattern},
				squirrel.ILike{"description": pattern},
			})
		}
		if filter.IsActive != nil {
			conds = append(conds, squirrel.Eq{"is_active": *filter.IsActive})
		} else {
			conds = append(conds, squirrel.Eq{"is_active": true})
		}
	} else {
		conds = append(conds, squirrel.Eq{"is_active": true})
	}
	base = base.Where(conds)
	countQuery = countQuery.Where(conds)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count communities query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting communities: %w", err)
	}

	sql, args, err := base.
		OrderBy("created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list communities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying communities: %w", err)
	}
	defer rows.Close()

	var communities []*models.Community
	for rows.Next() {
		community, err := scanCommunityFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		communities = append(communities, community)
	}
	return communities, total, rows.Err()
}

// UpdateCommunity updates mutable fields of a community
func (r *CommunityRepository) UpdateCommunity(ctx context.Context, community *models.Community) error {
	sql, args, err := r.sb.Update("communities").
		Set("title", community.Title).
		Set("description", community.Description).
		Set("type", community.Type).
		Set("category", community.Category).
		Set("location", community.Location).
		Set("image", community.Image).
		Set("logo", community.Logo).
		Set("track_name", community.TrackName).
		Set("distance", community.Distance).
		Set("terrain", community.Terrain).
		Set("is_active", community.IsActive).
		Set("is_public", community.IsPublic).
		Set("is_featured", community.IsFeatured).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": community.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update community query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating community: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommunityNotFound
	}
	return nil
}

// DeleteCommunity soft-deletes a community by marking it inactive, keeping
// its membership records for history
func (r *CommunityRepository) DeleteCommunity(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("communities").
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete community query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting community: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommunityNotFound
	}
	return nil
}

// CommunityExists reports whether an active community with the given ID exists
func (r *CommunityRepository) CommunityExists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("communities").
		Where(squirrel.Eq{"id": id, "is_active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build community exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking community existence: %w", err)
	}
	return true, nil
}
