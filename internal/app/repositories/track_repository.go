package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veloclub/veloclub/internal/app/models"
	"github.com/veloclub/veloclub/internal/pkg/apperrors"
)

// TrackRepository handles track database operations
type TrackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTrackRepository creates a new TrackRepository
func NewTrackRepository(db *pgxpool.Pool) *TrackRepository {
	return &TrackRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var trackColumns = []string{
	"id", "title", "description", "image", "city", "address", "zipcode",
	"latitude", "longitude", "distance", "elevation", "type", "avg_time",
	"pace", "facilities", "created_by", "created_at", "updated_at",
}

func scanTrackFromRows(rows pgx.Rows) (*models.Track, error) {
	var t models.Track
	err := rows.Scan(
		&t.ID, &t.Title, &t.Description, &t.Image, &t.City, &t.Address, &t.Zipcode,
		&t.Latitude, &t.Longitude, &t.Distance, &t.Elevation, &t.Type, &t.AvgTime,
		&t.Pace, &t.Facilities, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning track row: %w", err)
	}
	return &t, nil
}

// CreateTrack inserts a new track and returns its generated ID
func (r *TrackRepository) CreateTrack(ctx context.Context, track *models.Track) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("tracks").
		Columns("title", "description", "image", "city", "address", "zipcode",
			"latitude", "longitude", "distance", "elevation", "type", "avg_time",
			"pace", "facilities", "created_by", "created_at", "updated_at").
		Values(track.Title, track.Description, track.Image, track.City, track.Address,
			track.Zipcode, track.Latitude, track.Longitude, track.Distance,
			track.Elevation, track.Type, track.AvgTime, track.Pace, track.Facilities,
			track.CreatedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create track query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating track: %w", err)
	}
	return id, nil
}

// GetTrackByID retrieves a track by primary key
func (r *TrackRepository) GetTrackByID(ctx context.Context, id int64) (*models.Track, error) {
	sql, args, err := r.sb.Select(trackColumns...).
		From("tracks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get track query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying track: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading track row: %w", err)
		}
		return nil, apperrors.ErrTrackNotFound
	}
	return scanTrackFromRows(rows)
}

// ListTracks retrieves tracks ordered by title, optionally filtered by city,
// along with the total count for pagination
func (r *TrackRepository) ListTracks(ctx context.Context, city string, offset, limit int) ([]*models.Track, int64, error) {
	base := r.sb.Select(trackColumns...).From("tracks")
	countQuery := r.sb.Select("COUNT(*)").From("tracks")
	if city != "" {
		cond := squirrel.ILike{"city": "%" + city + "%"}
		base = base.Where(cond)
		countQuery = countQuery.Where(cond)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count tracks query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting tracks: %w", err)
	}

	sql, args, err := base.
		OrderBy("title ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list tracks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.Track
	for rows.Next() {
		track, err := scanTrackFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		tracks = append(tracks, track)
	}
	return tracks, total, rows.Err()
}

// UpdateTrack updates mutable fields of a track
func (r *TrackRepository) UpdateTrack(ctx context.Context, track *models.Track) error {
	sql, args, err := r.sb.Update("tracks").
		Set("title", track.Title).
		Set("description", track.Description).
		Set("image", track.Image).
		Set("city", track.City).
		Set("address", track.Address).
		Set("zipcode", track.Zipcode).
		Set("latitude", track.Latitude).
		Set("longitude", track.Longitude).
		Set("distance", track.Distance).
		Set("elevation", track.Elevation).
		Set("type", track.Type).
		Set("avg_time", track.AvgTime).
		Set("pace", track.Pace).
		Set("facilities", track.Facilities).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": track.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update track query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating track: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTrackNotFound
	}
	return nil
}

// DeleteTrack removes a track; events referencing it keep a null track_id
func (r *TrackRepository) DeleteTrack(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("tracks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete track query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting track: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTrackNotFound
	}
	return nil
}
