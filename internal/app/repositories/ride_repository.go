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

// RideRepository handles community ride database operations
type RideRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRideRepository creates a new RideRepository
func NewRideRepository(db *pgxpool.Pool) *RideRepository {
	return &RideRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var rideColumns = []string{
	"id", "title", "description", "ride_date", "start_point", "distance",
	"pace", "status", "created_by", "created_at", "updated_at",
}

func scanRideFromRows(rows pgx.Rows) (*models.Ride, error) {
	var ride models.Ride
	err := rows.Scan(
		&ride.ID, &ride.Title, &ride.Description, &ride.RideDate, &ride.StartPoint,
		&ride.Distance, &ride.Pace, &ride.Status, &ride.CreatedBy,
		&ride.CreatedAt, &ride.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning ride row: %w", err)
	}
	return &ride, nil
}

// CreateRide inserts a new ride and returns its generated ID
func (r *RideRepository) CreateRide(ctx context.Context, ride *models.Ride) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("rides").
		Columns("title", "description", "ride_date", "start_point", "distance",
			"pace", "status", "created_by", "created_at", "updated_at").
		Values(ride.Title, ride.Description, ride.RideDate, ride.StartPoint,
			ride.Distance, ride.Pace, ride.Status, ride.CreatedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create ride query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating ride: %w", err)
	}
	return id, nil
}

// GetRideByID retrieves a ride by primary key
func (r *RideRepository) GetRideByID(ctx context.Context, id int64) (*models.Ride, error) {
	sql, args, err := r.sb.Select(rideColumns...).
		From("rides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get ride query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying ride: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading ride row: %w", err)
		}
		return nil, apperrors.ErrRideNotFound
	}
	return scanRideFromRows(rows)
}

// ListRides retrieves rides ordered by ride date, along with the total count
// for pagination
func (r *RideRepository) ListRides(ctx context.Context, status string, offset, limit int) ([]*models.Ride, int64, error) {
	base := r.sb.Select(rideColumns...).From("rides")
	countQuery := r.sb.Select("COUNT(*)").From("rides")
	if status != "" {
		cond := squirrel.Eq{"status": status}
		base = base.Where(cond)
		countQuery = countQuery.Where(cond)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count rides query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting rides: %w", err)
	}

	sql, args, err := base.
		OrderBy("ride_date ASC", "id ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list rides query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying rides: %w", err)
	}
	defer rows.Close()

	var rides []*models.Ride
	for rows.Next() {
		ride, err := scanRideFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		rides = append(rides, ride)
	}
	return rides, total, rows.Err()
}

// UpdateRide updates mutable fields of a ride
func (r *RideRepository) UpdateRide(ctx context.Context, ride *models.Ride) error {
	sql, args, err := r.sb.Update("rides").
		Set("title", ride.Title).
		Set("description", ride.Description).
		Set("ride_date", ride.RideDate).
		Set("start_point", ride.StartPoint).
		Set("distance", ride.Distance).
		Set("pace", ride.Pace).
		Set("status", ride.Status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": ride.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update ride query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating ride: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRideNotFound
	}
	return nil
}

// DeleteRide removes a ride
func (r *RideRepository) DeleteRide(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("rides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete ride query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting ride: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRideNotFound
	}
	return nil
}
