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
	"github.com/veloclub/veloclub/internal/pkg/dberrors"
)

// EventRepository handles event database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var eventColumns = []string{
	"id", "title", "description", "category", "event_type", "event_date", "event_time",
	"location", "distance", "surface", "pace", "amenities", "eligibility",
	"max_participants", "status", "is_free", "track_id", "community_id",
	"created_by", "created_at", "updated_at",
}

func scanEventFromRows(rows pgx.Rows) (*models.Event, error) {
	var e models.Event
	err := rows.Scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.EventType, &e.EventDate, &e.EventTime,
		&e.Location, &e.Distance, &e.Surface, &e.Pace, &e.Amenities, &e.Eligibility,
		&e.MaxParticipants, &e.Status, &e.IsFree, &e.TrackID, &e.CommunityID,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning event row: %w", err)
	}
	return &e, nil
}

// CreateEvent inserts a new event and returns its generated ID
func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "category", "event_type", "event_date", "event_time",
			"location", "distance", "surface", "pace", "amenities", "eligibility",
			"max_participants", "status", "is_free", "track_id", "community_id",
			"created_by", "created_at", "updated_at").
		Values(event.Title, event.Description, event.Category, event.EventType,
			event.EventDate, event.EventTime, event.Location, event.Distance,
			event.Surface, event.Pace, event.Amenities, event.Eligibility,
			event.MaxParticipants, event.Status, event.IsFree, event.TrackID,
			event.CommunityID, event.CreatedBy, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create event query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrBadRequest
		}
		return 0, fmt.Errorf("error creating event: %w", err)
	}
	return id, nil
}

// GetEventByID retrieves an event by primary key
func (r *EventRepository) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading event row: %w", err)
		}
		return nil, apperrors.ErrEventNotFound
	}
	return scanEventFromRows(rows)
}

// ListEvents retrieves events matching the filter ordered by event date,
// along with the total count for pagination
func (r *EventRepository) ListEvents(ctx context.Context, filter *dto.EventFilterRequest, offset, limit int) ([]*models.Event, int64, error) {
	base := r.sb.Select(eventColumns...).From("events")
	countQuery := r.sb.Select("COUNT(*)").From("events")

	conds := squirrel.And{}
	if filter != nil {
		if filter.Status != nil {
			conds = append(conds, squirrel.Eq{"status": *filter.Status})
		}
		if filter.Category != nil {
			conds = append(conds, squirrel.Eq{"category": *filter.Category})
		}
		if filter.TrackID != nil {
			conds = append(conds, squirrel.Eq{"track_id": *filter.TrackID})
		}
		if filter.CommunityID != nil {
			conds = append(conds, squirrel.Eq{"community_id": *filter.CommunityID})
		}
	}
	if len(conds) > 0 {
		base = base.Where(conds)
		countQuery = countQuery.Where(conds)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count events query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	sql, args, err := base.
		OrderBy("event_date ASC", "id ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEventFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	return events, total, rows.Err()
}

// UpdateEvent updates mutable fields of an event
func (r *EventRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Update("events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("category", event.Category).
		Set("event_type", event.EventType).
		Set("event_date", event.EventDate).
		Set("event_time", event.EventTime).
		Set("location", event.Location).
		Set("distance", event.Distance).
		Set("surface", event.Surface).
		Set("pace", event.Pace).
		Set("amenities", event.Amenities).
		Set("eligibility", event.Eligibility).
		Set("max_participants", event.MaxParticipants).
		Set("status", event.Status).
		Set("is_free", event.IsFree).
		Set("track_id", event.TrackID).
		Set("community_id", event.CommunityID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// DeleteEvent removes an event and, through cascading, its participations
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// EventExists reports whether an event with the given ID exists
func (r *EventRepository) EventExists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("events").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build event exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking event existence: %w", err)
	}
	return true, nil
}
