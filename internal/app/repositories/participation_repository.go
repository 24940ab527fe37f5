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
	"github.com/veloclub/veloclub/internal/pkg/dberrors"
)

// ParticipationRepository handles event participation database operations.
// Like memberships, participation rows are never deleted: cancelling flips
// the status and keeps the (event_id, user_id) uniqueness invariant.
type ParticipationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(db *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var participationColumns = []string{
	"id", "event_id", "user_id", "status", "distance", "finish_time",
	"reason", "completed_at", "created_at", "updated_at",
}

const participationReturning = "id, event_id, user_id, status, distance, finish_time, reason, completed_at, created_at, updated_at"

func scanParticipation(row pgx.Row) (*models.Participation, error) {
	var p models.Participation
	err := row.Scan(
		&p.ID, &p.EventID, &p.UserID, &p.Status, &p.Distance, &p.FinishTime,
		&p.Reason, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetParticipation retrieves a user's participation row for an event
func (r *ParticipationRepository) GetParticipation(ctx context.Context, eventID, userID int64) (*models.Participation, error) {
	sql, args, err := r.sb.Select(participationColumns...).
		From("event_participations").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get participation query: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParticipationNotFound
		}
		return nil, fmt.Errorf("error getting participation: %w", err)
	}
	return p, nil
}

// Join registers a user for an event. A first join inserts the row; a user
// with a cancelled participation is rejoined in place. Completed
// participations stay terminal and an already-joined user gets a conflict.
func (r *ParticipationRepository) Join(ctx context.Context, eventID, userID int64) (*models.Participation, error) {
	now := time.Now()
	insertSQL, insertArgs, err := r.sb.Insert("event_participations").
		Columns("event_id", "user_id", "status", "created_at", "updated_at").
		Values(eventID, userID, models.ParticipationJoined, now, now).
		Suffix("ON CONFLICT (event_id, user_id) DO NOTHING RETURNING " + participationReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build join query: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, insertSQL, insertArgs...))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error joining event: %w", err)
	}

	// A row already exists; rejoin only from cancelled. The status guard in
	// the WHERE clause keeps concurrent rejoins from double-flipping.
	updateSQL, updateArgs, err := r.sb.Update("event_participations").
		Set("status", models.ParticipationJoined).
		Set("reason", nil).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"event_id": eventID,
			"user_id":  userID,
			"status":   models.ParticipationCancelled,
		}).
		Suffix("RETURNING " + participationReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rejoin query: %w", err)
	}

	p, err = scanParticipation(r.db.QueryRow(ctx, updateSQL, updateArgs...))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error rejoining event: %w", err)
	}

	// Neither inserted nor rejoined: the row is joined or completed.
	existing, err := r.GetParticipation(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.ParticipationCompleted {
		return nil, apperrors.ErrRejoinCompleted
	}
	return nil, apperrors.ErrResourceAlreadyExists
}

// Cancel moves a joined participation to cancelled, recording the reason.
// Cancelled and completed rows are guarded against.
func (r *ParticipationRepository) Cancel(ctx context.Context, eventID, userID int64, reason string) (*models.Participation, error) {
	sql, args, err := r.sb.Update("event_participations").
		Set("status", models.ParticipationCancelled).
		Set("reason", reason).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{
			"event_id": eventID,
			"user_id":  userID,
			"status":   models.ParticipationJoined,
		}).
		Suffix("RETURNING " + participationReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build cancel query: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error cancelling participation: %w", err)
	}

	existing, err := r.GetParticipation(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	switch existing.Status {
	case models.ParticipationCancelled:
		return nil, apperrors.ErrAlreadyCancelled
	case models.ParticipationCompleted:
		return nil, apperrors.ErrCancelCompleted
	}
	return nil, apperrors.ErrParticipationNotFound
}

// SubmitResult records a finish for a joined participation and moves it to
// completed. A participation that already holds a result is rejected.
func (r *ParticipationRepository) SubmitResult(ctx context.Context, eventID, userID int64, distance *float64, finishTime string) (*models.Participation, error) {
	now := time.Now()
	sql, args, err := r.sb.Update("event_participations").
		Set("status", models.ParticipationCompleted).
		Set("distance", distance).
		Set("finish_time", finishTime).
		Set("completed_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"event_id": eventID,
			"user_id":  userID,
			"status":   models.ParticipationJoined,
		}).
		Suffix("RETURNING " + participationReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build submit result query: %w", err)
	}

	p, err := scanParticipation(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error submitting result: %w", err)
	}

	existing, err := r.GetParticipation(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.ParticipationCompleted {
		return nil, apperrors.ErrResultAlreadySubmitted
	}
	return nil, apperrors.ErrParticipationNotFound
}

// GetParticipationsByUserID retrieves all of a user's participations with
// their event summaries, newest first
func (r *ParticipationRepository) GetParticipationsByUserID(ctx context.Context, userID int64) ([]*models.Participation, error) {
	sql, args, err := r.sb.Select(
		"p.id", "p.event_id", "p.user_id", "p.status", "p.distance", "p.finish_time",
		"p.reason", "p.completed_at", "p.created_at", "p.updated_at",
		"e.id", "e.title", "e.event_date", "e.status",
	).
		From("event_participations p").
		Join("events e ON e.id = p.event_id").
		Where(squirrel.Eq{"p.user_id": userID}).
		OrderBy("p.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user participations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying user participations: %w", err)
	}
	defer rows.Close()

	var participations []*models.Participation
	for rows.Next() {
		var p models.Participation
		var e models.Event
		err := rows.Scan(
			&p.ID, &p.EventID, &p.UserID, &p.Status, &p.Distance, &p.FinishTime,
			&p.Reason, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
			&e.ID, &e.Title, &e.EventDate, &e.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning participation row: %w", err)
		}
		p.Event = &e
		participations = append(participations, &p)
	}
	return participations, rows.Err()
}

// CountJoinedByEventID counts current joined participants of an event, used
// to enforce the participant cap
func (r *ParticipationRepository) CountJoinedByEventID(ctx context.Context, eventID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("event_participations").
		Where(squirrel.Eq{"event_id": eventID, "status": models.ParticipationJoined}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count participants query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting participants: %w", err)
	}
	return count, nil
}

// LeaderboardRow is one completed participation enriched with its rider and
// event projections. Relations are left-joined so a row survives a deleted
// user or event.
type LeaderboardRow struct {
	Distance   *float64
	FinishTime *string
	CreatedAt  time.Time

	UserID       *int64
	UserFullName *string
	UserEmail    *string

	EventID    *int64
	EventTitle *string
	EventDate  *time.Time
}

func (r *ParticipationRepository) queryLeaderboardRows(ctx context.Context, query squirrel.SelectBuilder) ([]*LeaderboardRow, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying leaderboard: %w", err)
	}
	defer rows.Close()

	var results []*LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		err := rows.Scan(
			&row.Distance, &row.FinishTime, &row.CreatedAt,
			&row.UserID, &row.UserFullName, &row.UserEmail,
			&row.EventID, &row.EventTitle, &row.EventDate,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning leaderboard row: %w", err)
		}
		results = append(results, &row)
	}
	return results, rows.Err()
}

func (r *ParticipationRepository) leaderboardSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"p.distance", "p.finish_time", "p.created_at",
		"u.id", "u.full_name", "u.email",
		"e.id", "e.title", "e.event_date",
	).
		From("event_participations p").
		LeftJoin("users u ON u.id = p.user_id").
		LeftJoin("events e ON e.id = p.event_id").
		Where(squirrel.Eq{"p.status": models.ParticipationCompleted}).
		// Submission order is the tiebreak: the stable rank sort keeps it for
		// equal times and for untimed entries at the bottom.
		OrderBy("p.created_at ASC", "p.id ASC")
}

// GetLeaderboardRowsByEventID retrieves the completed participations of one
// event. Ordering and ranks are applied in the service layer.
func (r *ParticipationRepository) GetLeaderboardRowsByEventID(ctx context.Context, eventID int64) ([]*LeaderboardRow, error) {
	return r.queryLeaderboardRows(ctx, r.leaderboardSelect().
		Where(squirrel.Eq{"p.event_id": eventID}))
}

// GetLeaderboardRowsByTrackID retrieves the completed participations across
// every event held on a track
func (r *ParticipationRepository) GetLeaderboardRowsByTrackID(ctx context.Context, trackID int64) ([]*LeaderboardRow, error) {
	return r.queryLeaderboardRows(ctx, r.leaderboardSelect().
		Where(squirrel.Eq{"e.track_id": trackID}))
}
