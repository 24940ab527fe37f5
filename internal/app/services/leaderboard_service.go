package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/app/repositories"
	"github.com/veloclub/veloclub/internal/pkg/ranking"
)

// leaderboardStore is the result-row surface the leaderboard needs.
// Satisfied by *repositories.ParticipationRepository.
type leaderboardStore interface {
	GetLeaderboardRowsByEventID(ctx context.Context, eventID int64) ([]*repositories.LeaderboardRow, error)
	GetLeaderboardRowsByTrackID(ctx context.Context, trackID int64) ([]*repositories.LeaderboardRow, error)
}

// LeaderboardService computes event and track leaderboards. Ranks are
// derived on every read from the stored finish times, never persisted.
type LeaderboardService interface {
	GetEventLeaderboard(ctx context.Context, eventID int64) (*dto.LeaderboardResponse, error)
	GetTrackLeaderboard(ctx context.Context, trackID int64) (*dto.LeaderboardResponse, error)
}

// leaderboardServiceImpl implements LeaderboardService
type leaderboardServiceImpl struct {
	participationRepo leaderboardStore
	eventRepo         eventStore
	trackRepo         *repositories.TrackRepository
	logger            zerolog.Logger
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(
	participationRepo leaderboardStore,
	eventRepo eventStore,
	trackRepo *repositories.TrackRepository,
	logger zerolog.Logger,
) LeaderboardService {
	return &leaderboardServiceImpl{
		participationRepo: participationRepo,
		eventRepo:         eventRepo,
		trackRepo:         trackRepo,
		logger:            logger,
	}
}

// buildLeaderboard turns raw result rows into ranked entries. Timed results
// come first ordered by elapsed time with competition ranking for ties;
// untimed results keep submission order at the bottom.
func buildLeaderboard(rows []*repositories.LeaderboardRow) *dto.LeaderboardResponse {
	entries := make([]*dto.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry := &dto.LeaderboardEntry{
			Distance:  row.Distance,
			Time:      row.FinishTime,
			CreatedAt: row.CreatedAt,
			Seconds:   ranking.UntimedSeconds,
		}
		if row.FinishTime != nil {
			entry.Seconds = ranking.ParseElapsed(*row.FinishTime)
		}
		if row.UserID != nil {
			entry.User = &dto.LeaderboardUser{
				ID:    *row.UserID,
				Email: row.UserEmail,
			}
			if row.UserFullName != nil {
				entry.User.FullName = *row.UserFullName
			}
		}
		if row.EventID != nil {
			entry.Event = &dto.LeaderboardEvent{
				ID: *row.EventID,
			}
			if row.EventTitle != nil {
				entry.Event.Title = *row.EventTitle
			}
			if row.EventDate != nil {
				entry.Event.EventDate = *row.EventDate
			}
		}
		entries = append(entries, entry)
	}

	ranking.Apply(entries)
	return &dto.LeaderboardResponse{Entries: entries}
}

// GetEventLeaderboard builds the ranked leaderboard of one event
func (s *leaderboardServiceImpl) GetEventLeaderboard(ctx context.Context, eventID int64) (*dto.LeaderboardResponse, error) {
	if _, err := s.eventRepo.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	rows, err := s.participationRepo.GetLeaderboardRowsByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return buildLeaderboard(rows), nil
}

// GetTrackLeaderboard builds the ranked leaderboard across every event held
// on a track
func (s *leaderboardServiceImpl) GetTrackLeaderboard(ctx context.Context, trackID int64) (*dto.LeaderboardResponse, error) {
	if s.trackRepo != nil {
		if _, err := s.trackRepo.GetTrackByID(ctx, trackID); err != nil {
			return nil, err
		}
	}

	rows, err := s.participationRepo.GetLeaderboardRowsByTrackID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return buildLeaderboard(rows), nil
}
