package repositories

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	TokenRepository         *TokenRepository
	CommunityRepository     *CommunityRepository
	MembershipRepository    *MembershipRepository
	EventRepository         *EventRepository
	ParticipationRepository *ParticipationRepository
	TrackRepository         *TrackRepository
	RideRepository          *RideRepository
	GuestSessionRepository  *GuestSessionRepository
}

// NewRepositories initializes all repositories. The Redis client may be nil,
// in which case guest sessions are disabled.
func NewRepositories(db *pgxpool.Pool, redisClient *redis.Client, guestSessionTTL time.Duration) *Repositories {
	repos := &Repositories{
		UserRepository:          NewUserRepository(db),
		TokenRepository:         NewTokenRepository(db),
		CommunityRepository:     NewCommunityRepository(db),
		MembershipRepository:    NewMembershipRepository(db),
		EventRepository:         NewEventRepository(db),
		ParticipationRepository: NewParticipationRepository(db),
		TrackRepository:         NewTrackRepository(db),
		RideRepository:          NewRideRepository(db),
	}
	if redisClient != nil {
		repos.GuestSessionRepository = NewGuestSessionRepository(redisClient, guestSessionTTL)
	}
	return repos
}
