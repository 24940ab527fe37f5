package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// GuestSession is a short-lived anonymous browsing session. Guests can read
// public communities, events and tracks without registering; the session only
// tracks device identity for later conversion into an account.
type GuestSession struct {
	SessionID string    `json:"sessionId"`
	DeviceID  string    `json:"deviceId"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// GuestSessionRepository stores guest sessions in Redis with a sliding TTL.
type GuestSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuestSessionRepository creates a new GuestSessionRepository
func NewGuestSessionRepository(client *redis.Client, ttl time.Duration) *GuestSessionRepository {
	return &GuestSessionRepository{client: client, ttl: ttl}
}

func guestSessionKey(sessionID string) string {
	return "guest_session:" + sessionID
}

// CreateSession stores a new guest session for the device and returns it
func (r *GuestSessionRepository) CreateSession(ctx context.Context, deviceID string) (*GuestSession, error) {
	now := time.Now()
	session := &GuestSession{
		SessionID: uuid.New().String(),
		DeviceID:  deviceID,
		CreatedAt: now,
		LastSeen:  now,
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal guest session: %w", err)
	}
	if err := r.client.Set(ctx, guestSessionKey(session.SessionID), payload, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("error storing guest session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a guest session and refreshes its TTL. A missing or
// expired session returns nil without error.
func (r *GuestSessionRepository) GetSession(ctx context.Context, sessionID string) (*GuestSession, error) {
	payload, err := r.client.Get(ctx, guestSessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading guest session: %w", err)
	}

	var session GuestSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guest session: %w", err)
	}

	session.LastSeen = time.Now()
	refreshed, err := json.Marshal(&session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal guest session: %w", err)
	}
	if err := r.client.Set(ctx, guestSessionKey(sessionID), refreshed, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("error refreshing guest session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a guest session, used when the guest registers
func (r *GuestSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, guestSessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("error deleting guest session: %w", err)
	}
	return nil
}
