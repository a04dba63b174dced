package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
)

// RedisSessionRepository keeps sessions as JSON values with a TTL, so
// abandoned conversations expire on their own.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

var _ ports.SessionRepository = (*RedisSessionRepository)(nil)

// NewRedisSessionRepository wires a Redis client; zero ttl means no expiry.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl, prefix: "newsflash:session:"}
}

// Load reads and decodes one session; found is false on a cache miss.
func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (domain.ConversationSession, bool, error) {
	payload, err := r.client.Get(ctx, r.prefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ConversationSession{}, false, nil
	}
	if err != nil {
		return domain.ConversationSession{}, false, fmt.Errorf("get session: %w", err)
	}

	var session domain.ConversationSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.ConversationSession{}, false, fmt.Errorf("decode session: %w", err)
	}
	return session, true, nil
}

// Save encodes and stores the session, refreshing its TTL.
func (r *RedisSessionRepository) Save(ctx context.Context, session domain.ConversationSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+session.SessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete removes the session key.
func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.prefix+sessionID).Err(); err != nil {
		return fmt.Errorf("del session: %w", err)
	}
	return nil
}
