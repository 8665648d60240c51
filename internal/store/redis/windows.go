package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamoff/offdays/internal/domain"
)

const (
	// DefaultWindowTTL is the default TTL for window snapshots. Snapshot
	// expiry is the staleness policy: once a snapshot lapses, the next query
	// for that window refetches from the tracker.
	DefaultWindowTTL = time.Minute
	// DefaultRosterTTL is the default TTL for the cached roster document
	DefaultRosterTTL = 5 * time.Minute
)

// Store persists window snapshots and the roster document in Redis, so a
// restarted instance can warm its in-memory cache without hitting the
// tracker, and so snapshot TTLs bound how stale a served window can be.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// SaveWindow stores a window snapshot with the given TTL
func (s *Store) SaveWindow(ctx context.Context, key domain.WindowKey, records []*domain.Record, ttl time.Duration) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal window %s: %w", key, err)
	}
	if err := s.client.Set(ctx, WindowKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save window %s: %w", key, err)
	}
	return nil
}

// GetWindow retrieves a window snapshot. ok is false on a miss (expired or
// never written).
func (s *Store) GetWindow(ctx context.Context, key domain.WindowKey) ([]*domain.Record, bool, error) {
	data, err := s.client.Get(ctx, WindowKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get window %s: %w", key, err)
	}

	var records []*domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal window %s: %w", key, err)
	}
	return records, true, nil
}

// WindowExists reports whether a window snapshot is still live
func (s *Store) WindowExists(ctx context.Context, key domain.WindowKey) (bool, error) {
	n, err := s.client.Exists(ctx, WindowKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check window %s: %w", key, err)
	}
	return n > 0, nil
}

// DropWindow removes a window snapshot
func (s *Store) DropWindow(ctx context.Context, key domain.WindowKey) error {
	if err := s.client.Del(ctx, WindowKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to drop window %s: %w", key, err)
	}
	return nil
}

// AllWindowKeys returns the keys of every live window snapshot
func (s *Store) AllWindowKeys(ctx context.Context) ([]domain.WindowKey, error) {
	var keys []domain.WindowKey
	iter := s.client.Scan(ctx, 0, KeyPrefixWindow+"*", 0).Iterator()
	for iter.Next(ctx) {
		key, err := ExtractWindowKey(iter.Val())
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan window keys: %w", err)
	}
	return keys, nil
}

// SaveRoster caches the team configuration document
func (s *Store) SaveRoster(ctx context.Context, cfg *domain.TeamConfig, ttl time.Duration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}
	if err := s.client.Set(ctx, KeyRoster, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

// GetRoster retrieves the cached team configuration document. ok is false on
// a miss.
func (s *Store) GetRoster(ctx context.Context) (*domain.TeamConfig, bool, error) {
	data, err := s.client.Get(ctx, KeyRoster).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get roster: %w", err)
	}

	var cfg domain.TeamConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal roster: %w", err)
	}
	return &cfg, true, nil
}
