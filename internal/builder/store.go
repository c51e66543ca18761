package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const draftPrefix = "portal:draft:"

// DraftStore keeps one wizard draft per session and key in Redis.
type DraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDraftStore(rdb *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{rdb: rdb, ttl: ttl}
}

func draftKey(sessionID, key string) string {
	return draftPrefix + sessionID + ":" + key
}

// Load returns the stored draft; ok is false when there is none.
func (s *DraftStore) Load(ctx context.Context, sessionID, key string) (Draft, bool, error) {
	data, err := s.rdb.Get(ctx, draftKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, false, nil
	}
	if err != nil {
		return Draft{}, false, fmt.Errorf("failed to load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, false, fmt.Errorf("failed to decode draft: %w", err)
	}
	if d.Sections == nil {
		d.Sections = []Section{}
	}
	return d, true, nil
}

func (s *DraftStore) Save(ctx context.Context, sessionID string, d Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.rdb.Set(ctx, draftKey(sessionID, d.Key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.rdb.Del(ctx, draftKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
