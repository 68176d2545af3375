package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgredis "github.com/yourbuzzfeed/core/internal/pkg/redis"
)

const redisKeyPrefix = "ybf:sess:"

// RedisStore keeps sessions as JSON values whose key TTL matches the session.
type RedisStore struct {
	rc  *pkgredis.Client
	now func() time.Time
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rc *pkgredis.Client) *RedisStore {
	return &RedisStore{rc: rc, now: time.Now}
}

func redisKey(token string) string { return redisKeyPrefix + token }

func (r *RedisStore) Create(ctx context.Context, userID uint, ttl time.Duration) (*Session, error) {
	s := newSession(uuid.NewString(), userID, ttl, r.now())
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := r.rc.Set(ctx, redisKey(s.Token), payload, s.ExpiresAt.Sub(s.CreatedAt)); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := r.rc.Get(ctx, redisKey(token))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return r.rc.Del(ctx, redisKey(token))
}

// Sweep removes sessions that are expired by their own timestamp but still
// present, e.g. keys written without a TTL.
func (r *RedisStore) Sweep(ctx context.Context) (int64, error) {
	var removed int64
	now := r.now()
	err := r.rc.ScanPrefix(ctx, redisKeyPrefix, func(key string) error {
		raw, err := r.rc.Get(ctx, key)
		if err != nil || raw == "" {
			return err
		}
		var s Session
		if json.Unmarshal([]byte(raw), &s) == nil && !s.Expired(now) {
			return nil
		}
		if err := r.rc.Del(ctx, key); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}
