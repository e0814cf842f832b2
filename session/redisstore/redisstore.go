// Package redisstore keeps the session in Redis so several processes (or
// replicas of a service embedding the client) share one set of credentials.
// The store's getters swallow transport errors and report "absent": a broken
// Redis connection reads like a logged-out session rather than failing the
// request that consulted it.
package redisstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Paulndambo/nismart-go/api"
	"github.com/Paulndambo/nismart-go/session"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
	userKey         = "user"
)

var _ session.Store = (*Store)(nil)

type Store struct {
	rdb    *redis.Client
	prefix string
	logger zerolog.Logger

	// Serializes SetTokens so a slow, stale refresh cannot interleave its
	// two writes with a newer one.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to record swallowed storage errors.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Redis-backed store. All keys are namespaced under prefix so
// multiple sessions can share one Redis instance.
func New(rdb *redis.Client, prefix string, options ...Option) (*Store, error) {
	if rdb == nil {
		return nil, errors.New("redisstore.New redis client is required")
	}
	if prefix == "" {
		return nil, errors.New("redisstore.New prefix is required")
	}
	store := &Store{rdb: rdb, prefix: prefix, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

func (s *Store) AccessToken() (string, bool) {
	return s.get(accessTokenKey)
}

func (s *Store) RefreshToken() (string, bool) {
	return s.get(refreshTokenKey)
}

func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.key(accessTokenKey), access, 0)
	pipe.Set(ctx, s.key(refreshTokenKey), refresh, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "redisstore.SetTokens Exec")
	}
	return nil
}

func (s *Store) Profile() (*api.User, bool) {
	raw, ok := s.get(userKey)
	if !ok {
		return nil, false
	}
	var u api.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt stored profile")
		return nil, false
	}
	return &u, true
}

func (s *Store) SetProfile(u *api.User) error {
	ctx := context.Background()
	if u == nil {
		if err := s.rdb.Del(ctx, s.key(userKey)).Err(); err != nil {
			return errors.Wrap(err, "redisstore.SetProfile Del")
		}
		return nil
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return errors.Wrap(err, "redisstore.SetProfile Marshal")
	}
	if err := s.rdb.Set(ctx, s.key(userKey), raw, 0).Err(); err != nil {
		return errors.Wrap(err, "redisstore.SetProfile Set")
	}
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()
	keys := []string{s.key(accessTokenKey), s.key(refreshTokenKey), s.key(userKey)}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "redisstore.Clear Del")
	}
	return nil
}

func (s *Store) key(name string) string {
	return s.prefix + ":" + name
}

func (s *Store) get(name string) (string, bool) {
	val, err := s.rdb.Get(context.Background(), s.key(name)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", s.key(name)).Msg("session read failed")
		}
		return "", false
	}
	return val, val != ""
}
