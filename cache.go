package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cor0nius/cityreg/internal/registration"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

func sessionKey(userID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(userID, 10)
}

// RedisSessionStore keeps registration sessions in Redis as JSON. Every save
// resets the key's expiry, so an abandoned flow disappears after ttl.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) Get(ctx context.Context, userID int64) (*registration.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session registration.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session of user %d: %w", userID, err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session registration.Session) error {
	p, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.UserID), p, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}

// MemorySessionStore is the single-process fallback used when no Redis URL
// is configured. Sessions are lost on restart.
type MemorySessionStore struct {
	cache *cache.Cache
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, userID int64) (*registration.Session, error) {
	v, ok := s.cache.Get(sessionKey(userID))
	if !ok {
		return nil, nil
	}
	session := copySession(v.(registration.Session))
	return &session, nil
}

func (s *MemorySessionStore) Save(ctx context.Context, session registration.Session) error {
	s.cache.Set(sessionKey(session.UserID), copySession(session), cache.DefaultExpiration)
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, userID int64) error {
	s.cache.Delete(sessionKey(userID))
	return nil
}

// copySession detaches the pending record so callers never share it with
// the cache.
func copySession(s registration.Session) registration.Session {
	if s.Pending != nil {
		p := *s.Pending
		s.Pending = &p
	}
	return s
}

// ConnectSessions picks the session backend: Redis when REDIS_URL is set,
// the in-memory store otherwise. The returned func releases the backend.
func (cfg *apiConfig) ConnectSessions(ctx context.Context) (func() error, error) {
	if cfg.redisURL == "" {
		cfg.logger.Warn("REDIS_URL not set, keeping sessions in memory")
		cfg.sessions = NewMemorySessionStore(cfg.sessionTTL)
		return func() error { return nil }, nil
	}

	opt, err := redis.ParseURL(cfg.redisURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("couldn't connect to cache: %w", err)
	}
	cfg.sessions = NewRedisSessionStore(client, cfg.sessionTTL)
	cfg.logger.Info("connected to redis", "session_ttl", cfg.sessionTTL.String())
	return client.Close, nil
}
