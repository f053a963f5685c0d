package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "restoivr:call:"

// RedisStore keeps sessions in Redis so several instances can answer the
// same call. Redis expires idle keys itself.
//
// The per-call lock is local to the process; Twilio sends the turns of a
// call one at a time, which is what keeps cross-instance updates ordered.
type RedisStore struct {
	client *redis.Client
	idle   time.Duration
	locks  keyedMutex
}

// NewRedisStore connects and pings the server before returning. rawURL is a
// redis:// or rediss:// URL; a bare host:port is accepted too.
func NewRedisStore(ctx context.Context, rawURL, password string, idle time.Duration) (*RedisStore, error) {
	opts, err := redisOptions(rawURL, password)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return &RedisStore{client: client, idle: idle}, nil
}

// redisOptions parses rawURL. A non-empty password overrides the one in the URL.
func redisOptions(rawURL, password string) (*redis.Options, error) {
	var opts *redis.Options
	if strings.Contains(rawURL, "://") {
		parsed, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: rawURL}
	}
	if password != "" {
		opts.Password = password
	}
	return opts, nil
}

func (s *RedisStore) Update(ctx context.Context, callID string, fn func(*CallSession) error) error {
	unlock := s.locks.Lock(callID)
	defer unlock()

	current, found, err := s.load(ctx, callID)
	if err != nil {
		return err
	}
	if !found {
		current = newCallSession(callID, time.Now())
	}

	if err := fn(current); err != nil {
		return err
	}
	current.LastActivity = time.Now()

	data, err := sonic.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", callID, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+callID, data, s.idle).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", callID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, callID string) (*CallSession, bool, error) {
	return s.load(ctx, callID)
}

func (s *RedisStore) load(ctx context.Context, callID string) (*CallSession, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+callID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session %s: %w", callID, err)
	}

	var cs CallSession
	if err := sonic.Unmarshal(data, &cs); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", callID, err)
	}
	return &cs, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, callID string) error {
	return s.client.Del(ctx, redisKeyPrefix+callID).Err()
}

// Evict is a no-op: keys carry a TTL.
func (s *RedisStore) Evict(ctx context.Context) (int, error) {
	return 0, nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
