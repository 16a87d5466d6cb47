package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Entry is a recorded response replayed for a repeated Idempotency-Key.
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// InFlight reports whether the entry is a reservation whose request has not
// finished yet.
func (e *Entry) InFlight() bool {
	return e.Status == 0
}

// Store records responses per key. Reserve claims a key atomically and
// reports false when another request already holds it; Release drops a
// reservation that never produced a response worth replaying.
type Store interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, entry *Entry) error
}

// MemoryStore keeps entries in process. Replays do not survive a restart
// and are not shared between instances.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, 2*ttl)}
}

func (s *MemoryStore) Reserve(ctx context.Context, key string) (bool, error) {
	return s.cache.Add(key, Entry{}, cache.DefaultExpiration) == nil, nil
}

func (s *MemoryStore) Release(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, nil
	}
	entry := v.(Entry)
	return &entry, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, entry *Entry) error {
	s.cache.SetDefault(key, *entry)
	return nil
}

// RedisStore shares entries between API instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "idem:"}
}

func (s *RedisStore) Reserve(ctx context.Context, key string) (bool, error) {
	raw, err := json.Marshal(Entry{})
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, s.prefix+key, raw, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency store: %w", err)
	}
	return nil
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
