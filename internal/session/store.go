package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session id has no live entry.
var ErrNotFound = errors.New("session not found")

// Data is the server-side state attached to a session id.
type Data struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// Store persists session state keyed by session id.
type Store interface {
	Set(ctx context.Context, id string, data Data, ttl time.Duration) error
	Get(ctx context.Context, id string) (Data, error)
	Delete(ctx context.Context, id string) error
}

const keyPrefix = "session:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Redis-backed session store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Set(ctx context.Context, id string, data Data, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, payload, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, id string) (Data, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Data{}, ErrNotFound
		}
		return Data{}, err
	}
	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return Data{}, err
	}
	return data, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

// MemoryStore is an in-process store for tests and local development.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Set(_ context.Context, id string, data Data, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		return Data{}, ErrNotFound
	}
	return entry.data, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
