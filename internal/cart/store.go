package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "woodcraft:cart:"

// Store persists one serialized item list per cart session. State survives
// reloads of the same session; carts are never shared across sessions.
type Store interface {
	Load(ctx context.Context, cartID string) ([]Item, error)
	Save(ctx context.Context, cartID string, items []Item) error
	Delete(ctx context.Context, cartID string) error
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Load(ctx context.Context, cartID string) ([]Item, error) {
	payload, err := s.client.Get(ctx, cartKeyPrefix+cartID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("store: failed to load cart %s: %w", cartID, err)
	}

	var items []Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("store: failed to decode cart %s: %w", cartID, err)
	}

	return items, nil
}

func (s *redisStore) Save(ctx context.Context, cartID string, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("store: failed to encode cart %s: %w", cartID, err)
	}

	if err := s.client.Set(ctx, cartKeyPrefix+cartID, payload, 0).Err(); err != nil {
		return fmt.Errorf("store: failed to save cart %s: %w", cartID, err)
	}

	return nil
}

func (s *redisStore) Delete(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+cartID).Err(); err != nil {
		return fmt.Errorf("store: failed to delete cart %s: %w", cartID, err)
	}
	return nil
}

// memoryStore backs tests and local runs without Redis.
type memoryStore struct {
	mu    sync.Mutex
	carts map[string][]Item
}

func NewMemoryStore() Store {
	return &memoryStore{carts: make(map[string][]Item)}
}

func (s *memoryStore) Load(_ context.Context, cartID string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, len(s.carts[cartID]))
	copy(items, s.carts[cartID])
	return items, nil
}

func (s *memoryStore) Save(_ context.Context, cartID string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]Item, len(items))
	copy(stored, items)
	s.carts[cartID] = stored
	return nil
}

func (s *memoryStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
	return nil
}
