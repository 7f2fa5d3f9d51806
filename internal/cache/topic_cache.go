package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"goal-roadmap/internal/domain"
)

// TopicCache guarda los temas generados por meta para no repetir la llamada al LLM.
type TopicCache interface {
	Get(ctx context.Context, goal string) ([]domain.Topic, bool, error)
	Set(ctx context.Context, goal string, topics []domain.Topic) error
}

// NormalizeGoal arma la clave de cache: minusculas y espacios colapsados.
func NormalizeGoal(goal string) string {
	return strings.Join(strings.Fields(strings.ToLower(goal)), " ")
}

type redisTopicCache struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisTopicCache devuelve nil si client es nil.
func NewRedisTopicCache(client *redis.Client, ttl time.Duration) TopicCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisTopicCache{
		client:  client,
		prefix:  "roadmap:goal:",
		ttl:     ttl,
		timeout: 500 * time.Millisecond,
	}
}

func (c *redisTopicCache) Get(ctx context.Context, goal string) ([]domain.Topic, bool, error) {
	key := NormalizeGoal(goal)
	if key == "" {
		return nil, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var topics []domain.Topic
	if err := json.Unmarshal(raw, &topics); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached topics: %w", err)
	}
	return topics, true, nil
}

func (c *redisTopicCache) Set(ctx context.Context, goal string, topics []domain.Topic) error {
	key := NormalizeGoal(goal)
	if key == "" {
		return nil
	}
	raw, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}

type memoryTopicCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryEntry
}

type memoryEntry struct {
	topics    []domain.Topic
	expiresAt time.Time
}

// NewMemoryTopicCache es el reemplazo local cuando no hay redis configurado.
func NewMemoryTopicCache(ttl time.Duration) TopicCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &memoryTopicCache{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
	}
}

func (c *memoryTopicCache) Get(_ context.Context, goal string) ([]domain.Topic, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := NormalizeGoal(goal)
	entry, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}
	return entry.topics, true, nil
}

func (c *memoryTopicCache) Set(_ context.Context, goal string, topics []domain.Topic) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := NormalizeGoal(goal)
	if key == "" {
		return nil
	}
	c.items[key] = memoryEntry{topics: topics, expiresAt: time.Now().UTC().Add(c.ttl)}
	return nil
}
