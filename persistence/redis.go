package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BaSui01/teamflow/types"
)

func newRedisClient(cfg Config) (*redis.Client, string, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, "", fmt.Errorf("failed to connect to redis: %w", err)
	}

	keyPrefix := cfg.Redis.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "teamflow:"
	}
	return client, keyPrefix, nil
}

// RedisMessageStore is a Redis-based implementation of MessageStore.
// Each team's log is a Redis list of JSON-encoded messages, so append order
// is preserved by the backend itself.
type RedisMessageStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisMessageStore creates a new Redis-based message store.
func NewRedisMessageStore(cfg Config) (*RedisMessageStore, error) {
	client, prefix, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisMessageStore{client: client, keyPrefix: prefix + "msg:"}, nil
}

// Close closes the store.
func (s *RedisMessageStore) Close() error {
	return s.client.Close()
}

// Ping checks if the store is healthy.
func (s *RedisMessageStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisMessageStore) logKey(teamID string) string {
	return s.keyPrefix + "log:" + teamID
}

// AppendMessage persists a single message.
func (s *RedisMessageStore) AppendMessage(ctx context.Context, msg *types.Message) error {
	if msg == nil || msg.TeamID == "" {
		return ErrInvalidInput
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return s.client.RPush(ctx, s.logKey(msg.TeamID), data).Err()
}

// ListMessages retrieves all messages for a team in append order.
func (s *RedisMessageStore) ListMessages(ctx context.Context, teamID string) ([]*types.Message, error) {
	entries, err := s.client.LRange(ctx, s.logKey(teamID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*types.Message, 0, len(entries))
	for _, entry := range entries {
		var msg types.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		out = append(out, &msg)
	}
	return out, nil
}

// RedisTaskStore is a Redis-based implementation of TaskStore. Snapshots
// live in a hash keyed by task ID; a companion list records assignment order.
type RedisTaskStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTaskStore creates a new Redis-based task snapshot store.
func NewRedisTaskStore(cfg Config) (*RedisTaskStore, error) {
	client, prefix, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisTaskStore{client: client, keyPrefix: prefix + "task:"}, nil
}

// Close closes the store.
func (s *RedisTaskStore) Close() error {
	return s.client.Close()
}

// Ping checks if the store is healthy.
func (s *RedisTaskStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisTaskStore) dataKey(teamID string) string {
	return s.keyPrefix + "data:" + teamID
}

func (s *RedisTaskStore) orderKey(teamID string) string {
	return s.keyPrefix + "order:" + teamID
}

// SaveTask persists a task snapshot, overwriting any previous snapshot.
func (s *RedisTaskStore) SaveTask(ctx context.Context, task *types.Task) error {
	if task == nil || task.TeamID == "" || task.ID == "" {
		return ErrInvalidInput
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	// HSet reports how many fields were newly added; a new task ID also
	// goes onto the order list.
	added, err := s.client.HSet(ctx, s.dataKey(task.TeamID), task.ID, data).Result()
	if err != nil {
		return err
	}
	if added > 0 {
		if err := s.client.RPush(ctx, s.orderKey(task.TeamID), task.ID).Err(); err != nil {
			return err
		}
	}
	return nil
}

// ListTasks retrieves all task snapshots for a team in assignment order.
func (s *RedisTaskStore) ListTasks(ctx context.Context, teamID string) ([]*types.Task, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(teamID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	entries, err := s.client.HMGet(ctx, s.dataKey(teamID), ids...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*types.Task, 0, len(entries))
	for _, entry := range entries {
		raw, ok := entry.(string)
		if !ok {
			continue
		}
		var task types.Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			return nil, fmt.Errorf("unmarshal task: %w", err)
		}
		out = append(out, &task)
	}
	return out, nil
}
