// Package persistence provides pluggable storage for team message logs and
// task snapshots.
//
// The orchestration core is authoritative and fully in-memory; stores are
// write-behind mirrors that let a deployment keep a copy of the message log
// and task states outside the process. Supported backends:
//   - Memory: for development and testing (default)
//   - Redis: for distributed deployments
package persistence

import (
	"context"
	"errors"

	"github.com/BaSui01/teamflow/types"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrStoreClosed  = errors.New("store is closed")
	ErrInvalidInput = errors.New("invalid input")
)

// StoreType represents the type of storage backend.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr      string `json:"addr" yaml:"addr"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	PoolSize  int    `json:"pool_size" yaml:"pool_size"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// Config is the base configuration for all store implementations.
type Config struct {
	// Type is the storage backend type.
	Type StoreType `json:"type" yaml:"type"`

	// Redis configuration (only used when Type is "redis").
	Redis RedisConfig `json:"redis" yaml:"redis"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Type: StoreTypeMemory,
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  10,
			KeyPrefix: "teamflow:",
		},
	}
}

// Store is the common interface for all storage backends.
type Store interface {
	// Close closes the store.
	Close() error

	// Ping checks if the store is healthy.
	Ping(ctx context.Context) error
}

// MessageStore mirrors a team's append-only message log.
type MessageStore interface {
	Store

	// AppendMessage persists a single message.
	AppendMessage(ctx context.Context, msg *types.Message) error

	// ListMessages retrieves all messages for a team in append order.
	ListMessages(ctx context.Context, teamID string) ([]*types.Message, error)
}

// TaskStore mirrors task snapshots. Saving an existing task ID overwrites
// the previous snapshot; assignment order is preserved.
type TaskStore interface {
	Store

	// SaveTask persists a task snapshot.
	SaveTask(ctx context.Context, task *types.Task) error

	// ListTasks retrieves all task snapshots for a team in assignment order.
	ListTasks(ctx context.Context, teamID string) ([]*types.Task, error)
}

// NewMessageStore creates a message store for the configured backend.
func NewMessageStore(cfg Config) (MessageStore, error) {
	switch cfg.Type {
	case StoreTypeRedis:
		return NewRedisMessageStore(cfg)
	case StoreTypeMemory, "":
		return NewMemoryMessageStore(), nil
	default:
		return nil, errors.New("unknown store type: " + string(cfg.Type))
	}
}

// NewTaskStore creates a task snapshot store for the configured backend.
func NewTaskStore(cfg Config) (TaskStore, error) {
	switch cfg.Type {
	case StoreTypeRedis:
		return NewRedisTaskStore(cfg)
	case StoreTypeMemory, "":
		return NewMemoryTaskStore(), nil
	default:
		return nil, errors.New("unknown store type: " + string(cfg.Type))
	}
}
