package persistence

import (
	"context"
	"sync"

	"github.com/BaSui01/teamflow/types"
)

// MemoryMessageStore is the in-memory implementation of MessageStore.
// Suitable for development and testing; data is lost on restart.
type MemoryMessageStore struct {
	messages map[string][]*types.Message // teamID -> log
	mu       sync.RWMutex
	closed   bool
}

// NewMemoryMessageStore creates a new in-memory message store.
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{
		messages: make(map[string][]*types.Message),
	}
}

// Close closes the store.
func (s *MemoryMessageStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping checks if the store is healthy.
func (s *MemoryMessageStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// AppendMessage persists a single message.
func (s *MemoryMessageStore) AppendMessage(ctx context.Context, msg *types.Message) error {
	if msg == nil || msg.TeamID == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	s.messages[msg.TeamID] = append(s.messages[msg.TeamID], msg.Clone())
	return nil
}

// ListMessages retrieves all messages for a team in append order.
func (s *MemoryMessageStore) ListMessages(ctx context.Context, teamID string) ([]*types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	log := s.messages[teamID]
	out := make([]*types.Message, 0, len(log))
	for _, msg := range log {
		out = append(out, msg.Clone())
	}
	return out, nil
}

// MemoryTaskStore is the in-memory implementation of TaskStore.
type MemoryTaskStore struct {
	tasks  map[string]map[string]*types.Task // teamID -> taskID -> snapshot
	order  map[string][]string               // teamID -> taskIDs in first-save order
	mu     sync.RWMutex
	closed bool
}

// NewMemoryTaskStore creates a new in-memory task snapshot store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[string]map[string]*types.Task),
		order: make(map[string][]string),
	}
}

// Close closes the store.
func (s *MemoryTaskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping checks if the store is healthy.
func (s *MemoryTaskStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// SaveTask persists a task snapshot, overwriting any previous snapshot.
func (s *MemoryTaskStore) SaveTask(ctx context.Context, task *types.Task) error {
	if task == nil || task.TeamID == "" || task.ID == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	byID := s.tasks[task.TeamID]
	if byID == nil {
		byID = make(map[string]*types.Task)
		s.tasks[task.TeamID] = byID
	}
	if _, exists := byID[task.ID]; !exists {
		s.order[task.TeamID] = append(s.order[task.TeamID], task.ID)
	}
	byID[task.ID] = task.Clone()
	return nil
}

// ListTasks retrieves all task snapshots for a team in assignment order.
func (s *MemoryTaskStore) ListTasks(ctx context.Context, teamID string) ([]*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	byID := s.tasks[teamID]
	out := make([]*types.Task, 0, len(byID))
	for _, id := range s.order[teamID] {
		if task, ok := byID[id]; ok {
			out = append(out, task.Clone())
		}
	}
	return out, nil
}
