// Package store owns the authoritative task collection and the policy that
// assigns task identity.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kingrea/taskdeck/internal/task"
)

// ErrNotFound is returned when an update targets an id the store does not hold.
var ErrNotFound = errors.New("store: task not found")

// Store is the asynchronous task data-access surface. Callers that must not
// block run these methods on their own goroutine.
type Store interface {
	List(ctx context.Context) ([]task.Task, error)
	Create(ctx context.Context, fields task.Fields) (task.Task, error)
	Update(ctx context.Context, id int, patch task.Patch) (task.Task, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// MemoryStore keeps tasks in insertion order behind a single mutex. Every
// method runs to completion while holding the lock, so no caller ever sees a
// partially applied operation.
type MemoryStore struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
}

// Option customizes a MemoryStore.
type Option func(*MemoryStore)

// WithStartID sets the first id handed out. Values below 1 are ignored.
func WithStartID(id int) Option {
	return func(s *MemoryStore) {
		if id > 0 {
			s.nextID = id
		}
	}
}

// WithTasks seeds the store through the regular create path, so seeded tasks
// receive consecutive ids starting at the configured start id.
func WithTasks(seed ...task.Fields) Option {
	return func(s *MemoryStore) {
		for _, fields := range seed {
			s.insert(fields)
		}
	}
}

// NewMemoryStore creates an empty store. Options are applied in order, so
// WithStartID must precede WithTasks to affect seeded ids.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a copy of every task in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

// Create assigns the next id and stores the task.
func (s *MemoryStore) Create(ctx context.Context, fields task.Fields) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insert(fields).Clone(), nil
}

// Update merges patch into the task with the given id. Field values are not
// re-validated here; callers only pass enumerated values.
func (s *MemoryStore) Update(ctx context.Context, id int, patch task.Patch) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return task.Task{}, fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}
	patch.Apply(&s.tasks[idx])
	return s.tasks[idx].Clone(), nil
}

// Delete removes the task if present and reports whether anything was removed.
func (s *MemoryStore) Delete(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return true, nil
}

// Len returns the number of tasks held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// insert must be called with mu held (or before the store is shared).
func (s *MemoryStore) insert(fields task.Fields) task.Task {
	t := fields.WithID(s.nextID)
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t
}

func (s *MemoryStore) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
