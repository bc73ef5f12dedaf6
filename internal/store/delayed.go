package store

import (
	"context"
	"time"

	"github.com/kingrea/taskdeck/internal/task"
)

// Latency holds the simulated round-trip time of each store call.
type Latency struct {
	List   time.Duration
	Create time.Duration
	Update time.Duration
	Delete time.Duration
}

// DefaultLatency mirrors a slow backend: reads and deletes are quicker than
// writes.
var DefaultLatency = Latency{
	List:   100 * time.Millisecond,
	Create: 150 * time.Millisecond,
	Update: 150 * time.Millisecond,
	Delete: 100 * time.Millisecond,
}

// Delayed wraps a Store and waits before every call, so the UI exercises its
// loading and submitting states the way it would against a remote backend.
type Delayed struct {
	inner   Store
	latency Latency
}

// NewDelayed wraps inner with the given latency.
func NewDelayed(inner Store, latency Latency) *Delayed {
	return &Delayed{inner: inner, latency: latency}
}

func (d *Delayed) List(ctx context.Context) ([]task.Task, error) {
	if err := wait(ctx, d.latency.List); err != nil {
		return nil, err
	}
	return d.inner.List(ctx)
}

func (d *Delayed) Create(ctx context.Context, fields task.Fields) (task.Task, error) {
	if err := wait(ctx, d.latency.Create); err != nil {
		return task.Task{}, err
	}
	return d.inner.Create(ctx, fields)
}

func (d *Delayed) Update(ctx context.Context, id int, patch task.Patch) (task.Task, error) {
	if err := wait(ctx, d.latency.Update); err != nil {
		return task.Task{}, err
	}
	return d.inner.Update(ctx, id, patch)
}

func (d *Delayed) Delete(ctx context.Context, id int) (bool, error) {
	if err := wait(ctx, d.latency.Delete); err != nil {
		return false, err
	}
	return d.inner.Delete(ctx, id)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
