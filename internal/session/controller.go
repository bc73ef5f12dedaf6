// Package session mediates between a task view and the store. The
// controller holds the displayed snapshot, the active filter and the open
// form, and re-reads the whole store after every write instead of patching
// its snapshot locally.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kingrea/taskdeck/internal/store"
	"github.com/kingrea/taskdeck/internal/task"
)

var (
	// ErrValidation is returned by Submit when the draft cannot be sent.
	ErrValidation = errors.New("session: validation failed")
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("session: submission in progress")
	// ErrNotComposing is returned by form operations while no form is open.
	ErrNotComposing = errors.New("session: no form open")
	// ErrUnknownField is returned for draft field names the form does not have.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrInvalidValue is returned for statuses, priorities and filters
	// outside their enumerations.
	ErrInvalidValue = errors.New("session: invalid value")
)

// Logger receives activity lines. *logbook.Logbook satisfies it.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Controller is one UI session over a store.
type Controller struct {
	id    string
	store store.Store
	log   Logger

	// opMu serializes store sequences (write followed by refresh, or a bare
	// refresh) so an older read can never replace a newer snapshot.
	opMu sync.Mutex

	mu        sync.Mutex
	snapshot  []task.Task
	filter    Filter
	mode      Mode
	draft     Draft
	editing   bool
	editingID int
	loading   bool
	lastErr   error
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger routes activity lines to l.
func WithLogger(l Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithFilter sets the initial filter. Invalid filters are ignored.
func WithFilter(f Filter) Option {
	return func(c *Controller) {
		if f.Valid() {
			c.filter = f
		}
	}
}

// New creates a controller over st. The snapshot starts empty; call Refresh
// to load it.
func New(st store.Store, opts ...Option) (*Controller, error) {
	if st == nil {
		return nil, fmt.Errorf("session: store is required")
	}
	c := &Controller{
		id:     uuid.NewString(),
		store:  st,
		log:    nopLogger{},
		filter: FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ID identifies this session in log lines.
func (c *Controller) ID() string {
	return c.id
}

// State returns a copy of the observable state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]task.Task, len(c.snapshot))
	for i, t := range c.snapshot {
		snapshot[i] = t.Clone()
	}
	return ViewState{
		Snapshot:  snapshot,
		Filter:    c.filter,
		Mode:      c.mode,
		Draft:     c.draft,
		Editing:   c.editing,
		EditingID: c.editingID,
		Loading:   c.loading,
		LastErr:   c.lastErr,
	}
}

// Visible returns the snapshot filtered by the active filter. It is
// recomputed on every call.
func (c *Controller) Visible() []task.Task {
	return c.State().Visible()
}

// Summary counts the current snapshot.
func (c *Controller) Summary() Summary {
	return c.State().Summary()
}

// Refresh replaces the snapshot with the store's current contents. On error
// the previous snapshot is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	err := c.refresh(ctx)
	c.recordErr(err)
	return err
}

// BeginCreate opens an empty form.
func (c *Controller) BeginCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeSubmitting {
		return ErrBusy
	}
	c.mode = ModeComposing
	c.draft = NewDraft()
	c.editing = false
	c.editingID = 0
	return nil
}

// BeginEdit opens a form seeded from t.
func (c *Controller) BeginEdit(t task.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeSubmitting {
		return ErrBusy
	}
	c.mode = ModeComposing
	c.draft = DraftFrom(t)
	c.editing = true
	c.editingID = t.ID
	return nil
}

// UpdateDraftField changes one form value. It never touches the store.
func (c *Controller) UpdateDraftField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeComposing {
		return ErrNotComposing
	}
	return c.draft.set(field, value)
}

// Cancel closes the form and drops the draft.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeSubmitting {
		return ErrBusy
	}
	c.closeForm()
	return nil
}

// SetFilter selects which tasks Visible returns.
func (c *Controller) SetFilter(f Filter) error {
	if !f.Valid() {
		return fmt.Errorf("%w: filter %q", ErrInvalidValue, string(f))
	}
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	return nil
}

// Submit sends the open form to the store, creating a task or updating the
// one being edited, then refreshes. A blank title keeps the form open. A
// second Submit while one is in flight returns ErrBusy and sends nothing.
// Whatever the store answers, the form closes and the snapshot is re-read.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.mode {
	case ModeSubmitting:
		c.mu.Unlock()
		return ErrBusy
	case ModeIdle:
		c.mu.Unlock()
		return ErrNotComposing
	}
	if strings.TrimSpace(c.draft.Title) == "" {
		c.mu.Unlock()
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	fields := c.draft.fields()
	editing, id := c.editing, c.editingID
	c.mode = ModeSubmitting
	c.mu.Unlock()

	c.opMu.Lock()
	defer c.opMu.Unlock()

	var opErr error
	if editing {
		_, opErr = c.store.Update(ctx, id, task.FullPatch(fields))
		if opErr == nil {
			c.log.Info("[%s] updated task %d %q", c.shortID(), id, fields.Title)
		}
	} else {
		var created task.Task
		created, opErr = c.store.Create(ctx, fields)
		if opErr == nil {
			c.log.Info("[%s] created task %d %q", c.shortID(), created.ID, created.Title)
		}
	}
	if opErr != nil {
		opErr = fmt.Errorf("session: submit: %w", opErr)
		c.log.Error("[%s] %v", c.shortID(), opErr)
	}

	refreshErr := c.refresh(ctx)

	c.mu.Lock()
	c.closeForm()
	c.mu.Unlock()

	return c.recordErr(errors.Join(opErr, refreshErr))
}

// Remove deletes a task and refreshes. Deleting an id the store no longer
// holds is not an error; the refreshed snapshot shows the outcome either way.
func (c *Controller) Remove(ctx context.Context, id int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	removed, err := c.store.Delete(ctx, id)
	switch {
	case err != nil:
		err = fmt.Errorf("session: remove task %d: %w", id, err)
		c.log.Error("[%s] %v", c.shortID(), err)
	case removed:
		c.log.Info("[%s] deleted task %d", c.shortID(), id)
	default:
		c.log.Warn("[%s] task %d was already gone", c.shortID(), id)
	}

	refreshErr := c.refresh(ctx)
	return c.recordErr(errors.Join(err, refreshErr))
}

// SetStatus moves a task to status and refreshes. A missing task surfaces
// as store.ErrNotFound after the refresh.
func (c *Controller) SetStatus(ctx context.Context, id int, status task.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidValue, string(status))
	}
	c.opMu.Lock()
	defer c.opMu.Unlock()

	_, err := c.store.Update(ctx, id, task.StatusPatch(status))
	if err != nil {
		err = fmt.Errorf("session: set status of task %d: %w", id, err)
		c.log.Error("[%s] %v", c.shortID(), err)
	} else {
		c.log.Info("[%s] task %d -> %s", c.shortID(), id, status)
	}

	refreshErr := c.refresh(ctx)
	return c.recordErr(errors.Join(err, refreshErr))
}

// refresh must be called with opMu held.
func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	tasks, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		err = fmt.Errorf("session: refresh: %w", err)
		c.log.Error("[%s] %v", c.shortID(), err)
		return err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.snapshot = tasks
	return nil
}

func (c *Controller) recordErr(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	return err
}

// closeForm must be called with mu held.
func (c *Controller) closeForm() {
	c.mode = ModeIdle
	c.draft = Draft{}
	c.editing = false
	c.editingID = 0
}

func (c *Controller) shortID() string {
	if len(c.id) > 8 {
		return c.id[:8]
	}
	return c.id
}
