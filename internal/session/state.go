package session

import (
	"fmt"
	"strings"

	"github.com/kingrea/taskdeck/internal/task"
)

// Mode is the controller's position in the compose/submit cycle.
type Mode int

const (
	ModeIdle       Mode = iota // viewing the snapshot, no form open
	ModeComposing              // create or edit form open
	ModeSubmitting             // store call for the form in flight
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeComposing:
		return "composing"
	case ModeSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Filter selects which snapshot tasks the view renders: every task, or only
// tasks with one status.
type Filter string

// FilterAll matches every task.
const FilterAll Filter = "all"

// Filters lists the selectable filters in the order the UI cycles through them.
var Filters = []Filter{
	FilterAll,
	Filter(task.StatusTodo),
	Filter(task.StatusInProgress),
	Filter(task.StatusCompleted),
}

// StatusFilter narrows the view to one status.
func StatusFilter(s task.Status) Filter {
	return Filter(s)
}

// ParseFilter accepts "all" or any task status.
func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: filter %q", ErrInvalidValue, raw)
	}
	return f, nil
}

func (f Filter) Valid() bool {
	return f == FilterAll || task.Status(f).Valid()
}

// Match reports whether t belongs in the filtered view.
func (f Filter) Match(t task.Task) bool {
	if f == FilterAll {
		return true
	}
	return t.Status == task.Status(f)
}

// Next returns the filter after f in Filters, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Field names a draft form field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStatus      Field = "status"
	FieldPriority    Field = "priority"
	FieldDueDate     Field = "dueDate"
	FieldTags        Field = "tags"
)

// FormFields lists the draft fields in form order.
var FormFields = []Field{FieldTitle, FieldDescription, FieldStatus, FieldPriority, FieldDueDate, FieldTags}

// Draft holds unsaved form values. Tags stay as the raw comma separated text
// the user typed until submission.
type Draft struct {
	Title       string
	Description string
	Status      task.Status
	Priority    task.Priority
	DueDate     string
	Tags        string
}

// NewDraft returns the empty create form.
func NewDraft() Draft {
	return Draft{Status: task.StatusTodo, Priority: task.PriorityMedium}
}

// DraftFrom seeds an edit form from an existing task.
func DraftFrom(t task.Task) Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Tags:        task.JoinTags(t.Tags),
	}
}

// Value returns the text currently held for field.
func (d Draft) Value(field Field) string {
	switch field {
	case FieldTitle:
		return d.Title
	case FieldDescription:
		return d.Description
	case FieldStatus:
		return string(d.Status)
	case FieldPriority:
		return string(d.Priority)
	case FieldDueDate:
		return d.DueDate
	case FieldTags:
		return d.Tags
	}
	return ""
}

func (d *Draft) set(field Field, value string) error {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldDescription:
		d.Description = value
	case FieldStatus:
		s, err := task.ParseStatus(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		d.Status = s
	case FieldPriority:
		p, err := task.ParsePriority(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		d.Priority = p
	case FieldDueDate:
		d.DueDate = value
	case FieldTags:
		d.Tags = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	return nil
}

// fields converts the draft into store input.
func (d Draft) fields() task.Fields {
	return task.Fields{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		DueDate:     strings.TrimSpace(d.DueDate),
		Tags:        task.ParseTags(d.Tags),
	}
}

// ViewState is everything a view renders from.
type ViewState struct {
	Snapshot  []task.Task
	Filter    Filter
	Mode      Mode
	Draft     Draft
	Editing   bool
	EditingID int
	Loading   bool
	LastErr   error
}

// Composing reports whether a form is open, including while it is being
// submitted.
func (v ViewState) Composing() bool {
	return v.Mode != ModeIdle
}

// Submitting reports whether a form submission is in flight.
func (v ViewState) Submitting() bool {
	return v.Mode == ModeSubmitting
}

// Visible returns the snapshot tasks matching the active filter.
func (v ViewState) Visible() []task.Task {
	return FilterTasks(v.Snapshot, v.Filter)
}

// Summary counts the snapshot.
func (v ViewState) Summary() Summary {
	return Summarize(v.Snapshot)
}

// Summary holds the counts shown under the task list.
type Summary struct {
	Total     int
	Completed int
	ByStatus  map[task.Status]int
}

// FilterTasks keeps the tasks matching f, preserving order.
func FilterTasks(tasks []task.Task, f Filter) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Summarize counts tasks in total and per status.
func Summarize(tasks []task.Task) Summary {
	s := Summary{Total: len(tasks), ByStatus: make(map[task.Status]int, len(task.Statuses))}
	for _, t := range tasks {
		s.ByStatus[t.Status]++
	}
	s.Completed = s.ByStatus[task.StatusCompleted]
	return s
}
