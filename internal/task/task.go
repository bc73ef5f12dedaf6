// Package task defines the task record shared by the store, the session
// controller and the terminal UI.
package task

import (
	"fmt"
	"strings"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus converts user input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("task: unknown status %q", raw)
	}
	return s, nil
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts user input into a Priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("task: unknown priority %q", raw)
	}
	return p, nil
}

// Task is a single unit of trackable work. ID is assigned by the store and
// never changes afterwards.
type Task struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Status      Status   `yaml:"status"`
	Priority    Priority `yaml:"priority"`
	DueDate     string   `yaml:"due_date,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// Fields returns the task without its identity.
func (t Task) Fields() Fields {
	return Fields{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Tags:        cloneTags(t.Tags),
	}
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	t.Tags = cloneTags(t.Tags)
	return t
}

// Fields is the create input: a task minus its ID.
type Fields struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Status      Status   `yaml:"status"`
	Priority    Priority `yaml:"priority"`
	DueDate     string   `yaml:"due_date,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// WithID materializes the fields as a task carrying id.
func (f Fields) WithID(id int) Task {
	return Task{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
		DueDate:     f.DueDate,
		Tags:        cloneTags(f.Tags),
	}
}

// Patch represents a partial update.
// nil pointer => "no change"
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *string
	Tags        *[]string
}

// StatusPatch is the patch used for a plain status transition.
func StatusPatch(s Status) Patch {
	return Patch{Status: &s}
}

// FullPatch sets every field of f.
func FullPatch(f Fields) Patch {
	tags := cloneTags(f.Tags)
	return Patch{
		Title:       &f.Title,
		Description: &f.Description,
		Status:      &f.Status,
		Priority:    &f.Priority,
		DueDate:     &f.DueDate,
		Tags:        &tags,
	}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && p.Tags == nil
}

// Apply merges the set fields of p into t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = cloneTags(*p.Tags)
	}
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
