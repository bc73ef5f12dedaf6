package store

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/taskdeck/internal/task"
)

// DefaultSeed returns the sample tasks a fresh board starts with.
func DefaultSeed() []task.Fields {
	return []task.Fields{
		{
			Title:       "Complete project proposal",
			Description: "Write and submit Q4 proposal",
			Status:      task.StatusTodo,
			Priority:    task.PriorityHigh,
			DueDate:     "2025-10-15",
			Tags:        []string{"work"},
		},
		{
			Title:       "Review code changes",
			Description: "Review PRs from team",
			Status:      task.StatusInProgress,
			Priority:    task.PriorityMedium,
			DueDate:     "2025-10-10",
			Tags:        []string{"code", "review"},
		},
		{
			Title:       "Update documentation",
			Description: "Add API docs",
			Status:      task.StatusCompleted,
			Priority:    task.PriorityLow,
			DueDate:     "2025-10-08",
			Tags:        []string{"docs"},
		},
	}
}

// seedFile models a YAML seed document:
//
//	tasks:
//	  - title: Write report
//	    status: todo
//	    priority: high
//	    tags: [work]
type seedFile struct {
	Tasks []task.Fields `yaml:"tasks"`
}

// LoadSeedFile reads tasks from a YAML seed document. Missing status and
// priority default to todo and medium; anything else outside the enumerations
// is rejected so no invalid value ever reaches the store.
func LoadSeedFile(path string) ([]task.Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a YAML seed document.
func ParseSeed(data []byte) ([]task.Fields, error) {
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store: parse seed: %w", err)
	}
	out := make([]task.Fields, 0, len(doc.Tasks))
	for i, fields := range doc.Tasks {
		normalized, err := normalizeSeed(fields)
		if err != nil {
			return nil, fmt.Errorf("store: seed tasks[%d]: %w", i, err)
		}
		out = append(out, normalized)
	}
	return out, nil
}

func normalizeSeed(f task.Fields) (task.Fields, error) {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return task.Fields{}, fmt.Errorf("title is required")
	}
	if f.Status == "" {
		f.Status = task.StatusTodo
	}
	status, err := task.ParseStatus(string(f.Status))
	if err != nil {
		return task.Fields{}, err
	}
	f.Status = status
	if f.Priority == "" {
		f.Priority = task.PriorityMedium
	}
	priority, err := task.ParsePriority(string(f.Priority))
	if err != nil {
		return task.Fields{}, err
	}
	f.Priority = priority
	f.DueDate = strings.TrimSpace(f.DueDate)
	f.Tags = task.ParseTags(strings.Join(f.Tags, ","))
	return f, nil
}
