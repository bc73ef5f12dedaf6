package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/taskdeck/internal/task"
)

func TestDefaultSeedCoversEveryStatus(t *testing.T) {
	seed := DefaultSeed()
	require.Len(t, seed, 3)
	assert.Equal(t, task.StatusTodo, seed[0].Status)
	assert.Equal(t, task.StatusInProgress, seed[1].Status)
	assert.Equal(t, task.StatusCompleted, seed[2].Status)
}

func TestLoadSeedFileAppliesDefaults(t *testing.T) {
	doc := strings.TrimSpace(`
tasks:
  - title: "  Write report "
    priority: HIGH
    tags: ["work", " ", "urgent", "work"]
  - title: Water plants
    status: completed
    due_date: "2025-10-20"
`)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, seed, 2)

	assert.Equal(t, task.Fields{
		Title:    "Write report",
		Status:   task.StatusTodo,
		Priority: task.PriorityHigh,
		Tags:     []string{"work", "urgent", "work"},
	}, seed[0])
	assert.Equal(t, task.StatusCompleted, seed[1].Status)
	assert.Equal(t, task.PriorityMedium, seed[1].Priority)
	assert.Equal(t, "2025-10-20", seed[1].DueDate)
}

func TestParseSeedRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown status":   "tasks:\n  - title: a\n    status: done\n",
		"unknown priority": "tasks:\n  - title: a\n    priority: urgent\n",
		"blank title":      "tasks:\n  - title: '  '\n",
		"bad yaml":         "tasks: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
