package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/taskdeck/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3C3C5A"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	labelStyle    = lipgloss.NewStyle().Width(13).Foreground(lipgloss.Color("#CCCCCC"))
	focusLabel    = labelStyle.Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7D56F4"))
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3C3C5A")).Padding(0, 1)
)

var statusStyles = map[task.Status]lipgloss.Style{
	task.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("#CBD5E1")),
	task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
	task.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
}

var statusLabels = map[task.Status]string{
	task.StatusTodo:       "To Do",
	task.StatusInProgress: "In Progress",
	task.StatusCompleted:  "Completed",
}

var priorityStyles = map[task.Priority]lipgloss.Style{
	task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
	task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")),
	task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
}

func renderStatus(s task.Status) string {
	label, ok := statusLabels[s]
	if !ok {
		label = string(s)
	}
	return statusStyles[s].Render(label)
}

func renderPriority(p task.Priority) string {
	return priorityStyles[p].Render(string(p))
}

func statusMarker(s task.Status) string {
	switch s {
	case task.StatusCompleted:
		return "[x]"
	case task.StatusInProgress:
		return "[~]"
	}
	return "[ ]"
}
