// internal/tui/app.go
//
// This is the terminal UI for taskdeck. It uses bubbletea, which follows
// The Elm Architecture:
//
// 1. Model: the App, which mirrors the session controller's state
// 2. Update: handles keys and the results of store calls
// 3. View: renders the task list or the form
//
// Every controller call that reaches the store runs inside a tea.Cmd, so the
// screen keeps drawing while the store answers. When the command finishes it
// sends an opDoneMsg and the App re-reads the controller state.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/taskdeck/internal/session"
	"github.com/kingrea/taskdeck/internal/store"
	"github.com/kingrea/taskdeck/internal/task"
)

const (
	opLoad    = "load"
	opRefresh = "refresh"
	opSubmit  = "submit"
	opDelete  = "delete"
	opStatus  = "status"
)

var opMessages = map[string]string{
	opRefresh: "Refreshed",
	opSubmit:  "Saved",
	opDelete:  "Task deleted",
	opStatus:  "Status updated",
}

// opDoneMsg reports the end of a store-backed controller call.
type opDoneMsg struct {
	op  string
	err error
}

// ActivityLog is the read side of the logbook shown in the footer.
type ActivityLog interface {
	Tail(maxLines int) ([]string, int)
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithActivityLog shows the last lines entries of log under the task list.
func WithActivityLog(log ActivityLog, lines int) AppOption {
	return func(a *App) {
		a.activity = log
		a.logLines = lines
	}
}

// WithContext sets the parent context for store calls. Quitting cancels it.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.parent = ctx
		}
	}
}

// App is the bubbletea model.
type App struct {
	ctrl     *session.Controller
	parent   context.Context
	ctx      context.Context
	cancel   context.CancelFunc
	activity ActivityLog
	logLines int

	// view is the controller state as of the last message.
	view    session.ViewState
	cursor  int
	focus   int
	inputs  map[session.Field]textinput.Model
	spinner spinner.Model
	pending int

	statusMsg string
	statusErr bool

	width  int
	height int
}

// NewApp creates the UI over ctrl.
func NewApp(ctrl *session.Controller, opts ...AppOption) (*App, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("tui: session controller is required")
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	app := &App{
		ctrl:    ctrl,
		parent:  context.Background(),
		spinner: sp,
		inputs:  map[session.Field]textinput.Model{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.ctx, app.cancel = context.WithCancel(app.parent)
	app.view = ctrl.State()
	return app, nil
}

// Init loads the first snapshot.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.run(opLoad, a.ctrl.Refresh))
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case opDoneMsg:
		a.pending--
		a.sync()
		a.report(msg)
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, a.quit()
		}
		if a.view.Composing() {
			return a, a.handleFormKey(msg)
		}
		return a, a.handleListKey(msg)
	}
	return a, nil
}

// run executes fn off the UI loop and reports back with an opDoneMsg.
func (a *App) run(op string, fn func(context.Context) error) tea.Cmd {
	a.pending++
	ctx := a.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (a *App) quit() tea.Cmd {
	a.cancel()
	return tea.Quit
}

func (a *App) sync() {
	a.view = a.ctrl.State()
	visible := a.view.Visible()
	if a.cursor >= len(visible) {
		a.cursor = len(visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) report(msg opDoneMsg) {
	err := msg.err
	switch {
	case err == nil:
		if text, ok := opMessages[msg.op]; ok {
			a.setStatus(text)
		}
	case errors.Is(err, context.Canceled):
	case errors.Is(err, session.ErrValidation):
		a.setError("Title is required")
	case errors.Is(err, session.ErrBusy):
		a.setError("Still saving, please wait")
	case errors.Is(err, store.ErrNotFound):
		a.setError("That task no longer exists")
	default:
		a.setError(fmt.Sprintf("Error: %v", err))
	}
}

func (a *App) setStatus(text string) {
	a.statusMsg = text
	a.statusErr = false
}

func (a *App) setError(text string) {
	a.statusMsg = text
	a.statusErr = true
}

func (a *App) selected() (task.Task, bool) {
	visible := a.view.Visible()
	if a.cursor < 0 || a.cursor >= len(visible) {
		return task.Task{}, false
	}
	return visible[a.cursor], true
}

func (a *App) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "q":
		return a.quit()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.view.Visible())-1 {
			a.cursor++
		}
	case "n":
		if err := a.ctrl.BeginCreate(); err != nil {
			a.setError(err.Error())
			return nil
		}
		return a.openForm()
	case "e":
		t, ok := a.selected()
		if !ok {
			return nil
		}
		if err := a.ctrl.BeginEdit(t); err != nil {
			a.setError(err.Error())
			return nil
		}
		return a.openForm()
	case "d":
		t, ok := a.selected()
		if !ok {
			return nil
		}
		return a.run(opDelete, func(ctx context.Context) error {
			return a.ctrl.Remove(ctx, t.ID)
		})
	case "t", "p", "c":
		t, ok := a.selected()
		if !ok {
			return nil
		}
		status := map[string]task.Status{
			"t": task.StatusTodo,
			"p": task.StatusInProgress,
			"c": task.StatusCompleted,
		}[key]
		return a.run(opStatus, func(ctx context.Context) error {
			return a.ctrl.SetStatus(ctx, t.ID, status)
		})
	case "f":
		if err := a.ctrl.SetFilter(a.view.Filter.Next()); err != nil {
			a.setError(err.Error())
			return nil
		}
		a.cursor = 0
		a.sync()
	case "r":
		return a.run(opRefresh, a.ctrl.Refresh)
	}
	return nil
}

// textFields are the draft fields edited through a text input; status and
// priority are picked with left/right.
var textFields = []session.Field{
	session.FieldTitle,
	session.FieldDescription,
	session.FieldDueDate,
	session.FieldTags,
}

var placeholders = map[session.Field]string{
	session.FieldTitle:       "What needs doing?",
	session.FieldDescription: "Details (optional)",
	session.FieldDueDate:     "YYYY-MM-DD",
	session.FieldTags:        "comma, separated, tags",
}

func (a *App) openForm() tea.Cmd {
	a.sync()
	a.inputs = make(map[session.Field]textinput.Model, len(textFields))
	for _, field := range textFields {
		in := textinput.New()
		in.Placeholder = placeholders[field]
		in.CharLimit = 256
		in.Cursor.SetMode(cursor.CursorStatic)
		in.SetValue(a.view.Draft.Value(field))
		a.inputs[field] = in
	}
	a.focus = 0
	a.focusInput()
	a.setStatus("")
	return nil
}

func (a *App) focusInput() {
	current := session.FormFields[a.focus]
	for field, in := range a.inputs {
		if field == current {
			in.Focus()
		} else {
			in.Blur()
		}
		a.inputs[field] = in
	}
}

func (a *App) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "esc":
		if err := a.ctrl.Cancel(); err != nil {
			a.setError("Still saving, please wait")
			return nil
		}
		a.sync()
		a.setStatus("Cancelled")
		return nil
	case "enter":
		return a.run(opSubmit, a.ctrl.Submit)
	case "tab", "down":
		a.focus = (a.focus + 1) % len(session.FormFields)
		a.focusInput()
		return nil
	case "shift+tab", "up":
		a.focus = (a.focus + len(session.FormFields) - 1) % len(session.FormFields)
		a.focusInput()
		return nil
	}

	field := session.FormFields[a.focus]
	step := 0
	switch key {
	case "right":
		step = 1
	case "left":
		step = -1
	}
	switch field {
	case session.FieldStatus:
		if step != 0 {
			a.setDraft(field, string(cycle(task.Statuses, a.view.Draft.Status, step)))
		}
		return nil
	case session.FieldPriority:
		if step != 0 {
			a.setDraft(field, string(cycle(task.Priorities, a.view.Draft.Priority, step)))
		}
		return nil
	}

	in, ok := a.inputs[field]
	if !ok {
		return nil
	}
	in, cmd := in.Update(msg)
	a.inputs[field] = in
	a.setDraft(field, in.Value())
	return cmd
}

func (a *App) setDraft(field session.Field, value string) {
	if err := a.ctrl.UpdateDraftField(field, value); err != nil {
		if errors.Is(err, session.ErrNotComposing) {
			a.setError("Still saving, please wait")
		} else {
			a.setError(err.Error())
		}
	}
	a.sync()
}

func cycle[T comparable](values []T, current T, step int) T {
	for i, v := range values {
		if v == current {
			return values[(i+step+len(values))%len(values)]
		}
	}
	return values[0]
}

// View renders the current screen.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TASKDECK"))
	if a.pending > 0 {
		b.WriteString("  " + a.spinner.View() + mutedStyle.Render(" working"))
	}
	b.WriteString("\n\n")

	if a.view.Composing() {
		b.WriteString(a.formView())
	} else {
		b.WriteString(a.listView())
	}

	sum := a.view.Summary()
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Total Tasks: %d | Completed: %d", sum.Total, sum.Completed)))
	b.WriteString("\n")

	if a.statusMsg != "" {
		if a.statusErr {
			b.WriteString(errorStyle.Render(a.statusMsg))
		} else {
			b.WriteString(okStyle.Render(a.statusMsg))
		}
		b.WriteString("\n")
	}

	if a.activity != nil && a.logLines > 0 {
		if lines, total := a.activity.Tail(a.logLines); total > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("Activity (%d entries)", total)))
			b.WriteString("\n")
			for _, line := range lines {
				b.WriteString(mutedStyle.Render("  " + line))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(mutedStyle.Render(a.helpLine()))
	return b.String()
}

func (a *App) helpLine() string {
	if a.view.Composing() {
		return "tab/shift+tab: field • ←/→: status/priority • enter: save • esc: cancel"
	}
	return "n: new • e: edit • d: delete • t/p/c: todo/progress/done • f: filter • r: refresh • q: quit"
}

func (a *App) listView() string {
	sum := a.view.Summary()
	tabs := make([]string, 0, len(session.Filters))
	for _, f := range session.Filters {
		count := sum.Total
		if f != session.FilterAll {
			count = sum.ByStatus[task.Status(f)]
		}
		label := fmt.Sprintf("%s (%d)", filterLabel(f), count)
		if f == a.view.Filter {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, inactiveTab.Render(label))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(tabs, "   "))
	b.WriteString("\n\n")

	visible := a.view.Visible()
	if len(visible) == 0 {
		if a.view.Loading || a.pending > 0 {
			b.WriteString(mutedStyle.Render("Loading tasks..."))
		} else {
			b.WriteString(mutedStyle.Render("No tasks found"))
		}
		b.WriteString("\n")
		return b.String()
	}
	for i, t := range visible {
		b.WriteString(a.renderRow(i, t))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderRow(idx int, t task.Task) string {
	head := fmt.Sprintf("%s #%d %s", statusMarker(t.Status), t.ID, t.Title)
	if idx == a.cursor {
		head = selectedStyle.Render(head)
	}
	parts := []string{head, renderStatus(t.Status), renderPriority(t.Priority)}
	if t.DueDate != "" {
		parts = append(parts, mutedStyle.Render("due "+t.DueDate))
	}
	if len(t.Tags) > 0 {
		parts = append(parts, tagStyle.Render("#"+strings.Join(t.Tags, " #")))
	}
	row := strings.Join(parts, "  ")
	if idx == a.cursor && t.Description != "" {
		row += "\n    " + mutedStyle.Render(t.Description)
	}
	return row
}

func (a *App) formView() string {
	heading := "New Task"
	if a.view.Editing {
		heading = fmt.Sprintf("Edit Task #%d", a.view.EditingID)
	}
	if a.view.Submitting() {
		heading += " (saving)"
	}

	rows := []string{titleStyle.Render(heading), ""}
	for i, field := range session.FormFields {
		label := labelStyle.Render(fieldLabel(field))
		if i == a.focus {
			label = focusLabel.Render(fieldLabel(field))
		}
		var value string
		switch field {
		case session.FieldStatus:
			value = "< " + renderStatus(a.view.Draft.Status) + " >"
		case session.FieldPriority:
			value = "< " + renderPriority(a.view.Draft.Priority) + " >"
		default:
			value = a.inputs[field].View()
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, value))
	}
	return boxStyle.Render(strings.Join(rows, "\n")) + "\n"
}

func fieldLabel(field session.Field) string {
	switch field {
	case session.FieldTitle:
		return "Title"
	case session.FieldDescription:
		return "Description"
	case session.FieldStatus:
		return "Status"
	case session.FieldPriority:
		return "Priority"
	case session.FieldDueDate:
		return "Due date"
	case session.FieldTags:
		return "Tags"
	}
	return string(field)
}

func filterLabel(f session.Filter) string {
	if f == session.FilterAll {
		return "All"
	}
	if label, ok := statusLabels[task.Status(f)]; ok {
		return label
	}
	return string(f)
}
