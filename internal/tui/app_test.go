package tui

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/taskdeck/internal/logbook"
	"github.com/kingrea/taskdeck/internal/session"
	"github.com/kingrea/taskdeck/internal/store"
	"github.com/kingrea/taskdeck/internal/task"
)

func TestInitLoadsSnapshot(t *testing.T) {
	app, _ := newTestApp(t)
	if got := len(app.view.Snapshot); got != 3 {
		t.Fatalf("snapshot size = %d, want 3", got)
	}
	view := app.View()
	if !strings.Contains(view, "Total Tasks: 3 | Completed: 1") {
		t.Fatalf("summary missing from view:\n%s", view)
	}
	if !strings.Contains(view, "Complete project proposal") {
		t.Fatalf("task title missing from view:\n%s", view)
	}
}

func TestCreateTaskThroughForm(t *testing.T) {
	app, st := newTestApp(t)
	press(t, app, "n")
	if !app.view.Composing() {
		t.Fatalf("expected form to open")
	}
	press(t, app, "Plan sprint")
	for i := 0; i < 5; i++ {
		press(t, app, "tab")
	}
	press(t, app, "work, , urgent,work")
	press(t, app, "enter")

	if app.view.Composing() {
		t.Fatalf("form should close after submit")
	}
	list, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("store holds %d tasks, want 4", len(list))
	}
	created := list[3]
	if created.Title != "Plan sprint" || created.ID != 4 {
		t.Fatalf("unexpected created task: %+v", created)
	}
	if want := []string{"work", "urgent", "work"}; !reflect.DeepEqual(created.Tags, want) {
		t.Fatalf("tags = %v, want %v", created.Tags, want)
	}
	if !reflect.DeepEqual(app.view.Snapshot, list) {
		t.Fatalf("view snapshot out of sync with store")
	}
}

func TestBlankTitleKeepsFormOpen(t *testing.T) {
	app, st := newTestApp(t)
	press(t, app, "n")
	press(t, app, "tab")
	press(t, app, "notes")
	press(t, app, "enter")

	if !app.view.Composing() {
		t.Fatalf("form should stay open on validation failure")
	}
	if app.view.Draft.Description != "notes" {
		t.Fatalf("draft lost: %+v", app.view.Draft)
	}
	if !strings.Contains(app.View(), "Title is required") {
		t.Fatalf("expected validation message")
	}
	if st.Len() != 3 {
		t.Fatalf("store should be unchanged")
	}
}

func TestEscCancelsForm(t *testing.T) {
	app, st := newTestApp(t)
	press(t, app, "n")
	press(t, app, "Throwaway")
	press(t, app, "esc")
	if app.view.Composing() {
		t.Fatalf("form should close on esc")
	}
	if st.Len() != 3 {
		t.Fatalf("cancel must not reach the store")
	}
}

func TestEditChangesStatusAndTitle(t *testing.T) {
	app, st := newTestApp(t)
	press(t, app, "e")
	if !app.view.Editing || app.view.EditingID != 1 {
		t.Fatalf("expected to edit task 1, got %+v", app.view)
	}
	if got := app.inputs[session.FieldTitle].Value(); got != "Complete project proposal" {
		t.Fatalf("title input = %q", got)
	}
	press(t, app, " v2")
	press(t, app, "tab")
	press(t, app, "tab")
	press(t, app, "right")
	if app.view.Draft.Status != task.StatusInProgress {
		t.Fatalf("draft status = %s", app.view.Draft.Status)
	}
	press(t, app, "enter")

	list, _ := st.List(context.Background())
	if list[0].Title != "Complete project proposal v2" || list[0].Status != task.StatusInProgress {
		t.Fatalf("unexpected task after edit: %+v", list[0])
	}
	if list[0].Priority != task.PriorityHigh || !reflect.DeepEqual(list[0].Tags, []string{"work"}) {
		t.Fatalf("edit changed untouched fields: %+v", list[0])
	}
}

func TestStatusAndDeleteKeys(t *testing.T) {
	app, st := newTestApp(t)
	press(t, app, "j")
	press(t, app, "c")
	if got := app.view.Snapshot[1].Status; got != task.StatusCompleted {
		t.Fatalf("task 2 status = %s", got)
	}
	if !strings.Contains(app.View(), "Total Tasks: 3 | Completed: 2") {
		t.Fatalf("summary not updated:\n%s", app.View())
	}

	press(t, app, "k")
	press(t, app, "d")
	if st.Len() != 2 {
		t.Fatalf("store holds %d tasks, want 2", st.Len())
	}
	if !strings.Contains(app.View(), "Total Tasks: 2 | Completed: 2") {
		t.Fatalf("summary not updated after delete:\n%s", app.View())
	}
}

func TestFilterCycleNarrowsList(t *testing.T) {
	app, _ := newTestApp(t)
	press(t, app, "f")
	if app.view.Filter != session.StatusFilter(task.StatusTodo) {
		t.Fatalf("filter = %s", app.view.Filter)
	}
	visible := app.view.Visible()
	if len(visible) != 1 || visible[0].ID != 1 {
		t.Fatalf("visible = %+v", visible)
	}
	for i := 0; i < 3; i++ {
		press(t, app, "f")
	}
	if app.view.Filter != session.FilterAll {
		t.Fatalf("filter should wrap to all, got %s", app.view.Filter)
	}
}

func TestStoreErrorIsShown(t *testing.T) {
	app, _ := newTestApp(t)
	app.report(opDoneMsg{op: opStatus, err: errors.Join(errors.New("boom"), store.ErrNotFound)})
	if !strings.Contains(app.View(), "That task no longer exists") {
		t.Fatalf("expected not found message:\n%s", app.View())
	}
}

func TestActivityFooterShowsLogbook(t *testing.T) {
	book, err := logbook.New(filepath.Join(t.TempDir(), "activity.log"))
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	st := store.NewMemoryStore(store.WithTasks(store.DefaultSeed()...))
	ctrl, err := session.New(st, session.WithLogger(book))
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	app, err := NewApp(ctrl, WithActivityLog(book, 2))
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	drain(t, app, app.Init())
	press(t, app, "d")

	view := app.View()
	if !strings.Contains(view, "Activity (1 entries)") || !strings.Contains(view, "deleted task 1") {
		t.Fatalf("activity footer missing:\n%s", view)
	}
}

func TestQuitCancelsContext(t *testing.T) {
	app, _ := newTestApp(t)
	_, cmd := app.Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if app.ctx.Err() == nil {
		t.Fatalf("store context should be cancelled on quit")
	}
}

func TestNewAppRequiresController(t *testing.T) {
	if _, err := NewApp(nil); err == nil {
		t.Fatalf("expected error")
	}
}

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(store.WithTasks(store.DefaultSeed()...))
	ctrl, err := session.New(st)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	app, err := NewApp(ctrl)
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	drain(t, app, app.Init())
	return app, st
}

func press(t *testing.T, app *App, k string) {
	t.Helper()
	_, cmd := app.Update(key(k))
	drain(t, app, cmd)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// drain runs commands synchronously, feeding their messages back into the
// app. Spinner ticks are dropped so the loop terminates.
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("command queue did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, follow := app.Update(msg)
			queue = append(queue, follow)
		}
	}
}
