package tui

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"git.sr.ht/~jakintosh/today/internal/config"
	"git.sr.ht/~jakintosh/today/internal/domain"
	"git.sr.ht/~jakintosh/today/internal/store"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func newTestModel(t *testing.T) (Model, *store.TaskListStore) {
	t.Helper()
	st := store.NewTaskListStore()
	st.Seed()
	return New(st, config.DefaultKeymap(), nil), st
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestAddTask(t *testing.T) {
	m, st := newTestModel(t)

	m = press(t, m, "a")
	if !st.IsAdding() {
		t.Fatal("not in add mode")
	}
	m = press(t, m, "Pay bills")
	if st.Draft() != "Pay bills" {
		t.Errorf("draft: got %q", st.Draft())
	}
	m = press(t, m, "enter")

	tasks := st.Tasks()
	if len(tasks) != 4 || tasks[3].Title != "Pay bills" {
		t.Fatalf("tasks: got %v", titles(tasks))
	}
	if st.IsAdding() {
		t.Error("still adding")
	}
	if m.cursor != 3 {
		t.Errorf("cursor: got %d, want 3", m.cursor)
	}
}

func TestAddEmptyStaysInAddMode(t *testing.T) {
	m, st := newTestModel(t)

	m = press(t, m, "a", "enter")

	if st.Len() != 3 {
		t.Errorf("len: got %d", st.Len())
	}
	if !st.IsAdding() {
		t.Error("left add mode on empty title")
	}
	if m.status != "Title cannot be empty" {
		t.Errorf("status: got %q", m.status)
	}

	press(t, m, "esc")
	if st.IsAdding() {
		t.Error("esc did not close add mode")
	}
}

func TestQuitKeyTypesInAddMode(t *testing.T) {
	m, st := newTestModel(t)
	m = press(t, m, "a", "q")
	if st.Draft() != "q" {
		t.Errorf("draft: got %q, want q", st.Draft())
	}
	_, cmd := m.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Error("ctrl+c returned no command")
	}
}

func TestToggles(t *testing.T) {
	m, st := newTestModel(t)
	before := st.Tasks()

	m = press(t, m, "j", " ", "p")
	got := st.Tasks()[1]
	if !got.IsCompleted || !got.IsHighPriority {
		t.Errorf("after toggles: got %+v", got)
	}

	press(t, m, " ", "p")
	if !reflect.DeepEqual(st.Tasks(), before) {
		t.Errorf("toggling twice did not restore: %v", st.Tasks())
	}
}

func TestCursorClamps(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor: got %d, want 0", m.cursor)
	}
	m = press(t, m, "j", "j", "j", "down")
	if m.cursor != 2 {
		t.Errorf("cursor: got %d, want 2", m.cursor)
	}
}

func TestDeleteUnderCursor(t *testing.T) {
	m, st := newTestModel(t)

	m = press(t, m, "j", "j", "d")

	if got := titles(st.Tasks()); !reflect.DeepEqual(got, []string{"Buy groceries", "Walk the dog"}) {
		t.Errorf("got %v", got)
	}
	if m.cursor != 1 {
		t.Errorf("cursor: got %d, want 1", m.cursor)
	}
}

func TestDeleteMarkedIsOneBatch(t *testing.T) {
	m, st := newTestModel(t)

	m = press(t, m, "m", "j", "j", "m", "D")

	if got := titles(st.Tasks()); !reflect.DeepEqual(got, []string{"Walk the dog"}) {
		t.Errorf("got %v", got)
	}
	if len(m.marked) != 0 {
		t.Errorf("marks survived delete: %v", m.marked)
	}
}

func TestDeleteMarkedWithNothingMarked(t *testing.T) {
	m, st := newTestModel(t)
	m = press(t, m, "m", "m", "D")
	if st.Len() != 3 {
		t.Errorf("len: got %d", st.Len())
	}
	if !strings.HasPrefix(m.status, "Nothing marked") {
		t.Errorf("status: got %q", m.status)
	}
}

func TestEditSave(t *testing.T) {
	m, st := newTestModel(t)
	book := st.Tasks()[2]

	m = press(t, m, "j", "j", "e")
	if e, ok := st.Editing(); !ok || e.ID != book.ID {
		t.Fatalf("editing: got %+v %v", e, ok)
	}
	m = press(t, m, "!", "tab")
	if e, _ := st.Editing(); e.Title != "Read a book!" || e.IsHighPriority {
		t.Errorf("snapshot: got %+v", e)
	}
	press(t, m, "enter")

	got, _ := st.Task(book.ID)
	want := domain.Task{ID: book.ID, Title: "Read a book!", IsCompleted: true, IsHighPriority: false}
	if got != want {
		t.Errorf("saved: got %+v, want %+v", got, want)
	}
	if st.IsEditing() {
		t.Error("still editing")
	}
}

func TestLongTitlesAreNotTruncated(t *testing.T) {
	long := strings.Repeat("x", 300)

	m, st := newTestModel(t)
	m = press(t, m, "a", long, "enter")
	tasks := st.Tasks()
	if got := tasks[len(tasks)-1].Title; got != long {
		t.Fatalf("added title: got %d chars, want %d", len(got), len(long))
	}

	press(t, m, "e", long, "enter")
	got, _ := st.Task(tasks[len(tasks)-1].ID)
	if got.Title != long+long {
		t.Errorf("edited title: got %d chars, want %d", len(got.Title), 2*len(long))
	}
}

func TestEditCancel(t *testing.T) {
	m, st := newTestModel(t)
	before := st.Tasks()

	m = press(t, m, "e", "xyz", "tab")
	press(t, m, "esc")

	if st.IsEditing() {
		t.Error("still editing")
	}
	if !reflect.DeepEqual(st.Tasks(), before) {
		t.Errorf("tasks changed: %v", st.Tasks())
	}
}

func TestEmptyList(t *testing.T) {
	st := store.NewTaskListStore()
	m := New(st, config.DefaultKeymap(), nil)

	m = press(t, m, "j", " ", "p", "d", "m", "e")

	if st.IsEditing() {
		t.Error("editing with no tasks")
	}
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Errorf("view: %q", m.View())
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "e")

	view := m.View()
	for _, want := range []string{"Today's Tasks", "Buy groceries", "Walk the dog", "Read a book", "High Priority"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
