// Package tui renders the task screen in a terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"git.sr.ht/~jakintosh/today/internal/config"
	"git.sr.ht/~jakintosh/today/internal/domain"
	"git.sr.ht/~jakintosh/today/internal/logging"
)

type Model struct {
	store  domain.Store
	keys   config.Keymap
	logger *log.Logger

	cursor int
	marked map[domain.TaskID]bool
	status string

	addInput  textinput.Model
	editInput textinput.Model
}

// New builds the screen model over store.
func New(store domain.Store, keys config.Keymap, logger *log.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}

	add := textinput.New()
	add.Placeholder = "Enter new task"
	add.CharLimit = 0
	add.Width = 40

	edit := textinput.New()
	edit.Placeholder = "Edit task title"
	edit.CharLimit = 0
	edit.Width = 40

	return Model{
		store:     store,
		keys:      keys,
		logger:    logger,
		marked:    map[domain.TaskID]bool{},
		status:    fmt.Sprintf("Press '%s' to add, '%s' to edit, '%s' to quit.", keys.Add, keys.Edit, keys.Quit),
		addInput:  add,
		editInput: edit,
	}
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, store domain.Store, keys config.Keymap, logger *log.Logger) error {
	program := tea.NewProgram(New(store, keys, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.store.IsEditing() {
			return m.updateEditMode(msg)
		}
		if m.store.IsAdding() {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.addInput.Width = max(msg.Width-10, 10)
		m.editInput.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	tasks := m.store.Tasks()

	switch key {
	case m.keys.Quit:
		return m, tea.Quit
	case m.keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(tasks))
	case m.keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(tasks))
	case m.keys.Add:
		return m.openAdd()
	case m.keys.Edit:
		if len(tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.openEdit(tasks[m.cursor])
	case m.keys.ToggleDone:
		if len(tasks) == 0 {
			return m, nil
		}
		m.store.ToggleCompleted(tasks[m.cursor].ID)
		m.status = "Toggled completion"
	case m.keys.TogglePriority:
		if len(tasks) == 0 {
			return m, nil
		}
		m.store.TogglePriority(tasks[m.cursor].ID)
		m.status = "Toggled priority"
	case m.keys.Delete:
		if len(tasks) == 0 {
			return m, nil
		}
		removed := tasks[m.cursor]
		delete(m.marked, removed.ID)
		m.store.DeleteTasks([]int{m.cursor})
		m.cursor = clampCursor(m.cursor, m.store.Len())
		m.status = fmt.Sprintf("Deleted %q", removed.Title)
	case m.keys.Mark:
		if len(tasks) == 0 {
			return m, nil
		}
		id := tasks[m.cursor].ID
		if m.marked[id] {
			delete(m.marked, id)
		} else {
			m.marked[id] = true
		}
	case m.keys.DeleteMarked:
		return m.deleteMarked(tasks)
	}
	return m, nil
}

// deleteMarked removes every marked task in one batch.
func (m Model) deleteMarked(tasks []domain.Task) (tea.Model, tea.Cmd) {
	positions := make([]int, 0, len(m.marked))
	for i, t := range tasks {
		if m.marked[t.ID] {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		m.status = fmt.Sprintf("Nothing marked; press '%s' to mark", m.keys.Mark)
		return m, nil
	}
	m.store.DeleteTasks(positions)
	m.marked = map[domain.TaskID]bool{}
	m.cursor = clampCursor(m.cursor, m.store.Len())
	m.status = fmt.Sprintf("Deleted %d tasks", len(positions))
	m.logger.Debug("batch delete", "positions", positions)
	return m, nil
}

func (m Model) openAdd() (tea.Model, tea.Cmd) {
	m.store.ToggleAdding()
	m.addInput.SetValue(m.store.Draft())
	m.status = "Add mode: type a title and press Enter"
	cmd := m.addInput.Focus()
	return m, cmd
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.store.ToggleAdding()
		m.addInput.Blur()
		m.status = "Add cancelled"
		return m, nil
	case tea.KeyEnter:
		m.store.SetDraft(m.addInput.Value())
		m.store.SubmitDraft()
		if m.store.IsAdding() {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.addInput.SetValue("")
		m.addInput.Blur()
		m.cursor = clampCursor(m.store.Len()-1, m.store.Len())
		m.status = "Added task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.addInput, cmd = m.addInput.Update(msg)
		m.store.SetDraft(m.addInput.Value())
		return m, cmd
	}
}

func (m Model) openEdit(t domain.Task) (tea.Model, tea.Cmd) {
	m.store.BeginEdit(t.ID)
	m.editInput.SetValue(t.Title)
	m.editInput.CursorEnd()
	m.status = "Edit: Enter saves, Esc cancels, Tab flips priority"
	cmd := m.editInput.Focus()
	return m, cmd
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.store.CancelEdit()
		m.editInput.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case tea.KeyEnter:
		m.store.SetEditTitle(m.editInput.Value())
		m.store.SaveEdit()
		m.editInput.Blur()
		m.status = "Saved"
		return m, nil
	case tea.KeyTab:
		if e, ok := m.store.Editing(); ok {
			m.store.SetEditPriority(!e.IsHighPriority)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		m.store.SetEditTitle(m.editInput.Value())
		return m, cmd
	}
}

func clampCursor(cursor, n int) int {
	if n <= 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
