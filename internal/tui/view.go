package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"git.sr.ht/~jakintosh/today/internal/config"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	priorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("7")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) View() string {
	snap := m.store.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Today's Tasks"))
	b.WriteString("\n")

	if len(snap.Tasks) == 0 {
		fmt.Fprintf(&b, "No tasks yet. Press '%s' to add one.\n", m.keys.Add)
	}
	for i, t := range snap.Tasks {
		cursor := "  "
		if i == m.cursor && !snap.IsEditing && !snap.IsAdding {
			cursor = cursorStyle.Render("> ")
		}
		mark := " "
		if m.marked[t.ID] {
			mark = "*"
		}
		check := "○"
		title := t.Title
		if t.IsCompleted {
			check = "✓"
			title = doneStyle.Render(title)
		}
		line := fmt.Sprintf("%s%s %s %s", cursor, mark, check, title)
		if t.IsHighPriority {
			line += " " + priorityStyle.Render("!")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if snap.Editing != nil {
		priority := "[ ]"
		if snap.Editing.IsHighPriority {
			priority = "[x]"
		}
		panel := m.editInput.View() + "\n" + priority + " High Priority (tab)"
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(panel))
		b.WriteString("\n")
	}

	if snap.IsAdding {
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(m.addInput.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.keys)))

	return b.String()
}

func renderHelp(k config.Keymap) string {
	toggle := k.ToggleDone
	if toggle == " " {
		toggle = "space"
	}
	return fmt.Sprintf("%s/%s move • %s done • %s priority • %s add • %s edit • %s delete • %s mark • %s delete marked • %s quit",
		k.Up, k.Down, toggle, k.TogglePriority, k.Add, k.Edit, k.Delete, k.Mark, k.DeleteMarked, k.Quit)
}
