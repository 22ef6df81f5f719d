package web

import "git.sr.ht/~jakintosh/today/internal/domain"

const screenTitle = "Today's Tasks"

// ScreenView is the view model for the whole task screen.
type ScreenView struct {
	Title    string
	Tasks    []TaskView
	Editor   *EditorView
	IsAdding bool
	Draft    string
}

// EditorView is the view model for the edit form.
type EditorView struct {
	ID             string
	Title          string
	IsHighPriority bool
}

// NewScreenView builds the screen from a store snapshot.
func NewScreenView(snap domain.Snapshot) ScreenView {
	view := ScreenView{
		Title:    screenTitle,
		IsAdding: snap.IsAdding,
		Draft:    snap.Draft,
		Tasks:    make([]TaskView, len(snap.Tasks)),
	}

	var editingID domain.TaskID
	if snap.Editing != nil {
		editingID = snap.Editing.ID
		view.Editor = &EditorView{
			ID:             snap.Editing.ID.String(),
			Title:          snap.Editing.Title,
			IsHighPriority: snap.Editing.IsHighPriority,
		}
	}

	for i, t := range snap.Tasks {
		view.Tasks[i] = NewTaskView(t, i, snap.Editing != nil && t.ID == editingID)
	}
	return view
}
