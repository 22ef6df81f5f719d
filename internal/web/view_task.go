package web

import "git.sr.ht/~jakintosh/today/internal/domain"

// TaskView is the view model for one row of the list.
type TaskView struct {
	ID             string
	Position       int
	Title          string
	IsCompleted    bool
	IsHighPriority bool
	IsBeingEdited  bool
	DeleteButton   DeleteButtonView
}

// NewTaskView creates a TaskView from a domain Task at its list position.
func NewTaskView(t domain.Task, position int, editing bool) TaskView {
	id := t.ID.String()
	return TaskView{
		ID:             id,
		Position:       position,
		Title:          t.Title,
		IsCompleted:    t.IsCompleted,
		IsHighPriority: t.IsHighPriority,
		IsBeingEdited:  editing,
		DeleteButton: DeleteButtonView{
			URL:            "/tasks/" + id,
			ConfirmMessage: "Delete this task?",
			ButtonText:     "Delete",
		},
	}
}
