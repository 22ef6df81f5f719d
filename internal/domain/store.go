package domain

// Store is the task list as seen by a presentation layer. Every mutation is
// total: unknown ids, empty titles and stale edit targets are ignored.
type Store interface {
	Tasks() []Task
	Task(id TaskID) (Task, bool)
	Position(id TaskID) (int, bool)
	Len() int
	Snapshot() Snapshot

	AddTask(title string)
	SetDraft(text string)
	Draft() string
	SubmitDraft()
	ToggleAdding()
	IsAdding() bool

	ToggleCompleted(id TaskID)
	TogglePriority(id TaskID)

	DeleteTasks(positions []int)
	DeleteTask(id TaskID)

	BeginEdit(id TaskID)
	Editing() (Task, bool)
	IsEditing() bool
	SetEditTitle(title string)
	SetEditPriority(high bool)
	CancelEdit()
	SaveEdit()
}
