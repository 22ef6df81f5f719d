package domain

import "github.com/google/uuid"

// TaskID identifies a task for its whole lifetime. IDs are never reused.
type TaskID uuid.UUID

// NewTaskID returns a fresh random identifier.
func NewTaskID() TaskID {
	return TaskID(uuid.New())
}

// ParseTaskID parses the textual form produced by TaskID.String.
func ParseTaskID(s string) (TaskID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TaskID{}, err
	}
	return TaskID(id), nil
}

func (id TaskID) String() string {
	return uuid.UUID(id).String()
}

type Task struct {
	ID             TaskID
	Title          string
	IsCompleted    bool
	IsHighPriority bool
}

// Snapshot is a detached copy of everything the screen renders.
type Snapshot struct {
	Tasks     []Task
	Editing   *Task // nil unless IsEditing
	IsEditing bool
	IsAdding  bool
	Draft     string
}
