package store

import (
	"sync"

	"github.com/charmbracelet/log"

	"git.sr.ht/~jakintosh/today/internal/domain"
)

// TaskListStore holds the session's tasks plus the add and edit modes of
// the screen. It never reports failure: operations whose input does not
// resolve leave the store untouched.
type TaskListStore struct {
	mu      sync.RWMutex
	tasks   []domain.Task
	editing *domain.Task
	adding  bool
	draft   string

	newID  func() domain.TaskID
	logger *log.Logger
}

var _ Store = (*TaskListStore)(nil)

func NewTaskListStore(opts ...Option) *TaskListStore {
	o := applyOptions(opts)
	return &TaskListStore{
		tasks:  []domain.Task{},
		newID:  o.newID,
		logger: o.logger,
	}
}

func (s *TaskListStore) Close() error { return nil }

func (s *TaskListStore) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskListStore) Task(id domain.TaskID) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return domain.Task{}, false
}

func (s *TaskListStore) Position(id domain.TaskID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	return i, i >= 0
}

func (s *TaskListStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Snapshot copies the full screen state in one read.
func (s *TaskListStore) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := domain.Snapshot{
		Tasks:     make([]domain.Task, len(s.tasks)),
		IsEditing: s.editing != nil,
		IsAdding:  s.adding,
		Draft:     s.draft,
	}
	copy(snap.Tasks, s.tasks)
	if s.editing != nil {
		t := *s.editing
		snap.Editing = &t
	}
	return snap
}

// AddTask appends a task unless title is exactly empty. A successful add
// clears the draft and leaves add mode; a rejected one changes nothing.
func (s *TaskListStore) AddTask(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addTask(title)
}

func (s *TaskListStore) addTask(title string) {
	if title == "" {
		return
	}
	task := domain.Task{
		ID:    s.newID(),
		Title: title,
	}
	s.tasks = append(s.tasks, task)
	s.draft = ""
	s.adding = false
	s.logger.Debug("task added", "id", task.ID, "title", title)
}

func (s *TaskListStore) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *TaskListStore) Draft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SubmitDraft adds the pending input text as a new task.
func (s *TaskListStore) SubmitDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addTask(s.draft)
}

func (s *TaskListStore) ToggleAdding() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adding = !s.adding
}

func (s *TaskListStore) IsAdding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adding
}

func (s *TaskListStore) ToggleCompleted(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks[i].IsCompleted = !s.tasks[i].IsCompleted
		s.logger.Debug("completion toggled", "id", id, "completed", s.tasks[i].IsCompleted)
	}
}

func (s *TaskListStore) TogglePriority(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks[i].IsHighPriority = !s.tasks[i].IsHighPriority
		s.logger.Debug("priority toggled", "id", id, "high", s.tasks[i].IsHighPriority)
	}
}

// DeleteTasks removes the tasks at the given offsets. All offsets refer to
// the order before the call; duplicates and out-of-range offsets are
// ignored.
func (s *TaskListStore) DeleteTasks(positions []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteTasks(positions)
}

func (s *TaskListStore) deleteTasks(positions []int) {
	if len(positions) == 0 {
		return
	}
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(s.tasks) {
			drop[p] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	kept := make([]domain.Task, 0, len(s.tasks)-len(drop))
	for i, t := range s.tasks {
		if drop[i] {
			s.logger.Debug("task deleted", "id", t.ID, "position", i)
			if s.editing != nil && s.editing.ID == t.ID {
				s.editing = nil
			}
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
}

func (s *TaskListStore) DeleteTask(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.deleteTasks([]int{i})
	}
}

// BeginEdit takes a detached copy of the task into the edit slot,
// replacing any edit already in progress.
func (s *TaskListStore) BeginEdit(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	t := s.tasks[i]
	s.editing = &t
}

func (s *TaskListStore) Editing() (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.editing == nil {
		return domain.Task{}, false
	}
	return *s.editing, true
}

func (s *TaskListStore) IsEditing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing != nil
}

func (s *TaskListStore) SetEditTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		s.editing.Title = title
	}
}

func (s *TaskListStore) SetEditPriority(high bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		s.editing.IsHighPriority = high
	}
}

func (s *TaskListStore) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

// SaveEdit writes the edited title and priority back to the original task
// and leaves edit mode. Completion is never taken from the snapshot.
func (s *TaskListStore) SaveEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return
	}
	if i := s.indexOf(s.editing.ID); i >= 0 {
		s.tasks[i].Title = s.editing.Title
		s.tasks[i].IsHighPriority = s.editing.IsHighPriority
		s.logger.Debug("task edited", "id", s.editing.ID, "title", s.editing.Title)
	}
	s.editing = nil
}

// Seed appends the example tasks shown on a fresh screen.
func (s *TaskListStore) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks,
		domain.Task{ID: s.newID(), Title: "Buy groceries", IsCompleted: false, IsHighPriority: true},
		domain.Task{ID: s.newID(), Title: "Walk the dog", IsCompleted: false, IsHighPriority: false},
		domain.Task{ID: s.newID(), Title: "Read a book", IsCompleted: true, IsHighPriority: true},
	)
}

func (s *TaskListStore) indexOf(id domain.TaskID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
