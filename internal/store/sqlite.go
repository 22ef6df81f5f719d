package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"git.sr.ht/~jakintosh/today/internal/domain"
)

// memoryDSN keeps the database private to the process. Every connection to
// it opens a fresh database, so the pool is pinned to one connection.
const memoryDSN = ":memory:"

// SQLiteStore keeps the task list in an in-memory SQLite table ordered by
// position. The add and edit modes stay in process memory. Database
// failures are logged and treated like unresolved input.
type SQLiteStore struct {
	mu      sync.Mutex
	db      *sql.DB
	editing *domain.Task
	adding  bool
	draft   string

	newID  func() domain.TaskID
	logger *log.Logger
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	o := applyOptions(opts)

	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		newID:  o.newID,
		logger: o.logger,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			is_high_priority INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS tasks_position ON tasks (position);`,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) fail(op string, err error) {
	s.logger.Error("store operation failed", "op", op, "err", err)
}

func (s *SQLiteStore) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks()
}

func (s *SQLiteStore) tasks() []domain.Task {
	rows, err := s.db.Query(`
		SELECT
			id,
			title,
			is_completed,
			is_high_priority
		FROM tasks
		ORDER BY position ASC`,
	)
	if err != nil {
		s.fail("list tasks", err)
		return []domain.Task{}
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var (
			t  domain.Task
			id string
		)
		if err := rows.Scan(
			&id,
			&t.Title,
			&t.IsCompleted,
			&t.IsHighPriority,
		); err != nil {
			s.fail("scan task", err)
			return []domain.Task{}
		}
		if t.ID, err = domain.ParseTaskID(id); err != nil {
			s.fail("parse task id", err)
			return []domain.Task{}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		s.fail("list tasks", err)
		return []domain.Task{}
	}
	return tasks
}

func (s *SQLiteStore) Task(id domain.TaskID) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task(id)
}

func (s *SQLiteStore) task(id domain.TaskID) (domain.Task, bool) {
	t := domain.Task{ID: id}
	row := s.db.QueryRow(`
		SELECT
			title,
			is_completed,
			is_high_priority
		FROM tasks
		WHERE id = ?`,
		id.String(),
	)
	err := row.Scan(
		&t.Title,
		&t.IsCompleted,
		&t.IsHighPriority,
	)
	switch {
	case err == sql.ErrNoRows:
		return domain.Task{}, false
	case err != nil:
		s.fail("get task", err)
		return domain.Task{}, false
	}
	return t, true
}

// Position counts the rows ordered before id.
func (s *SQLiteStore) Position(id domain.TaskID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pos int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM tasks
		WHERE position < (SELECT position FROM tasks WHERE id = ?)`,
		id.String(),
	).Scan(&pos)
	if err != nil {
		s.fail("task position", err)
		return -1, false
	}
	if _, ok := s.task(id); !ok {
		return -1, false
	}
	return pos, true
}

func (s *SQLiteStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		s.fail("count tasks", err)
		return 0
	}
	return n
}

func (s *SQLiteStore) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := domain.Snapshot{
		Tasks:     s.tasks(),
		IsEditing: s.editing != nil,
		IsAdding:  s.adding,
		Draft:     s.draft,
	}
	if s.editing != nil {
		t := *s.editing
		snap.Editing = &t
	}
	return snap
}

func (s *SQLiteStore) AddTask(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addTask(title)
}

func (s *SQLiteStore) addTask(title string) {
	if title == "" {
		return
	}
	if err := s.insert(domain.Task{ID: s.newID(), Title: title}); err != nil {
		s.fail("add task", err)
		return
	}
	s.draft = ""
	s.adding = false
}

// insert appends t after the last row.
func (s *SQLiteStore) insert(t domain.Task) error {
	_, err := s.db.Exec(`
		INSERT INTO tasks (
			id,
			title,
			is_completed,
			is_high_priority,
			position
		)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tasks))`,
		t.ID.String(),
		t.Title,
		t.IsCompleted,
		t.IsHighPriority,
	)
	if err != nil {
		return err
	}
	s.logger.Debug("task added", "id", t.ID, "title", t.Title)
	return nil
}

func (s *SQLiteStore) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *SQLiteStore) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *SQLiteStore) SubmitDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addTask(s.draft)
}

func (s *SQLiteStore) ToggleAdding() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adding = !s.adding
}

func (s *SQLiteStore) IsAdding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adding
}

func (s *SQLiteStore) ToggleCompleted(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggle("is_completed", id)
}

func (s *SQLiteStore) TogglePriority(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggle("is_high_priority", id)
}

// toggle flips a flag column. column is always one of the fixed names above.
func (s *SQLiteStore) toggle(column string, id domain.TaskID) {
	res, err := s.db.Exec(
		`UPDATE tasks SET `+column+` = 1 - `+column+` WHERE id = ?`,
		id.String(),
	)
	if err != nil {
		s.fail("toggle "+column, err)
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Debug("flag toggled", "id", id, "column", column)
	}
}

// DeleteTasks removes the rows at the given offsets inside one transaction.
// Offsets are resolved against the order before the call.
func (s *SQLiteStore) DeleteTasks(positions []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deleteTasks(positions); err != nil {
		s.fail("delete tasks", err)
	}
}

func (s *SQLiteStore) deleteTasks(positions []int) error {
	if len(positions) == 0 {
		return nil
	}
	tasks := s.tasks()
	drop := make(map[domain.TaskID]int, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(tasks) {
			drop[tasks[p].ID] = p
		}
	}
	if len(drop) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for id := range drop {
		if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id.String()); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	for id, p := range drop {
		s.logger.Debug("task deleted", "id", id, "position", p)
		if s.editing != nil && s.editing.ID == id {
			s.editing = nil
		}
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		s.fail("delete task", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return
	}
	s.logger.Debug("task deleted", "id", id)
	if s.editing != nil && s.editing.ID == id {
		s.editing = nil
	}
}

func (s *SQLiteStore) BeginEdit(id domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.task(id); ok {
		s.editing = &t
	}
}

func (s *SQLiteStore) Editing() (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return domain.Task{}, false
	}
	return *s.editing, true
}

func (s *SQLiteStore) IsEditing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing != nil
}

func (s *SQLiteStore) SetEditTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		s.editing.Title = title
	}
}

func (s *SQLiteStore) SetEditPriority(high bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing != nil {
		s.editing.IsHighPriority = high
	}
}

func (s *SQLiteStore) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

// SaveEdit writes title and priority back. Completion stays as stored.
func (s *SQLiteStore) SaveEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return
	}
	_, err := s.db.Exec(`
		UPDATE tasks
		SET
			title = ?,
			is_high_priority = ?
		WHERE id = ?`,
		s.editing.Title,
		s.editing.IsHighPriority,
		s.editing.ID.String(),
	)
	if err != nil {
		s.fail("save edit", err)
	} else {
		s.logger.Debug("task edited", "id", s.editing.ID, "title", s.editing.Title)
	}
	s.editing = nil
}

func (s *SQLiteStore) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range []domain.Task{
		{ID: s.newID(), Title: "Buy groceries", IsCompleted: false, IsHighPriority: true},
		{ID: s.newID(), Title: "Walk the dog", IsCompleted: false, IsHighPriority: false},
		{ID: s.newID(), Title: "Read a book", IsCompleted: true, IsHighPriority: true},
	} {
		if err := s.insert(t); err != nil {
			s.fail("seed", err)
			return
		}
	}
}
