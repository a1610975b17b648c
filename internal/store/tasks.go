package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aversa-dev/crewboard/internal/board"
)

func (s *Store) CreateTask(t board.Task) (board.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, board_id, column_id, title, due_date, effort, blocked, rework_count, completed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.BoardID, t.ColumnID, t.Title,
		timePtrToString(t.DueDate), t.Effort, boolToInt(t.Blocked), t.ReworkCount,
		timePtrToString(t.CompletedAt), t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return board.Task{}, fmt.Errorf("insert task: %w", err)
	}
	if err := s.setAssignees(t.ID, t.Assignees); err != nil {
		return board.Task{}, err
	}
	return t, nil
}

// SaveTask writes back the mutable lifecycle fields after a move or a
// blocked toggle.
func (s *Store) SaveTask(t board.Task) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET column_id = ?, due_date = ?, effort = ?, blocked = ?, rework_count = ?, completed_at = ? WHERE id = ?`,
		t.ColumnID, timePtrToString(t.DueDate), t.Effort, boolToInt(t.Blocked),
		t.ReworkCount, timePtrToString(t.CompletedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("save task %s: %w", t.ID, err)
	}
	return s.setAssignees(t.ID, t.Assignees)
}

func (s *Store) GetTask(id string) (board.Task, error) {
	row := s.db.QueryRow(
		`SELECT id, board_id, column_id, title, due_date, effort, blocked, rework_count, completed_at, created_at
		 FROM tasks WHERE id = ?`, id,
	)
	t, err := scanTask(row)
	if err != nil {
		return board.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	t.Assignees, err = s.listAssignees(t.ID)
	return t, err
}

func (s *Store) ListTasks(boardID string) ([]board.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, board_id, column_id, title, due_date, effort, blocked, rework_count, completed_at, created_at
		 FROM tasks WHERE board_id = ? ORDER BY created_at, id`, boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []board.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Assignees, err = s.listAssignees(tasks[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *Store) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

func (s *Store) setAssignees(taskID string, memberIDs []string) error {
	if _, err := s.db.Exec(`DELETE FROM task_assignees WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clear assignees: %w", err)
	}
	for _, mid := range memberIDs {
		if _, err := s.db.Exec(
			`INSERT INTO task_assignees (task_id, member_id) VALUES (?, ?)`, taskID, mid,
		); err != nil {
			return fmt.Errorf("assign %s to %s: %w", mid, taskID, err)
		}
	}
	return nil
}

func (s *Store) listAssignees(taskID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT member_id FROM task_assignees WHERE task_id = ? ORDER BY member_id`, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignees: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (board.Task, error) {
	var t board.Task
	var due, completed sql.NullString
	var effort sql.NullFloat64
	var blocked int
	var createdAt string

	err := row.Scan(&t.ID, &t.BoardID, &t.ColumnID, &t.Title, &due, &effort,
		&blocked, &t.ReworkCount, &completed, &createdAt)
	if err != nil {
		return board.Task{}, err
	}
	t.Blocked = blocked == 1
	if effort.Valid {
		t.Effort = &effort.Float64
	}
	t.DueDate = parseTimePtr(due)
	t.CompletedAt = parseTimePtr(completed)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

func timePtrToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimePtr(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil
	}
	return &t
}
