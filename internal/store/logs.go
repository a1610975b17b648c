package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aversa-dev/crewboard/internal/timelog"
)

// LogFilter narrows ListLogs. Nil fields match everything.
type LogFilter struct {
	MemberID *string
	TaskID   *string
	From     *time.Time
	To       *time.Time
	Limit    int
}

// InsertLog persists a ledger record as-is; the timer has already
// validated it.
func (s *Store) InsertLog(l timelog.TimeLog) error {
	_, err := s.db.Exec(
		`INSERT INTO time_logs (id, member_id, task_id, start_time, end_time, duration_ms, description, manual)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.TaskID,
		l.Start.UTC().Format(time.RFC3339), timePtrToString(l.End),
		l.Duration.Milliseconds(), l.Description, boolToInt(l.Manual),
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// SaveLog writes back a record the timer closed or edited.
func (s *Store) SaveLog(l timelog.TimeLog) error {
	_, err := s.db.Exec(
		`UPDATE time_logs SET task_id = ?, start_time = ?, end_time = ?, duration_ms = ?, description = ? WHERE id = ?`,
		l.TaskID, l.Start.UTC().Format(time.RFC3339), timePtrToString(l.End),
		l.Duration.Milliseconds(), l.Description, l.ID,
	)
	if err != nil {
		return fmt.Errorf("save log %s: %w", l.ID, err)
	}
	return nil
}

func (s *Store) DeleteLog(id string) error {
	_, err := s.db.Exec(`DELETE FROM time_logs WHERE id = ?`, id)
	return err
}

func (s *Store) GetLog(id string) (timelog.TimeLog, error) {
	row := s.db.QueryRow(
		`SELECT id, member_id, task_id, start_time, end_time, duration_ms, description, manual
		 FROM time_logs WHERE id = ?`, id,
	)
	l, err := scanLog(row)
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("get log %s: %w", id, err)
	}
	return l, nil
}

func (s *Store) ListLogs(f LogFilter) ([]timelog.TimeLog, error) {
	query := `SELECT id, member_id, task_id, start_time, end_time, duration_ms, description, manual FROM time_logs WHERE 1=1`
	var args []any

	if f.MemberID != nil {
		query += ` AND member_id = ?`
		args = append(args, *f.MemberID)
	}
	if f.TaskID != nil {
		query += ` AND task_id = ?`
		args = append(args, *f.TaskID)
	}
	if f.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND start_time < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY start_time, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []timelog.TimeLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanLog(row rowScanner) (timelog.TimeLog, error) {
	var l timelog.TimeLog
	var start string
	var end sql.NullString
	var durationMs int64
	var manual int

	err := row.Scan(&l.ID, &l.UserID, &l.TaskID, &start, &end, &durationMs, &l.Description, &manual)
	if err != nil {
		return timelog.TimeLog{}, err
	}
	l.Start, _ = time.Parse(time.RFC3339, start)
	l.End = parseTimePtr(end)
	l.Duration = time.Duration(durationMs) * time.Millisecond
	l.Manual = manual == 1
	return l, nil
}
