package tui

import (
	"fmt"
	"time"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/store"
	"github.com/aversa-dev/crewboard/internal/team"
	"github.com/aversa-dev/crewboard/internal/timelog"
	"github.com/aversa-dev/crewboard/internal/workload"
)

// Session wires the engine over one store for the current user. All
// mutations go through it: the engine state in memory is authoritative
// and every change is written through to sqlite.
type Session struct {
	store   *store.Store
	ledger  *timelog.Ledger
	timer   *timelog.Timer
	tracker *board.Tracker
	agg     *workload.Aggregator

	current team.Member
	members *team.Directory
	boards  []board.Board
	tasks   []board.Task
}

// NewSession loads the collections from the store and assembles the
// engine around them.
func NewSession(s *store.Store, currentMemberID string, clock timelog.Clock) (*Session, error) {
	members, err := s.ListMembers()
	if err != nil {
		return nil, err
	}
	boards, err := s.ListBoards()
	if err != nil {
		return nil, err
	}
	var tasks []board.Task
	for _, b := range boards {
		bt, err := s.ListTasks(b.ID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, bt...)
	}
	logs, err := s.ListLogs(store.LogFilter{})
	if err != nil {
		return nil, err
	}

	classifier := s.Classifier()
	ledger := timelog.NewLedger()
	ledger.Load(logs)

	sess := &Session{
		store:   s,
		ledger:  ledger,
		timer:   timelog.NewTimer(ledger, clock),
		tracker: board.NewTracker(classifier, clock),
		agg:     workload.NewAggregator(classifier, clock, s.CapacityHours()),
		members: team.NewDirectory(members...),
		boards:  boards,
		tasks:   tasks,
	}
	if m, ok := sess.members.Get(currentMemberID); ok {
		sess.current = m
	} else if len(members) > 0 {
		sess.current = members[0]
	}
	return sess, nil
}

func (s *Session) Current() team.Member   { return s.current }
func (s *Session) Members() []team.Member { return s.members.All() }
func (s *Session) Boards() []board.Board  { return s.boards }
func (s *Session) Timer() *timelog.Timer  { return s.timer }

// DoneColumn reports whether the active classifier counts the column
// as a completion stage.
func (s *Session) DoneColumn(c board.Column) bool { return s.tracker.Done(c) }

func (s *Session) task(id string) *board.Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i]
		}
	}
	return nil
}

func (s *Session) boardOf(t *board.Task) *board.Board {
	for i := range s.boards {
		if s.boards[i].ID == t.BoardID {
			return &s.boards[i]
		}
	}
	return nil
}

// TasksIn returns the board's tasks grouped per column, preserving
// creation order within a column.
func (s *Session) TasksIn(b *board.Board) map[string][]*board.Task {
	out := make(map[string][]*board.Task)
	for i := range s.tasks {
		if s.tasks[i].BoardID == b.ID {
			out[s.tasks[i].ColumnID] = append(out[s.tasks[i].ColumnID], &s.tasks[i])
		}
	}
	return out
}

// StartTimer opens a log for the current user on the task, persisting
// both the auto-closed previous log and the new one.
func (s *Session) StartTimer(taskID string) (timelog.TimeLog, error) {
	prev, hadOpen := s.timer.ActiveForUser(s.current.ID)
	log := s.timer.Start(s.current.ID, taskID)
	if hadOpen {
		if closed, ok := s.ledger.Get(prev.ID); ok {
			if err := s.store.SaveLog(closed); err != nil {
				return log, err
			}
		}
	}
	return log, s.store.InsertLog(log)
}

// StopTimer closes the current user's running log, if any.
func (s *Session) StopTimer() (timelog.TimeLog, bool, error) {
	log, ok := s.timer.StopFor(s.current.ID)
	if !ok {
		return timelog.TimeLog{}, false, nil
	}
	return log, true, s.store.SaveLog(log)
}

// LogManual records a retroactive closed session for the current user.
func (s *Session) LogManual(taskID string, start, end time.Time, description string) (timelog.TimeLog, error) {
	log, err := s.timer.LogManual(s.current.ID, taskID, start, end, description)
	if err != nil {
		return timelog.TimeLog{}, err
	}
	return log, s.store.InsertLog(log)
}

// DeleteLog removes a log after the ownership check: members delete
// their own logs, admins delete anyone's.
func (s *Session) DeleteLog(logID string) error {
	log, ok := s.ledger.Get(logID)
	if !ok {
		return fmt.Errorf("delete %s: %w", logID, timelog.ErrNotFound)
	}
	if err := team.AuthorizeLogEdit(s.current, log.UserID); err != nil {
		return err
	}
	if err := s.timer.DeleteLog(logID); err != nil {
		return err
	}
	return s.store.DeleteLog(logID)
}

// UpdateLog edits a log after the same ownership check.
func (s *Session) UpdateLog(logID string, patch timelog.LogPatch) (timelog.TimeLog, error) {
	log, ok := s.ledger.Get(logID)
	if !ok {
		return timelog.TimeLog{}, fmt.Errorf("update %s: %w", logID, timelog.ErrNotFound)
	}
	if err := team.AuthorizeLogEdit(s.current, log.UserID); err != nil {
		return timelog.TimeLog{}, err
	}
	updated, err := s.timer.UpdateLog(logID, patch)
	if err != nil {
		return timelog.TimeLog{}, err
	}
	return updated, s.store.SaveLog(updated)
}

// MoveTask applies the lifecycle transition and persists the task.
func (s *Session) MoveTask(taskID, toColumnID string) error {
	t := s.task(taskID)
	if t == nil {
		return fmt.Errorf("move: task %s not found", taskID)
	}
	b := s.boardOf(t)
	if b == nil {
		return fmt.Errorf("move: board %s not found", t.BoardID)
	}
	if err := s.tracker.Move(b, t, toColumnID); err != nil {
		return err
	}
	return s.store.SaveTask(*t)
}

// ToggleBlocked flips the task's blocked flag and persists it.
func (s *Session) ToggleBlocked(taskID string) error {
	t := s.task(taskID)
	if t == nil {
		return fmt.Errorf("toggle blocked: task %s not found", taskID)
	}
	s.tracker.SetBlocked(t, !t.Blocked)
	return s.store.SaveTask(*t)
}

// Snapshot assembles the aggregator input from current engine state.
func (s *Session) Snapshot() workload.Snapshot {
	return workload.Snapshot{
		Members: s.members.All(),
		Boards:  s.boards,
		Tasks:   append([]board.Task(nil), s.tasks...),
		Logs:    s.ledger.All(),
	}
}

// Metrics recomputes the full workload snapshot on demand.
func (s *Session) Metrics() ([]workload.MemberMetrics, workload.TeamKPIs) {
	metrics := s.agg.AllMetrics(s.Snapshot())
	return metrics, s.agg.TeamKPIs(metrics)
}
