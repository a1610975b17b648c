package timelog

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Timer is the single mutating entry point over a Ledger. It enforces
// the engine's two invariants: at most one open log per user, and
// end > start for every closed log. The mutex keeps close-then-open in
// Start a single step if the engine is ever driven concurrently.
type Timer struct {
	mu     sync.Mutex
	ledger *Ledger
	clock  Clock
}

func NewTimer(ledger *Ledger, clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	return &Timer{ledger: ledger, clock: clock}
}

func (t *Timer) Ledger() *Ledger { return t.ledger }

// Start opens a new log for the user on the given task. Any log the
// user already has running is closed first, so Start never fails.
func (t *Timer) Start(userID, taskID string) TimeLog {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	if open, ok := t.ledger.OpenFor(userID); ok {
		t.closeAt(open, now)
	}
	log := TimeLog{
		ID:     uuid.NewString(),
		UserID: userID,
		TaskID: taskID,
		Start:  now,
	}
	t.ledger.Append(log)
	return log
}

// Stop closes the identified log. Stopping a log that is already
// closed is a no-op; an unknown ID is an error.
func (t *Timer) Stop(logID string) (TimeLog, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	log, ok := t.ledger.Get(logID)
	if !ok {
		return TimeLog{}, fmt.Errorf("stop %s: %w", logID, ErrNotFound)
	}
	if log.End != nil {
		return log, nil
	}
	return t.closeAt(log, t.clock.Now()), nil
}

// StopFor closes the user's running log, if there is one.
func (t *Timer) StopFor(userID string) (TimeLog, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	open, ok := t.ledger.OpenFor(userID)
	if !ok {
		return TimeLog{}, false
	}
	return t.closeAt(open, t.clock.Now()), true
}

func (t *Timer) closeAt(log TimeLog, now time.Time) TimeLog {
	log.End = &now
	log.Duration = now.Sub(log.Start)
	t.ledger.Replace(log)
	return log
}

// LogManual records a retroactive session, closed at creation. The
// range is validated before anything touches the ledger.
func (t *Timer) LogManual(userID, taskID string, start, end time.Time, description string) (TimeLog, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := validateRange(start, end); err != nil {
		return TimeLog{}, err
	}
	log := TimeLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		TaskID:      taskID,
		Start:       start,
		End:         &end,
		Duration:    end.Sub(start),
		Description: description,
		Manual:      true,
	}
	t.ledger.Append(log)
	return log, nil
}

// UpdateLog applies a shallow merge. A merge that would leave a closed
// log with end <= start is rejected by the same rule as LogManual and
// nothing is written.
func (t *Timer) UpdateLog(logID string, patch LogPatch) (TimeLog, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	log, ok := t.ledger.Get(logID)
	if !ok {
		return TimeLog{}, fmt.Errorf("update %s: %w", logID, ErrNotFound)
	}
	if patch.TaskID != nil {
		log.TaskID = *patch.TaskID
	}
	if patch.Start != nil {
		log.Start = *patch.Start
	}
	if patch.End != nil {
		end := *patch.End
		log.End = &end
	}
	if patch.Description != nil {
		log.Description = *patch.Description
	}
	if log.End != nil {
		if err := validateRange(log.Start, *log.End); err != nil {
			return TimeLog{}, err
		}
		log.Duration = log.End.Sub(log.Start)
	}
	t.ledger.Replace(log)
	return log, nil
}

// DeleteLog removes the record permanently. Who may delete is the
// caller's policy, not the timer's.
func (t *Timer) DeleteLog(logID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ledger.Delete(logID) {
		return fmt.Errorf("delete %s: %w", logID, ErrNotFound)
	}
	return nil
}

// Elapsed sums all time recorded against the task. An open log
// contributes clock-now minus its start, so repeated calls while a
// timer runs return increasing values.
func (t *Timer) Elapsed(taskID string) time.Duration {
	return t.total(t.ledger.ByTask(taskID))
}

// ElapsedByUser is Elapsed keyed by log owner instead of task.
func (t *Timer) ElapsedByUser(userID string) time.Duration {
	return t.total(t.ledger.ByUser(userID))
}

func (t *Timer) total(logs []TimeLog) time.Duration {
	now := t.clock.Now()
	var sum time.Duration
	for _, log := range logs {
		if log.End == nil {
			sum += now.Sub(log.Start)
		} else {
			sum += log.Duration
		}
	}
	return sum
}

// ActiveForTask returns the running log on the task, if any.
func (t *Timer) ActiveForTask(taskID string) (TimeLog, bool) {
	for _, log := range t.ledger.ByTask(taskID) {
		if log.End == nil {
			return log, true
		}
	}
	return TimeLog{}, false
}

// ActiveForUser returns the user's running log, if any.
func (t *Timer) ActiveForUser(userID string) (TimeLog, bool) {
	return t.ledger.OpenFor(userID)
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return fmt.Errorf("range %s..%s: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), ErrInvalidRange)
	}
	return nil
}
