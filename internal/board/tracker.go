package board

import (
	"errors"
	"fmt"

	"github.com/aversa-dev/crewboard/internal/timelog"
)

// ErrUnknownColumn is returned when a move names a column that does
// not belong to the task's board.
var ErrUnknownColumn = errors.New("unknown column")

// Tracker applies status transitions and keeps the rework count,
// completion timestamp and blocked flag consistent.
type Tracker struct {
	classifier Classifier
	clock      timelog.Clock
}

func NewTracker(classifier Classifier, clock timelog.Clock) *Tracker {
	if classifier == nil {
		classifier = TitleClassifier{}
	}
	if clock == nil {
		clock = timelog.SystemClock
	}
	return &Tracker{classifier: classifier, clock: clock}
}

func (tr *Tracker) Done(c Column) bool { return tr.classifier.Done(c) }

// TaskDone reports whether the task currently sits in a done-like
// column of its board.
func (tr *Tracker) TaskDone(b *Board, t *Task) bool {
	col, ok := b.Column(t.ColumnID)
	return ok && tr.classifier.Done(col)
}

// Move places the task in the target column and applies the
// transition rule: leaving a done-like column for a non-done-like one
// counts as rework, exactly once per such transition; arriving in a
// done-like column stamps completedAt, arriving anywhere else clears
// it. The blocked flag is orthogonal and untouched.
func (tr *Tracker) Move(b *Board, t *Task, toColumnID string) error {
	to, ok := b.Column(toColumnID)
	if !ok {
		return fmt.Errorf("move task %s to %s: %w", t.ID, toColumnID, ErrUnknownColumn)
	}

	fromDone := false
	if from, ok := b.Column(t.ColumnID); ok {
		fromDone = tr.classifier.Done(from)
	}
	toDone := tr.classifier.Done(to)

	if fromDone && !toDone {
		t.ReworkCount++
	}
	if toDone {
		now := tr.clock.Now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.ColumnID = to.ID
	return nil
}

// SetBlocked toggles the blocked flag independently of status.
func (tr *Tracker) SetBlocked(t *Task, blocked bool) {
	t.Blocked = blocked
}
