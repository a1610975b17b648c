package timelog

import "time"

// TimeLog is a single recorded work session attributed to a member and
// a task. A log with a nil End is still running; its duration is
// derived from the clock on every read and only persisted on stop.
type TimeLog struct {
	ID          string
	UserID      string
	TaskID      string
	Start       time.Time
	End         *time.Time
	Duration    time.Duration // authoritative once End is set
	Description string
	Manual      bool
}

// Open reports whether the session is still running.
func (l TimeLog) Open() bool {
	return l.End == nil
}

// LogPatch is a partial update applied to an existing log. Nil fields
// are left untouched.
type LogPatch struct {
	TaskID      *string
	Start       *time.Time
	End         *time.Time
	Description *string
}
