package timelog

import "sync"

// Ledger holds the time-log collection. It is plain storage: append,
// replace, delete and filter. Business rules (single open log, range
// validation) live in Timer.
type Ledger struct {
	mu   sync.RWMutex
	logs []TimeLog
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Load replaces the ledger contents, preserving the given order.
func (l *Ledger) Load(logs []TimeLog) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs[:0], logs...)
}

func (l *Ledger) Append(log TimeLog) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, log)
}

func (l *Ledger) Get(id string) (TimeLog, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, log := range l.logs {
		if log.ID == id {
			return log, true
		}
	}
	return TimeLog{}, false
}

// Replace swaps the stored log with the same ID. Returns false when no
// such log exists.
func (l *Ledger) Replace(log TimeLog) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.logs {
		if l.logs[i].ID == log.ID {
			l.logs[i] = log
			return true
		}
	}
	return false
}

func (l *Ledger) Delete(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.logs {
		if l.logs[i].ID == id {
			l.logs = append(l.logs[:i], l.logs[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Ledger) ByTask(taskID string) []TimeLog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []TimeLog
	for _, log := range l.logs {
		if log.TaskID == taskID {
			out = append(out, log)
		}
	}
	return out
}

func (l *Ledger) ByUser(userID string) []TimeLog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []TimeLog
	for _, log := range l.logs {
		if log.UserID == userID {
			out = append(out, log)
		}
	}
	return out
}

// OpenFor returns the user's running log, if any. The single-open-log
// invariant makes the first match the only match.
func (l *Ledger) OpenFor(userID string) (TimeLog, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, log := range l.logs {
		if log.UserID == userID && log.End == nil {
			return log, true
		}
	}
	return TimeLog{}, false
}

// All returns a snapshot copy in insertion order.
func (l *Ledger) All() []TimeLog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]TimeLog, len(l.logs))
	copy(out, l.logs)
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.logs)
}
