package board

import "time"

// Column is one stage of a board. Terminal marks it as a completion
// stage explicitly; whether that flag or the title heuristic decides
// "done" is up to the Classifier in use.
type Column struct {
	ID       string
	BoardID  string
	Title    string
	Position int
	Terminal bool
}

type Board struct {
	ID      string
	Title   string
	Columns []Column
}

// Column returns the column with the given ID.
func (b *Board) Column(id string) (Column, bool) {
	for _, c := range b.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

type Task struct {
	ID          string
	BoardID     string
	ColumnID    string
	Title       string
	Assignees   []string
	DueDate     *time.Time
	Effort      *float64 // estimated hours
	Blocked     bool
	ReworkCount int
	CompletedAt *time.Time
	CreatedAt   time.Time
}

func (t *Task) AssignedTo(memberID string) bool {
	for _, id := range t.Assignees {
		if id == memberID {
			return true
		}
	}
	return false
}
