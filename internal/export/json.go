package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/team"
	"github.com/aversa-dev/crewboard/internal/timelog"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Logs       []jsonLog `json:"logs"`
}

type jsonLog struct {
	ID         string `json:"id"`
	Member     string `json:"member"`
	MemberID   string `json:"member_id"`
	Task       string `json:"task"`
	TaskID     string `json:"task_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Duration   string `json:"duration"`
	Manual     bool   `json:"manual,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func LogsToJSON(logs []timelog.TimeLog, members map[string]team.Member, tasks map[string]board.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(logs),
	}

	for _, l := range logs {
		memberName := "Unknown"
		if m, ok := members[l.UserID]; ok {
			memberName = m.Name
		}
		taskTitle := "Unknown"
		if t, ok := tasks[l.TaskID]; ok {
			taskTitle = t.Title
		}
		endStr := ""
		if l.End != nil {
			endStr = l.End.Local().Format(time.RFC3339)
		}

		export.Logs = append(export.Logs, jsonLog{
			ID:         l.ID,
			Member:     memberName,
			MemberID:   l.UserID,
			Task:       taskTitle,
			TaskID:     l.TaskID,
			StartTime:  l.Start.Local().Format(time.RFC3339),
			EndTime:    endStr,
			DurationMs: l.Duration.Milliseconds(),
			Duration:   timelog.FormatElapsed(l.Duration),
			Manual:     l.Manual,
			Notes:      l.Description,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
