package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/team"
	"github.com/aversa-dev/crewboard/internal/timelog"
	"github.com/aversa-dev/crewboard/internal/workload"
)

// LogsToCSV writes the time ledger with member and task names resolved
// from the given maps.
func LogsToCSV(logs []timelog.TimeLog, members map[string]team.Member, tasks map[string]board.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Member", "Task", "Start", "End", "Duration (ms)", "Duration", "Manual", "Description"}); err != nil {
		return err
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
		manual := ""
		if l.Manual {
			manual = "yes"
		}

		row := []string{
			l.ID,
			memberName,
			taskTitle,
			l.Start.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", l.Duration.Milliseconds()),
			timelog.FormatElapsed(l.Duration),
			manual,
			l.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// MetricsToCSV writes the computed member metrics as a report.
func MetricsToCSV(metrics []workload.MemberMetrics, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Member", "Completed", "Assigned", "On-time %", "Lead time (h)", "Delayed", "Rework %", "Load %", "Blocked", "Tracked"}); err != nil {
		return err
	}

	for _, m := range metrics {
		row := []string{
			m.Name,
			fmt.Sprintf("%d", m.Completed),
			fmt.Sprintf("%d", m.TotalAssigned),
			fmt.Sprintf("%d", m.OnTimeRate),
			fmt.Sprintf("%d", m.LeadTimeAvg),
			fmt.Sprintf("%d", m.DelayedTasks),
			fmt.Sprintf("%d", m.ReworkRate),
			fmt.Sprintf("%d", m.LoadPercentage),
			fmt.Sprintf("%d", m.BlockedCount),
			timelog.FormatElapsed(m.TrackedTotal),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
