package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/team"
	"github.com/aversa-dev/crewboard/internal/timelog"
	"github.com/aversa-dev/crewboard/internal/workload"
)

func fixtures() ([]timelog.TimeLog, map[string]team.Member, map[string]board.Task) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	logs := []timelog.TimeLog{
		{
			ID: "l1", UserID: "u1", TaskID: "t1",
			Start: start, End: &end, Duration: 90 * time.Minute,
			Description: "design review", Manual: true,
		},
		{
			// Still running, and referencing an unknown task.
			ID: "l2", UserID: "u2", TaskID: "gone",
			Start: end,
		},
	}
	members := map[string]team.Member{
		"u1": {ID: "u1", Name: "Alex Moretti"},
		"u2": {ID: "u2", Name: "Giulia Ferri"},
	}
	tasks := map[string]board.Task{
		"t1": {ID: "t1", Title: "Landing page"},
	}
	return logs, members, tasks
}

func TestLogsToCSV(t *testing.T) {
	logs, members, tasks := fixtures()
	path := filepath.Join(t.TempDir(), "logs.csv")

	if err := LogsToCSV(logs, members, tasks, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if records[0][0] != "ID" {
		t.Fatalf("header = %v", records[0])
	}

	row := records[1]
	if row[1] != "Alex Moretti" || row[2] != "Landing page" {
		t.Fatalf("resolved names: %v", row)
	}
	if row[5] != "5400000" || row[6] != "1h 30m" {
		t.Fatalf("duration columns: %v", row)
	}
	if row[7] != "yes" {
		t.Fatalf("manual column = %q", row[7])
	}

	// Open log: empty end, unknown task falls back to a placeholder.
	row = records[2]
	if row[2] != "Unknown" {
		t.Fatalf("unknown task = %q", row[2])
	}
	if row[4] != "" {
		t.Fatalf("open log end = %q, want empty", row[4])
	}
}

func TestLogsToJSON(t *testing.T) {
	logs, members, tasks := fixtures()
	path := filepath.Join(t.TempDir(), "logs.json")

	if err := LogsToJSON(logs, members, tasks, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var export jsonExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatal(err)
	}

	if export.Count != 2 || len(export.Logs) != 2 {
		t.Fatalf("count = %d, logs = %d", export.Count, len(export.Logs))
	}
	if export.ExportedAt == "" {
		t.Fatal("exported_at missing")
	}

	first := export.Logs[0]
	if first.Member != "Alex Moretti" || first.Task != "Landing page" {
		t.Fatalf("resolved names: %+v", first)
	}
	if first.DurationMs != 5400000 || first.Duration != "1h 30m" {
		t.Fatalf("durations: %+v", first)
	}
	if !first.Manual || first.Notes != "design review" {
		t.Fatalf("flags: %+v", first)
	}
	if export.Logs[1].EndTime != "" {
		t.Fatalf("open log end = %q, want empty", export.Logs[1].EndTime)
	}
}

func TestMetricsToCSV(t *testing.T) {
	metrics := []workload.MemberMetrics{
		{
			Name: "Alex Moretti", Completed: 2, TotalAssigned: 3,
			OnTimeRate: 100, LeadTimeAvg: 4, ReworkRate: 50,
			LoadPercentage: 13, TrackedTotal: 90 * time.Minute,
		},
	}
	path := filepath.Join(t.TempDir(), "workload.csv")

	if err := MetricsToCSV(metrics, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(records))
	}

	row := records[1]
	if row[0] != "Alex Moretti" || row[3] != "100" || row[7] != "13" {
		t.Fatalf("row = %v", row)
	}
	if row[9] != "1h 30m" {
		t.Fatalf("tracked column = %q", row[9])
	}
}
