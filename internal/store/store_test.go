package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/team"
	"github.com/aversa-dev/crewboard/internal/timelog"
	"github.com/aversa-dev/crewboard/internal/workload"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func timePtr(t time.Time) *time.Time { return &t }

// ============================================================
// Migrations
// ============================================================

func TestMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s1.CreateMember("Alex", team.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	// Reopening the same file re-runs migrate against an up-to-date
	// schema and must not lose data.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	members, err := s2.ListMembers()
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0].Name != "Alex" {
		t.Fatalf("members after reopen = %+v", members)
	}
}

// ============================================================
// Members
// ============================================================

func TestMemberRoundTrip(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateMember("Giulia", team.RoleMember)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := s.GetMember(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != created {
		t.Fatalf("got %+v, want %+v", got, created)
	}
}

func TestListMembersOrder(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"Alex", "Giulia", "Marta"} {
		if _, err := s.CreateMember(name, team.RoleMember); err != nil {
			t.Fatal(err)
		}
	}

	members, err := s.ListMembers()
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 3 {
		t.Fatalf("len = %d, want 3", len(members))
	}
}

// ============================================================
// Boards and columns
// ============================================================

func TestCreateBoardWithColumns(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateBoard("Agency projects",
		[]string{"Backlog", "In Corso", "Done"},
		map[string]bool{"Done": true},
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBoard(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(got.Columns))
	}
	for i, title := range []string{"Backlog", "In Corso", "Done"} {
		if got.Columns[i].Title != title || got.Columns[i].Position != i {
			t.Fatalf("column %d = %+v", i, got.Columns[i])
		}
	}
	if !got.Columns[2].Terminal || got.Columns[0].Terminal {
		t.Fatal("terminal flag misplaced")
	}
}

func TestRenameColumn(t *testing.T) {
	s := newTestStore(t)

	b, err := s.CreateBoard("b", []string{"Done"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RenameColumn(b.Columns[0].ID, "Finito"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBoard(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Columns[0].Title != "Finito" {
		t.Fatalf("title = %q, want Finito", got.Columns[0].Title)
	}
}

// ============================================================
// Tasks
// ============================================================

func seedBoard(t *testing.T, s *Store) (board.Board, team.Member) {
	t.Helper()
	m, err := s.CreateMember("Alex", team.RoleMember)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateBoard("b", []string{"Backlog", "Done"}, map[string]bool{"Done": true})
	if err != nil {
		t.Fatal(err)
	}
	return b, m
}

func TestTaskRoundTrip(t *testing.T) {
	s := newTestStore(t)
	b, m := seedBoard(t, s)

	due := time.Date(2025, 3, 20, 17, 0, 0, 0, time.UTC)
	effort := 5.0
	created, err := s.CreateTask(board.Task{
		BoardID:   b.ID,
		ColumnID:  b.Columns[0].ID,
		Title:     "Landing page",
		Assignees: []string{m.ID},
		DueDate:   timePtr(due),
		Effort:    &effort,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Landing page" || got.ColumnID != b.Columns[0].ID {
		t.Fatalf("got %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("dueDate = %v, want %v", got.DueDate, due)
	}
	if got.Effort == nil || *got.Effort != 5 {
		t.Fatalf("effort = %v, want 5", got.Effort)
	}
	if len(got.Assignees) != 1 || got.Assignees[0] != m.ID {
		t.Fatalf("assignees = %v", got.Assignees)
	}
	if got.CompletedAt != nil || got.Blocked || got.ReworkCount != 0 {
		t.Fatalf("fresh task should have zero lifecycle state: %+v", got)
	}
}

func TestSaveTaskLifecycleFields(t *testing.T) {
	s := newTestStore(t)
	b, _ := seedBoard(t, s)

	created, err := s.CreateTask(board.Task{BoardID: b.ID, ColumnID: b.Columns[0].ID, Title: "t"})
	if err != nil {
		t.Fatal(err)
	}

	done := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	created.ColumnID = b.Columns[1].ID
	created.CompletedAt = timePtr(done)
	created.ReworkCount = 2
	created.Blocked = true
	if err := s.SaveTask(created); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ColumnID != b.Columns[1].ID || got.ReworkCount != 2 || !got.Blocked {
		t.Fatalf("got %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Fatalf("completedAt = %v, want %v", got.CompletedAt, done)
	}
}

func TestListAndDeleteTasks(t *testing.T) {
	s := newTestStore(t)
	b, _ := seedBoard(t, s)

	t1, err := s.CreateTask(board.Task{BoardID: b.ID, ColumnID: b.Columns[0].ID, Title: "one"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTask(board.Task{BoardID: b.ID, ColumnID: b.Columns[0].ID, Title: "two"}); err != nil {
		t.Fatal(err)
	}

	tasks, err := s.ListTasks(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}

	if err := s.DeleteTask(t1.ID); err != nil {
		t.Fatal(err)
	}
	tasks, err = s.ListTasks(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "two" {
		t.Fatalf("after delete: %+v", tasks)
	}
}

// ============================================================
// Time logs
// ============================================================

func seedLogFixtures(t *testing.T, s *Store) (team.Member, board.Task) {
	t.Helper()
	b, m := seedBoard(t, s)
	task, err := s.CreateTask(board.Task{BoardID: b.ID, ColumnID: b.Columns[0].ID, Title: "t"})
	if err != nil {
		t.Fatal(err)
	}
	return m, task
}

func TestLogRoundTrip(t *testing.T) {
	s := newTestStore(t)
	m, task := seedLogFixtures(t, s)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	log := timelog.TimeLog{
		ID:          "l1",
		UserID:      m.ID,
		TaskID:      task.ID,
		Start:       start,
		End:         &end,
		Duration:    90 * time.Minute,
		Description: "design review",
		Manual:      true,
	}
	if err := s.InsertLog(log); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetLog("l1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Start.Equal(start) || got.End == nil || !got.End.Equal(end) {
		t.Fatalf("range = %v..%v", got.Start, got.End)
	}
	if got.Duration != 90*time.Minute {
		t.Fatalf("duration = %v, want 1h30m", got.Duration)
	}
	if !got.Manual || got.Description != "design review" {
		t.Fatalf("got %+v", got)
	}
}

func TestSaveLogClosesOpenRecord(t *testing.T) {
	s := newTestStore(t)
	m, task := seedLogFixtures(t, s)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	log := timelog.TimeLog{ID: "l1", UserID: m.ID, TaskID: task.ID, Start: start}
	if err := s.InsertLog(log); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetLog("l1")
	if err != nil {
		t.Fatal(err)
	}
	if got.End != nil {
		t.Fatal("open log should round-trip with nil end")
	}

	end := start.Add(time.Hour)
	log.End = &end
	log.Duration = time.Hour
	if err := s.SaveLog(log); err != nil {
		t.Fatal(err)
	}

	got, err = s.GetLog("l1")
	if err != nil {
		t.Fatal(err)
	}
	if got.End == nil || got.Duration != time.Hour {
		t.Fatalf("after close: %+v", got)
	}
}

func TestListLogsFilters(t *testing.T) {
	s := newTestStore(t)
	m, task := seedLogFixtures(t, s)
	other, err := s.CreateMember("Giulia", team.RoleMember)
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	insert := func(id string, memberID string, offset time.Duration) {
		t.Helper()
		start := base.Add(offset)
		end := start.Add(time.Hour)
		err := s.InsertLog(timelog.TimeLog{
			ID: id, UserID: memberID, TaskID: task.ID,
			Start: start, End: &end, Duration: time.Hour,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	insert("l1", m.ID, 0)
	insert("l2", m.ID, 24*time.Hour)
	insert("l3", other.ID, 48*time.Hour)

	logs, err := s.ListLogs(LogFilter{MemberID: &m.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("member filter: len = %d, want 2", len(logs))
	}
	// Chronological order.
	if logs[0].ID != "l1" || logs[1].ID != "l2" {
		t.Fatalf("order: %s, %s", logs[0].ID, logs[1].ID)
	}

	from := base.Add(12 * time.Hour)
	to := base.Add(36 * time.Hour)
	logs, err = s.ListLogs(LogFilter{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].ID != "l2" {
		t.Fatalf("range filter: %+v", logs)
	}

	logs, err = s.ListLogs(LogFilter{TaskID: &task.ID, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("limit: len = %d, want 2", len(logs))
	}
}

func TestDeleteLog(t *testing.T) {
	s := newTestStore(t)
	m, task := seedLogFixtures(t, s)

	err := s.InsertLog(timelog.TimeLog{
		ID: "l1", UserID: m.ID, TaskID: task.ID,
		Start: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteLog("l1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetLog("l1"); err == nil {
		t.Fatal("expected error for deleted log")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSetting("capacity_hours")
	if err != nil {
		t.Fatal(err)
	}
	if v != "40" {
		t.Fatalf("capacity_hours = %q, want 40", v)
	}
	if got := s.CapacityHours(); got != workload.DefaultCapacityHours {
		t.Fatalf("CapacityHours = %v, want %v", got, workload.DefaultCapacityHours)
	}
}

func TestSetSettingUpserts(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting("capacity_hours", "32"); err != nil {
		t.Fatal(err)
	}
	if got := s.CapacityHours(); got != 32 {
		t.Fatalf("CapacityHours = %v, want 32", got)
	}

	// Bad data falls back to the default rather than poisoning the
	// aggregator.
	if err := s.SetSetting("capacity_hours", "not a number"); err != nil {
		t.Fatal(err)
	}
	if got := s.CapacityHours(); got != workload.DefaultCapacityHours {
		t.Fatalf("CapacityHours = %v, want default", got)
	}
}

func TestClassifierFromSettings(t *testing.T) {
	s := newTestStore(t)

	// Default: title heuristic with the seeded keywords.
	c := s.Classifier()
	if !c.Done(board.Column{Title: "Fatto"}) {
		t.Fatal("seeded keywords should classify Fatto as done")
	}

	if err := s.SetSetting("done_keywords", "finito"); err != nil {
		t.Fatal(err)
	}
	c = s.Classifier()
	if !c.Done(board.Column{Title: "Finito"}) || c.Done(board.Column{Title: "Done"}) {
		t.Fatal("custom keywords should replace the defaults")
	}

	if err := s.SetSetting("classifier", "flag"); err != nil {
		t.Fatal(err)
	}
	c = s.Classifier()
	if _, ok := c.(board.FlagClassifier); !ok {
		t.Fatalf("classifier = %T, want FlagClassifier", c)
	}
}
