package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/store"
	"github.com/aversa-dev/crewboard/internal/team"
	"github.com/aversa-dev/crewboard/internal/timelog"
	"github.com/aversa-dev/crewboard/internal/tui"
)

func main() {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := seedIfEmpty(s); err != nil {
		fmt.Fprintf(os.Stderr, "error seeding database: %v\n", err)
		os.Exit(1)
	}

	current, _ := s.GetSetting("current_member")
	sess, err := tui.NewSession(s, current, timelog.SystemClock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading data: %v\n", err)
		os.Exit(1)
	}

	app := tui.NewApp(sess)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// seedIfEmpty creates a starter team and board on first run so the
// dashboard is usable immediately.
func seedIfEmpty(s *store.Store) error {
	members, err := s.ListMembers()
	if err != nil {
		return err
	}
	if len(members) > 0 {
		return nil
	}

	admin, err := s.CreateMember("Alex Moretti", team.RoleAdmin)
	if err != nil {
		return err
	}
	dev, err := s.CreateMember("Giulia Ferri", team.RoleMember)
	if err != nil {
		return err
	}

	b, err := s.CreateBoard("Agency projects",
		[]string{"Backlog", "In Corso", "Review", "Done"},
		map[string]bool{"Done": true},
	)
	if err != nil {
		return err
	}

	effort := 5.0
	due := time.Now().AddDate(0, 0, 7)
	tasks := []board.Task{
		{BoardID: b.ID, ColumnID: b.Columns[0].ID, Title: "Website redesign brief", Assignees: []string{admin.ID}, Effort: &effort, DueDate: &due},
		{BoardID: b.ID, ColumnID: b.Columns[1].ID, Title: "Client onboarding flow", Assignees: []string{dev.ID}, Effort: &effort},
	}
	for _, t := range tasks {
		if _, err := s.CreateTask(t); err != nil {
			return err
		}
	}

	return s.SetSetting("current_member", admin.ID)
}
