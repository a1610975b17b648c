package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aversa-dev/crewboard/internal/timelog"
)

// timerModel is the time-log view: the current member's running
// session plus their ledger, with a form for retroactive entries.
type timerModel struct {
	session *Session
	width   int
	height  int

	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTaskID *string
	formDate   *string
	formStart  *string
	formEnd    *string
	formNotes  *string
}

func newTimerModel(sess *Session) timerModel {
	taskID, date, start, end, notes := "", "", "", "", ""
	return timerModel{
		session:    sess,
		formTaskID: &taskID,
		formDate:   &date,
		formStart:  &start,
		formEnd:    &end,
		formNotes:  &notes,
	}
}

func (m *timerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// logs returns the current member's ledger, newest first.
func (m timerModel) logs() []timelog.TimeLog {
	all := m.session.ledger.ByUser(m.session.current.ID)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all
}

func (m timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.logs())-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Stop):
			log, stopped, err := m.session.StopTimer()
			if err != nil {
				return m, errStatus(err)
			}
			if stopped {
				return m, func() tea.Msg { return timerStoppedMsg{log: log} }
			}
		case key.Matches(msg, keys.Manual):
			m.openForm()
			return m, m.form.Init()
		case key.Matches(msg, keys.Delete):
			logs := m.logs()
			if m.cursor < len(logs) {
				if err := m.session.DeleteLog(logs[m.cursor].ID); err != nil {
					return m, errStatus(err)
				}
				if m.cursor > 0 {
					m.cursor--
				}
				return m, func() tea.Msg { return logDeletedMsg{} }
			}
		}
	}
	return m, nil
}

func (m *timerModel) openForm() {
	*m.formTaskID = ""
	*m.formDate = time.Now().Format("2006-01-02")
	*m.formStart = ""
	*m.formEnd = ""
	*m.formNotes = ""

	var taskOptions []huh.Option[string]
	for i := range m.session.tasks {
		t := &m.session.tasks[i]
		taskOptions = append(taskOptions, huh.NewOption(t.Title, t.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Task").Options(taskOptions...).Value(m.formTaskID),
			huh.NewInput().Title("Date").Placeholder("2006-01-02").Value(m.formDate),
			huh.NewInput().Title("Start (HH:MM)").Placeholder("09:00").Value(m.formStart),
			huh.NewInput().Title("End (HH:MM)").Placeholder("10:30").Value(m.formEnd),
			huh.NewInput().Title("Description").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
}

func (m timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.submitManual()
	}
	return m, cmd
}

func (m timerModel) submitManual() tea.Cmd {
	taskID := *m.formTaskID
	dateStr := *m.formDate
	startStr, endStr, notes := *m.formStart, *m.formEnd, *m.formNotes
	return func() tea.Msg {
		start, err1 := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+startStr, time.Local)
		end, err2 := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+endStr, time.Local)
		if err1 != nil || err2 != nil {
			return statusMsg{text: "Could not parse start/end time", isError: true}
		}
		log, err := m.session.LogManual(taskID, start, end, notes)
		if err != nil {
			if errors.Is(err, timelog.ErrInvalidRange) {
				return statusMsg{text: "End must be after start", isError: true}
			}
			return statusMsg{text: err.Error(), isError: true}
		}
		return manualLoggedMsg{log: log}
	}
}

func (m timerModel) view() string {
	if m.formActive && m.form != nil {
		return m.form.View()
	}

	var sections []string

	// Running session
	if active, ok := m.session.timer.ActiveForUser(m.session.current.ID); ok {
		task := m.session.task(active.TaskID)
		title := "?"
		if task != nil {
			title = task.Title
		}
		elapsed := m.session.timer.Elapsed(active.TaskID)
		sections = append(sections, activePanelStyle.Width(m.width-2).Render(
			successStyle.Render("● ")+titleStyle.Render(title)+
				"  "+successStyle.Render(timelog.FormatElapsed(elapsed)),
		))
	} else {
		sections = append(sections, panelStyle.Width(m.width-2).Render(
			mutedStyle.Render("No timer running. Start one from the board (s)."),
		))
	}

	// Ledger
	logs := m.logs()
	lines := []string{titleStyle.Render(fmt.Sprintf("Time logs — %s", m.session.current.Name)), ""}
	if len(logs) == 0 {
		lines = append(lines, mutedStyle.Render("  No logs yet. m adds a manual entry."))
	}
	for i, l := range logs {
		lines = append(lines, m.renderLog(l, i == m.cursor))
	}
	sections = append(sections, strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m timerModel) renderLog(l timelog.TimeLog, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	task := m.session.task(l.TaskID)
	title := "?"
	if task != nil {
		title = task.Title
	}

	when := l.Start.Local().Format("Jan 2 15:04")
	var dur, marker string
	if l.End == nil {
		dur = successStyle.Render("running")
	} else {
		dur = timelog.FormatElapsed(l.Duration)
	}
	if l.Manual {
		marker = mutedStyle.Render(" (manual)")
	}

	line := fmt.Sprintf("%s%s  %s  %s%s", cursor, style.Render(title), mutedStyle.Render(when), dur, marker)
	if l.Description != "" {
		line += mutedStyle.Render("  " + l.Description)
	}
	return line
}
