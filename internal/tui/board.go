package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/timelog"
)

type boardModel struct {
	session *Session
	width   int
	height  int

	boardIdx int
	colIdx   int
	taskIdx  int
}

func newBoardModel(sess *Session) boardModel {
	return boardModel{session: sess}
}

func (m *boardModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m boardModel) currentBoard() *board.Board {
	boards := m.session.boards
	if len(boards) == 0 {
		return nil
	}
	if m.boardIdx >= len(boards) {
		m.boardIdx = 0
	}
	return &boards[m.boardIdx]
}

// selectedTask resolves the cursor to a task, or nil on an empty
// column.
func (m boardModel) selectedTask() *board.Task {
	b := m.currentBoard()
	if b == nil || m.colIdx >= len(b.Columns) {
		return nil
	}
	tasks := m.session.TasksIn(b)[b.Columns[m.colIdx].ID]
	if m.taskIdx >= len(tasks) {
		return nil
	}
	return tasks[m.taskIdx]
}

func (m boardModel) update(msg tea.Msg) (boardModel, tea.Cmd) {
	b := m.currentBoard()
	if b == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if m.colIdx > 0 {
				m.colIdx--
				m.taskIdx = 0
			}
		case key.Matches(msg, keys.Right):
			if m.colIdx < len(b.Columns)-1 {
				m.colIdx++
				m.taskIdx = 0
			}
		case key.Matches(msg, keys.Up):
			if m.taskIdx > 0 {
				m.taskIdx--
			}
		case key.Matches(msg, keys.Down):
			tasks := m.session.TasksIn(b)[b.Columns[m.colIdx].ID]
			if m.taskIdx < len(tasks)-1 {
				m.taskIdx++
			}
		case key.Matches(msg, keys.MoveLeft):
			return m.moveSelected(b, -1)
		case key.Matches(msg, keys.MoveRight):
			return m.moveSelected(b, +1)
		case key.Matches(msg, keys.Block):
			if t := m.selectedTask(); t != nil {
				if err := m.session.ToggleBlocked(t.ID); err != nil {
					return m, errStatus(err)
				}
			}
		case key.Matches(msg, keys.Start):
			if t := m.selectedTask(); t != nil {
				log, err := m.session.StartTimer(t.ID)
				if err != nil {
					return m, errStatus(err)
				}
				return m, func() tea.Msg { return timerStartedMsg{log: log} }
			}
		case key.Matches(msg, keys.Stop):
			log, stopped, err := m.session.StopTimer()
			if err != nil {
				return m, errStatus(err)
			}
			if stopped {
				return m, func() tea.Msg { return timerStoppedMsg{log: log} }
			}
		}
	}
	return m, nil
}

func (m boardModel) moveSelected(b *board.Board, delta int) (boardModel, tea.Cmd) {
	t := m.selectedTask()
	if t == nil {
		return m, nil
	}
	target := m.colIdx + delta
	if target < 0 || target >= len(b.Columns) {
		return m, nil
	}
	if err := m.session.MoveTask(t.ID, b.Columns[target].ID); err != nil {
		return m, errStatus(err)
	}
	m.colIdx = target
	m.taskIdx = 0
	id := t.ID
	return m, func() tea.Msg { return taskMovedMsg{taskID: id} }
}

func (m boardModel) view() string {
	b := m.currentBoard()
	if b == nil {
		return mutedStyle.Render("No boards yet.")
	}

	byColumn := m.session.TasksIn(b)
	colWidth := m.width/len(b.Columns) - 4
	if colWidth < 16 {
		colWidth = 16
	}

	var panels []string
	for ci, col := range b.Columns {
		header := titleStyle.Render(col.Title)
		if m.session.DoneColumn(col) {
			header += successStyle.Render(" ✓")
		}

		lines := []string{header, ""}
		for ti, t := range byColumn[col.ID] {
			selected := ci == m.colIdx && ti == m.taskIdx
			lines = append(lines, m.renderTask(t, colWidth, selected))
		}
		if len(byColumn[col.ID]) == 0 {
			lines = append(lines, mutedStyle.Render("  —"))
		}

		style := panelStyle
		if ci == m.colIdx {
			style = activePanelStyle
		}
		panels = append(panels, style.Width(colWidth).Render(strings.Join(lines, "\n")))
	}

	boardTitle := titleStyle.Render(b.Title)
	return lipgloss.JoinVertical(lipgloss.Left,
		boardTitle,
		lipgloss.JoinHorizontal(lipgloss.Top, panels...),
	)
}

func (m boardModel) renderTask(t *board.Task, width int, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	var badges []string
	if _, running := m.session.timer.ActiveForTask(t.ID); running {
		badges = append(badges, successStyle.Render("●"))
	}
	if elapsed := m.session.timer.Elapsed(t.ID); elapsed > 0 {
		badges = append(badges, mutedStyle.Render(timelog.FormatElapsed(elapsed)))
	}
	if t.Blocked {
		badges = append(badges, errorStyle.Render("blocked"))
	}
	if t.ReworkCount > 0 {
		badges = append(badges, warningStyle.Render(fmt.Sprintf("rework ×%d", t.ReworkCount)))
	}
	if t.DueDate != nil {
		badges = append(badges, mutedStyle.Render(t.DueDate.Format("Jan 2")))
	}

	title := t.Title
	if lipgloss.Width(title) > width-4 {
		title = title[:width-5] + "…"
	}
	line := cursor + style.Render(title)
	if len(badges) > 0 {
		line += " " + strings.Join(badges, " ")
	}
	return line
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: err.Error(), isError: true}
	}
}
