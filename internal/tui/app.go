package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/export"
	"github.com/aversa-dev/crewboard/internal/team"
	"github.com/aversa-dev/crewboard/internal/timelog"
)

// App is the root Bubble Tea model.
type App struct {
	session *Session
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	boardView boardModel
	timerView timerModel
	teamView  teamModel

	help   help.Model
	status string
}

func NewApp(sess *Session) App {
	h := help.New()
	h.ShowAll = false

	return App{
		session:   sess,
		boardView: newBoardModel(sess),
		timerView: newTimerModel(sess),
		teamView:  newTeamModel(sess),
		help:      h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.teamView.refresh(),
		tickCmd(),
	)
}

// The engine has no background clock; the UI polls it once a second so
// live elapsed values advance on screen.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.boardView.setSize(a.width, contentHeight)
		a.timerView.setSize(a.width, contentHeight)
		a.teamView.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// The manual-entry form captures all input while open.
		if a.timerView.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewBoard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewTeam
			return a, a.teamView.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 3
			if a.activeView == viewTeam {
				return a, a.teamView.refresh()
			}
			return a, nil
		}

	case tickMsg:
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		return a, nil

	case timerStartedMsg:
		a.status = "Timer started"
		return a, a.teamView.refresh()

	case timerStoppedMsg:
		a.status = "Timer stopped — " + timelog.FormatElapsed(msg.log.Duration)
		return a, a.teamView.refresh()

	case manualLoggedMsg:
		a.status = "Logged " + timelog.FormatElapsed(msg.log.Duration)
		return a, a.teamView.refresh()

	case logDeletedMsg:
		a.status = "Time log deleted"
		return a, a.teamView.refresh()

	case taskMovedMsg:
		a.status = "Task moved"
		return a, a.teamView.refresh()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewBoard:
		a.boardView, cmd = a.boardView.update(msg)
	case viewTimer:
		a.timerView, cmd = a.timerView.update(msg)
	case viewTeam:
		a.teamView, cmd = a.teamView.update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewBoard:
		content = a.boardView.view()
	case viewTimer:
		content = a.timerView.view()
	case viewTeam:
		content = a.teamView.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("crewboard")
	user := mutedStyle.Render(" " + a.session.Current().Name)

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(user) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, user, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Running-timer indicator
	timerInfo := ""
	if active, ok := a.session.Timer().ActiveForUser(a.session.Current().ID); ok {
		elapsed := a.session.Timer().Elapsed(active.TaskID)
		timerInfo = successStyle.Render(" ● " + timelog.FormatElapsed(elapsed))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"Time logs (CSV)", "Time logs (JSON)", "Workload report (CSV)"}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export"), "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		members := make(map[string]team.Member)
		for _, m := range a.session.Members() {
			members[m.ID] = m
		}
		tasks := make(map[string]board.Task)
		for _, t := range a.session.Snapshot().Tasks {
			tasks[t.ID] = t
		}
		logs := a.session.Snapshot().Logs

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(home, fmt.Sprintf("crewboard-logs-%s.csv", dateStr))
			err = export.LogsToCSV(logs, members, tasks, path)
		case 1:
			path = filepath.Join(home, fmt.Sprintf("crewboard-logs-%s.json", dateStr))
			err = export.LogsToJSON(logs, members, tasks, path)
		default:
			path = filepath.Join(home, fmt.Sprintf("crewboard-workload-%s.csv", dateStr))
			metrics, _ := a.session.Metrics()
			err = export.MetricsToCSV(metrics, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
