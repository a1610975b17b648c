package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aversa-dev/crewboard/internal/timelog"
	"github.com/aversa-dev/crewboard/internal/workload"
)

// teamModel is the analytics view: per-member workload metrics, team
// KPIs and a capacity-load chart. Metrics are recomputed from the
// engine on every refresh, never cached across mutations.
type teamModel struct {
	session *Session
	width   int
	height  int

	metrics []workload.MemberMetrics
	kpis    workload.TeamKPIs

	sortIdx  int
	sortDesc bool

	chart barchart.Model
}

func newTeamModel(sess *Session) teamModel {
	return teamModel{
		session: sess,
		chart:   barchart.New(60, 10),
	}
}

func (m *teamModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m teamModel) refresh() tea.Cmd {
	return func() tea.Msg {
		metrics, kpis := m.session.Metrics()
		return metricsMsg{metrics: metrics, kpis: kpis}
	}
}

func (m teamModel) sortField() workload.SortField {
	return workload.SortFields[m.sortIdx%len(workload.SortFields)]
}

func (m teamModel) update(msg tea.Msg) (teamModel, tea.Cmd) {
	switch msg := msg.(type) {
	case metricsMsg:
		m.metrics = msg.metrics
		m.kpis = msg.kpis
		workload.SortMetrics(m.metrics, m.sortField(), m.sortDesc)
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Sort):
			m.sortIdx = (m.sortIdx + 1) % len(workload.SortFields)
			workload.SortMetrics(m.metrics, m.sortField(), m.sortDesc)
			m.buildChart()
			return m, nil
		case key.Matches(msg, keys.Reverse):
			m.sortDesc = !m.sortDesc
			workload.SortMetrics(m.metrics, m.sortField(), m.sortDesc)
			m.buildChart()
			return m, nil
		}
	}
	return m, nil
}

func (m *teamModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	m.chart = barchart.New(chartWidth, 10)

	var bars []barchart.BarData
	for _, mm := range m.metrics {
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if mm.LoadPercentage > 100 {
			style = lipgloss.NewStyle().Foreground(colorError)
		} else if mm.Blocked {
			style = lipgloss.NewStyle().Foreground(colorWarning)
		}
		bars = append(bars, barchart.BarData{
			Label: firstName(mm.Name),
			Values: []barchart.BarValue{{
				Name:  mm.Name,
				Value: float64(mm.LoadPercentage),
				Style: style,
			}},
		})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m teamModel) view() string {
	w := m.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Team workload"), "  ",
		mutedStyle.Render(fmt.Sprintf("sort: %s %s", m.sortField(), sortArrow(m.sortDesc))),
	)

	kpiLine := mutedStyle.Render(fmt.Sprintf(
		"  completed %d   on-time %d%%   lead time %dh   rework %d%%   load %d%%",
		m.kpis.TotalCompleted, m.kpis.AvgOnTime, m.kpis.AvgLeadTime, m.kpis.AvgRework, m.kpis.AvgLoad,
	))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", kpiLine, "", m.renderTable(w), "",
			mutedStyle.Render("  o: sort  O: reverse"),
		),
	)
}

func (m teamModel) renderTable(w int) string {
	if len(m.metrics) == 0 {
		return mutedStyle.Render("  No members yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf(
		"  %-16s %5s %5s %8s %6s %8s %7s %6s %8s %10s",
		"Member", "Done", "Open", "On-time", "Lead", "Delayed", "Rework", "Load", "Blocked", "Tracked",
	)))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", minInt(w-6, 92))))

	for _, mm := range m.metrics {
		load := fmt.Sprintf("%d%%", mm.LoadPercentage)
		if mm.LoadPercentage > 100 {
			load = errorStyle.Render(load)
		}
		blocked := fmt.Sprintf("%d", mm.BlockedCount)
		if mm.Blocked {
			blocked = warningStyle.Render(blocked)
		}
		rows = append(rows, fmt.Sprintf(
			"  %-16s %5d %5d %7d%% %5dh %8d %6d%% %6s %8s %10s",
			mm.Name, mm.Completed, mm.TotalAssigned-mm.Completed, mm.OnTimeRate,
			mm.LeadTimeAvg, mm.DelayedTasks, mm.ReworkRate, load, blocked,
			timelog.FormatElapsed(mm.TrackedTotal),
		))
	}
	return strings.Join(rows, "\n")
}

func firstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

func sortArrow(desc bool) string {
	if desc {
		return "↓"
	}
	return "↑"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
