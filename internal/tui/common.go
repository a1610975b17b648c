package tui

import (
	"github.com/aversa-dev/crewboard/internal/timelog"
	"github.com/aversa-dev/crewboard/internal/workload"
)

// viewState represents the currently active view.
type viewState int

const (
	viewBoard viewState = iota
	viewTimer
	viewTeam
)

var viewNames = []string{"Board", "Timer", "Team"}

// --- Messages ---

type timerStartedMsg struct {
	log timelog.TimeLog
}

type timerStoppedMsg struct {
	log timelog.TimeLog
}

type manualLoggedMsg struct {
	log timelog.TimeLog
}

type logDeletedMsg struct{}

type taskMovedMsg struct {
	taskID string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg struct{}

type exportDoneMsg struct {
	path string
}

type metricsMsg struct {
	metrics []workload.MemberMetrics
	kpis    workload.TeamKPIs
}
