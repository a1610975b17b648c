// Package workload derives per-member delivery and capacity metrics
// from the task collection and the time ledger. Everything here is
// computed fresh on each call from read-only snapshots; nothing is
// persisted and inputs are never mutated.
package workload

import (
	"math"
	"time"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/team"
	"github.com/aversa-dev/crewboard/internal/timelog"
)

// DefaultCapacityHours is the weekly capacity a member's outstanding
// effort is measured against.
const DefaultCapacityHours = 40.0

// defaultEffort stands in for a missing estimate when averaging lead
// time over completed tasks.
const defaultEffort = 2.0

// MemberMetrics is the per-member snapshot consumed by the team view.
// Rates are whole percentages, LeadTimeAvg is in hours.
type MemberMetrics struct {
	MemberID       string
	Name           string
	Completed      int
	TotalAssigned  int
	OnTimeRate     int
	LeadTimeAvg    int
	DelayedTasks   int
	ReworkRate     int
	LoadPercentage int
	EffortTotal    float64
	BlockedCount   int
	Blocked        bool
	TrackedTotal   time.Duration
}

// TeamKPIs aggregates the member snapshots into team-wide numbers.
type TeamKPIs struct {
	TotalCompleted int
	AvgOnTime      int
	AvgLeadTime    int
	AvgRework      int
	AvgLoad        int
}

// Snapshot is the read-only input tuple the aggregator works from.
type Snapshot struct {
	Members []team.Member
	Boards  []board.Board
	Tasks   []board.Task
	Logs    []timelog.TimeLog
}

func (s Snapshot) column(t board.Task) (board.Column, bool) {
	for i := range s.Boards {
		if s.Boards[i].ID == t.BoardID {
			return s.Boards[i].Column(t.ColumnID)
		}
	}
	return board.Column{}, false
}

type Aggregator struct {
	classifier board.Classifier
	clock      timelog.Clock
	capacity   float64
}

func NewAggregator(classifier board.Classifier, clock timelog.Clock, capacityHours float64) *Aggregator {
	if classifier == nil {
		classifier = board.TitleClassifier{}
	}
	if clock == nil {
		clock = timelog.SystemClock
	}
	if capacityHours <= 0 {
		capacityHours = DefaultCapacityHours
	}
	return &Aggregator{classifier: classifier, clock: clock, capacity: capacityHours}
}

// MemberMetrics computes one member's snapshot. Empty inputs yield the
// documented defaults (on-time 100, everything else zero) rather than
// an error; every division below is guarded.
func (a *Aggregator) MemberMetrics(m team.Member, snap Snapshot) MemberMetrics {
	now := a.clock.Now()
	metrics := MemberMetrics{MemberID: m.ID, Name: m.Name}

	var userTasks, completed []board.Task
	reworkSum := 0
	for _, t := range snap.Tasks {
		if !t.AssignedTo(m.ID) {
			continue
		}
		userTasks = append(userTasks, t)
		reworkSum += t.ReworkCount

		done := false
		if col, ok := snap.column(t); ok {
			done = a.classifier.Done(col)
		}
		if done {
			completed = append(completed, t)
			continue
		}
		// Active task: counts toward load, delay and blockage.
		if t.DueDate != nil && t.DueDate.Before(now) {
			metrics.DelayedTasks++
		}
		if t.Effort != nil {
			metrics.EffortTotal += *t.Effort
		}
		if t.Blocked {
			metrics.BlockedCount++
		}
	}

	metrics.TotalAssigned = len(userTasks)
	metrics.Completed = len(completed)
	metrics.LeadTimeAvg = estimateLeadTimeFromEffort(completed)
	metrics.ReworkRate = roundPct(float64(reworkSum) / math.Max(1, float64(len(completed))))
	metrics.LoadPercentage = roundPct(metrics.EffortTotal / a.capacity)
	metrics.Blocked = metrics.BlockedCount > 0

	if len(completed) == 0 {
		metrics.OnTimeRate = 100
	} else {
		rate := roundPct(float64(len(completed)-metrics.DelayedTasks) / float64(len(completed)))
		if rate < 0 {
			rate = 0
		}
		metrics.OnTimeRate = rate
	}

	for _, log := range snap.Logs {
		if log.UserID != m.ID {
			continue
		}
		if log.End == nil {
			metrics.TrackedTotal += now.Sub(log.Start)
		} else {
			metrics.TrackedTotal += log.Duration
		}
	}

	return metrics
}

// AllMetrics computes the snapshot for every member, in directory
// order.
func (a *Aggregator) AllMetrics(snap Snapshot) []MemberMetrics {
	out := make([]MemberMetrics, 0, len(snap.Members))
	for _, m := range snap.Members {
		out = append(out, a.MemberMetrics(m, snap))
	}
	return out
}

// TeamKPIs averages the per-member values. No members means all-zero,
// not a division error.
func (a *Aggregator) TeamKPIs(metrics []MemberMetrics) TeamKPIs {
	kpis := TeamKPIs{}
	if len(metrics) == 0 {
		return kpis
	}
	var onTime, leadTime, rework, load int
	for _, m := range metrics {
		kpis.TotalCompleted += m.Completed
		onTime += m.OnTimeRate
		leadTime += m.LeadTimeAvg
		rework += m.ReworkRate
		load += m.LoadPercentage
	}
	n := float64(len(metrics))
	kpis.AvgOnTime = round(float64(onTime) / n)
	kpis.AvgLeadTime = round(float64(leadTime) / n)
	kpis.AvgRework = round(float64(rework) / n)
	kpis.AvgLoad = round(float64(load) / n)
	return kpis
}

// estimateLeadTimeFromEffort averages the effort estimates of the
// completed tasks (missing estimates count as defaultEffort). It is a
// proxy for cycle time, not a measurement of elapsed calendar time;
// the name keeps that visible so a real elapsed-time metric can
// replace it at this one site.
func estimateLeadTimeFromEffort(completed []board.Task) int {
	if len(completed) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range completed {
		if t.Effort != nil {
			sum += *t.Effort
		} else {
			sum += defaultEffort
		}
	}
	return round(sum / float64(len(completed)))
}

func round(v float64) int {
	return int(math.Round(v))
}

func roundPct(ratio float64) int {
	return round(ratio * 100)
}
