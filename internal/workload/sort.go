package workload

import "sort"

// SortField names a single sortable column of the metrics table.
type SortField string

const (
	SortByName      SortField = "name"
	SortByCompleted SortField = "completed"
	SortByAssigned  SortField = "assigned"
	SortByOnTime    SortField = "ontime"
	SortByLeadTime  SortField = "leadtime"
	SortByDelayed   SortField = "delayed"
	SortByRework    SortField = "rework"
	SortByLoad      SortField = "load"
	SortByTracked   SortField = "tracked"
)

// SortFields lists the fields in the order the team view cycles
// through them.
var SortFields = []SortField{
	SortByName, SortByCompleted, SortByAssigned, SortByOnTime,
	SortByLeadTime, SortByDelayed, SortByRework, SortByLoad, SortByTracked,
}

// SortMetrics orders the slice by one field. The sort is stable, so
// members with equal keys keep their original relative order. An
// unknown field leaves the slice untouched.
func SortMetrics(metrics []MemberMetrics, field SortField, desc bool) {
	less := lessFunc(field)
	if less == nil {
		return
	}
	sort.SliceStable(metrics, func(i, j int) bool {
		if desc {
			return less(metrics[j], metrics[i])
		}
		return less(metrics[i], metrics[j])
	})
}

func lessFunc(field SortField) func(a, b MemberMetrics) bool {
	switch field {
	case SortByName:
		return func(a, b MemberMetrics) bool { return a.Name < b.Name }
	case SortByCompleted:
		return func(a, b MemberMetrics) bool { return a.Completed < b.Completed }
	case SortByAssigned:
		return func(a, b MemberMetrics) bool { return a.TotalAssigned < b.TotalAssigned }
	case SortByOnTime:
		return func(a, b MemberMetrics) bool { return a.OnTimeRate < b.OnTimeRate }
	case SortByLeadTime:
		return func(a, b MemberMetrics) bool { return a.LeadTimeAvg < b.LeadTimeAvg }
	case SortByDelayed:
		return func(a, b MemberMetrics) bool { return a.DelayedTasks < b.DelayedTasks }
	case SortByRework:
		return func(a, b MemberMetrics) bool { return a.ReworkRate < b.ReworkRate }
	case SortByLoad:
		return func(a, b MemberMetrics) bool { return a.LoadPercentage < b.LoadPercentage }
	case SortByTracked:
		return func(a, b MemberMetrics) bool { return a.TrackedTotal < b.TrackedTotal }
	}
	return nil
}
