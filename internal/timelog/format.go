package timelog

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration the way the dashboard displays it:
// "2h 5m" at an hour or more, "45m" at a minute or more, "30s" below
// that.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
