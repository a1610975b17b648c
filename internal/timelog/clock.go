package timelog

import "time"

// Clock supplies the current instant. The engine never reads the wall
// clock directly so that time-dependent behavior is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}
