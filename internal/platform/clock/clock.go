package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in the local zone so week boundaries follow
// the user's calendar.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
