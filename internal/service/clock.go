package service

import "time"

// Clock supplies the reference date used when a caller omits one. Injected so
// rule resolution and batch processing stay deterministic under test.
type Clock interface {
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// SystemClock returns a Clock backed by the wall clock, truncated to a UTC
// calendar date.
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock returns a Clock pinned to a single date.
func FixedClock(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Today() time.Time {
	return c.t
}
