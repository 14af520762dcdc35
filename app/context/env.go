package context

import "time"

// Environment is the interface to the process environment.
type Environment interface {
	Get(string) string
	Set(string, string) error
}

// TimeSource is the interface to the system clock.
type TimeSource interface {
	Now() time.Time
}
