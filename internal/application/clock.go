package application

import "time"

// Clock lets tests control time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default, backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Elapsed is time.Since against c.
func Elapsed(c Clock, start time.Time) time.Duration {
	d := c.Now().Sub(start)
	if d < 0 {
		return 0
	}
	return d
}
