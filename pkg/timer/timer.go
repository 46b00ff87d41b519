package timer

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SlowThreshold is the duration above which Track logs at warn level.
var SlowThreshold = 500 * time.Millisecond

// ---------------------------------------------------------
// Mode 1: Function Level (The "Defer" pattern)
// ---------------------------------------------------------

// Track returns a function that, when executed, logs the duration.
// Usage: defer timer.Track(log, "FunctionName")()
func Track(log *logrus.Entry, name string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		entry := log.WithFields(logrus.Fields{"op": name, "took": elapsed.String()})
		if elapsed > SlowThreshold {
			entry.Warn("slow operation")
			return
		}
		entry.Debug("timing")
	}
}

// ---------------------------------------------------------
// Mode 2: Block Level (The "Stopwatch" pattern)
// ---------------------------------------------------------

// Stopwatch is useful for measuring multiple steps within one function.
type Stopwatch struct {
	log   *logrus.Entry
	start time.Time
	last  time.Time
}

// NewStopwatch starts the clock.
func NewStopwatch(log *logrus.Entry) *Stopwatch {
	now := time.Now()
	return &Stopwatch{log: log, start: now, last: now}
}

// Lap logs the time taken since the last Lap call.
func (s *Stopwatch) Lap(stepName string) time.Duration {
	now := time.Now()
	elapsed := now.Sub(s.last)
	s.last = now
	s.log.WithFields(logrus.Fields{
		"step":  stepName,
		"took":  elapsed.String(),
		"total": now.Sub(s.start).String(),
	}).Debug("timing step")
	return elapsed
}

// Total logs the total time since the stopwatch started.
func (s *Stopwatch) Total(name string) time.Duration {
	total := time.Since(s.start)
	s.log.WithFields(logrus.Fields{"op": name, "took": total.String()}).Debug("timing total")
	return total
}
