package http

import "time"

// SetNowFunc replaces the limiter's clock for tests.
func (l *DailyLimiter) SetNowFunc(fn func() time.Time) {
	l.now = fn
}
