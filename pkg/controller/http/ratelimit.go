package http

import (
	"sync"
	"time"
)

// DefaultDailyLimit is the number of generation requests one address may
// make per calendar day in production mode.
const DefaultDailyLimit = 5

type dailyEntry struct {
	date  string
	count int
}

// DailyLimiter is a per-address daily request counter. The counter resets
// lazily: an address's bucket rolls over the first time it is checked on a
// new day. A disabled limiter allows everything, which is the development
// mode behavior.
type DailyLimiter struct {
	mu      sync.Mutex
	limit   int
	enabled bool
	now     func() time.Time
	entries map[string]*dailyEntry
}

// NewDailyLimiter creates a limiter allowing limit calls per address per
// day. Pass enabled=false to turn the limiter into a pass-through.
func NewDailyLimiter(limit int, enabled bool) *DailyLimiter {
	return &DailyLimiter{
		limit:   limit,
		enabled: enabled,
		now:     time.Now,
		entries: make(map[string]*dailyEntry),
	}
}

// Allow reports whether the address may make another request today, and
// counts the request if so. Denied requests are not counted.
func (l *DailyLimiter) Allow(addr string) bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	today := l.now().Format(time.DateOnly)

	e, ok := l.entries[addr]
	if !ok || e.date != today {
		e = &dailyEntry{date: today}
		l.entries[addr] = e
	}

	if e.count >= l.limit {
		return false
	}

	e.count++
	return true
}
