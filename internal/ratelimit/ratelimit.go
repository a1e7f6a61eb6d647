// Package ratelimit is a fixed-window in-memory request limiter. Entries
// expire with their window and are swept lazily; there is no background
// goroutine to manage.
package ratelimit

import (
	"math/rand/v2"
	"sync"
	"time"
)

type windowEntry struct {
	count     int
	resetTime time.Time
}

// Limiter tracks request counts per identifier within fixed windows.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
	// sweepChance is the probability an Allow call also sweeps expired
	// entries. Kept below 1 so sweeping stays off the hot path.
	sweepChance float64
}

func NewLimiter() *Limiter {
	return &Limiter{
		entries:     make(map[string]*windowEntry),
		now:         time.Now,
		sweepChance: 0.1,
	}
}

// Allow records one request for identifier and reports whether it fits
// within maxRequests per window.
func (l *Limiter) Allow(identifier string, maxRequests int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if rand.Float64() < l.sweepChance {
		l.sweepLocked(now)
	}

	ent, ok := l.entries[identifier]
	if !ok || ent.resetTime.Before(now) {
		l.entries[identifier] = &windowEntry{count: 1, resetTime: now.Add(window)}
		return true
	}

	ent.count++
	return ent.count <= maxRequests
}

func (l *Limiter) sweepLocked(now time.Time) {
	for id, ent := range l.entries {
		if ent.resetTime.Before(now) {
			delete(l.entries, id)
		}
	}
}

// EndpointLimit is the per-window budget for one API endpoint.
type EndpointLimit struct {
	Max    int
	Window time.Duration
}

// DefaultEndpointLimits mirrors the admin API budgets: saves and listings
// at 100/min, uploads at 50/min, deletes at 200/min, reads at 300/min.
func DefaultEndpointLimits() map[string]EndpointLimit {
	return map[string]EndpointLimit{
		"/api/files/save":   {Max: 100, Window: time.Minute},
		"/api/files/upload": {Max: 50, Window: time.Minute},
		"/api/files/delete": {Max: 200, Window: time.Minute},
		"/api/files/get":    {Max: 300, Window: time.Minute},
		"/api/files/list":   {Max: 100, Window: time.Minute},
	}
}

// AllowEndpoint applies the endpoint's budget (or the 100/min default) to
// the tenant+endpoint pair.
func (l *Limiter) AllowEndpoint(limits map[string]EndpointLimit, tenantID, endpoint string) bool {
	limit, ok := limits[endpoint]
	if !ok {
		limit = EndpointLimit{Max: 100, Window: time.Minute}
	}
	return l.Allow(tenantID+":"+endpoint, limit.Max, limit.Window)
}
