package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const (
	rateLimiterIdle    = 10 * time.Minute
	rateLimiterSweepAt = 5 * time.Minute
)

// LimitReason describes why a connection was rejected. Values double as
// metric labels.
type LimitReason string

const (
	LimitReasonGlobal LimitReason = "global_limit"
	LimitReasonPerIP  LimitReason = "per_ip_limit"
	LimitReasonRate   LimitReason = "rate_limit"
)

// globalLimiter caps concurrent streams on this instance without locking.
type globalLimiter struct {
	current atomic.Int64
	max     int64
}

func (l *globalLimiter) acquire() bool {
	for {
		current := l.current.Load()
		if current >= l.max {
			return false
		}
		if l.current.CompareAndSwap(current, current+1) {
			return true
		}
	}
}

func (l *globalLimiter) release() { l.current.Add(-1) }

// ipLimiter caps concurrent streams per client address.
type ipLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	maxPer int
}

func (l *ipLimiter) acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[ip] >= l.maxPer {
		return false
	}
	l.counts[ip]++
	return true
}

func (l *ipLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n := l.counts[ip]; n > 1 {
		l.counts[ip] = n - 1
	} else {
		delete(l.counts, ip)
	}
}

type rateEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter is a token bucket per client address for new connections.
type rateLimiter struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[string]*rateEntry
	limit   rate.Limit
	burst   int
	sweepAt time.Time
}

func (l *rateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.After(l.sweepAt) {
		cutoff := now.Add(-rateLimiterIdle)
		for key, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, key)
			}
		}
		l.sweepAt = now.Add(rateLimiterSweepAt)
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &rateEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// ConnectionLimits combines the connection rate, global and per-IP caps.
type ConnectionLimits struct {
	global *globalLimiter
	perIP  *ipLimiter
	rate   *rateLimiter
}

func NewConnectionLimits(globalMax, perIPMax int, connectionsPerSecond float64, burst int, clock clockwork.Clock) *ConnectionLimits {
	return &ConnectionLimits{
		global: &globalLimiter{max: int64(globalMax)},
		perIP:  &ipLimiter{counts: make(map[string]int), maxPer: perIPMax},
		rate: &rateLimiter{
			clock:   clock,
			entries: make(map[string]*rateEntry),
			limit:   rate.Limit(connectionsPerSecond),
			burst:   burst,
			sweepAt: clock.Now().Add(rateLimiterSweepAt),
		},
	}
}

// Acquire reserves a slot for ip. On failure nothing is held and the reason
// is returned.
func (l *ConnectionLimits) Acquire(ip string) (bool, LimitReason) {
	if !l.rate.allow(ip) {
		return false, LimitReasonRate
	}
	if !l.global.acquire() {
		return false, LimitReasonGlobal
	}
	if !l.perIP.acquire(ip) {
		l.global.release()
		return false, LimitReasonPerIP
	}
	return true, ""
}

// Release frees a slot obtained from Acquire.
func (l *ConnectionLimits) Release(ip string) {
	l.perIP.release(ip)
	l.global.release()
}

// Current is the number of held slots.
func (l *ConnectionLimits) Current() int64 { return l.global.current.Load() }
