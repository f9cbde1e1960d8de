// Package ratelimit keeps one token bucket per key.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter hands out an independent limiter per key. Keys unused for
// idleTTL are evicted by a background sweep until Stop is called.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// New creates the limiter. A zero idleTTL disables eviction.
func New(rps float64, burst int, idleTTL time.Duration) *KeyedLimiter {
	kl := &KeyedLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		done:     make(chan struct{}),
	}

	if idleTTL > 0 {
		go kl.cleanup()
	}

	return kl
}

func (kl *KeyedLimiter) Allow(key string) bool {
	now := time.Now()

	kl.mu.Lock()

	e, ok := kl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(kl.limit, kl.burst)}
		kl.limiters[key] = e
	}

	e.lastSeen = now

	kl.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Len reports how many keys are tracked.
func (kl *KeyedLimiter) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	return len(kl.limiters)
}

// Stop ends the eviction sweep. It is safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() {
		close(kl.done)
	})
}

func (kl *KeyedLimiter) cleanup() {
	ticker := time.NewTicker(kl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-kl.done:
			return
		case now := <-ticker.C:
			kl.evict(now.Add(-kl.idleTTL))
		}
	}
}

func (kl *KeyedLimiter) evict(before time.Time) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	for key, e := range kl.limiters {
		if e.lastSeen.Before(before) {
			delete(kl.limiters, key)
		}
	}
}
