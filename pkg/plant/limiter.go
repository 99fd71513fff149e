package plant

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore hands out one token bucket per device identifier so a
// misbehaving unit polling in a tight loop cannot starve the others.
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

// GetLimiter returns the bucket of identifier; spellings of one MAC share a bucket.
func (s *RateLimiterStore) GetLimiter(identifier string) *rate.Limiter {
	identifier = CanonicalIdentifier(identifier)
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[identifier]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[identifier] = limiter
	}
	return limiter
}

// Allow consumes one token for identifier. A nil store allows everything.
func (s *RateLimiterStore) Allow(identifier string) bool {
	if s == nil {
		return true
	}
	return s.GetLimiter(identifier).Allow()
}

// Forget drops the bucket of a device that no longer exists.
func (s *RateLimiterStore) Forget(identifier string) {
	identifier = CanonicalIdentifier(identifier)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limiters, identifier)
}

func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
