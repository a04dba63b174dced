package resilience

import "sync"

// Breaker tracks consecutive failures per external dependency. Once a
// dependency's streak reaches the threshold, its retry budget collapses
// to a single attempt so callers skip straight to their fallback
// instead of stacking latency. A success resets the streak.
type Breaker struct {
	mu        sync.Mutex
	threshold int
	streaks   map[string]int
}

// NewBreaker creates a breaker; threshold < 1 disables it.
func NewBreaker(threshold int) *Breaker {
	return &Breaker{threshold: threshold, streaks: map[string]int{}}
}

// Record feeds the outcome of one call against the named dependency.
func (b *Breaker) Record(dependency string, err error) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.streaks, dependency)
		return
	}
	b.streaks[dependency]++
}

// Open reports whether the dependency's failure streak crossed the threshold.
func (b *Breaker) Open(dependency string) bool {
	if b == nil || b.threshold < 1 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streaks[dependency] >= b.threshold
}

// Budget shrinks the policy to one attempt while the dependency is open.
func (b *Breaker) Budget(dependency string, policy RetryPolicy) RetryPolicy {
	if b.Open(dependency) {
		policy.MaxAttempts = 1
	}
	return policy
}
