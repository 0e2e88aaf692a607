package researcher

import "sync"

// ExecutionStats contains counters for tracking execution metrics. All standard keys use
// the "researcher:" prefix.
//
// Stats serve two purposes:
//
//  1. Termination limits: checked on every update to stop runaway loops (iteration cap,
//     consecutive parse errors). See [Limit].
//  2. Observability: read by hooks and by the session after each turn.
//
// Counters only go up, except "consecutive" counters which are reset with
// [ExecutionStats.ResetCounter] after a success.
//
// All methods are safe for concurrent use.
type ExecutionStats struct {
	mu       sync.RWMutex
	counters map[StatKey]int64
	execCtx  *ExecutionContext // back-ref for limit checking
}

// NewExecutionStats creates stats without context association (no limit checking).
func NewExecutionStats() *ExecutionStats {
	return &ExecutionStats{
		counters: make(map[StatKey]int64),
	}
}

func newExecutionStatsWithContext(ctx *ExecutionContext) *ExecutionStats {
	return &ExecutionStats{
		counters: make(map[StatKey]int64),
		execCtx:  ctx,
	}
}

// IncrCounter increments a counter by delta. Creates the counter if it doesn't exist.
//
// Panics if delta is negative.
// Protected keys (e.g. KeyIterations) are silently ignored.
func (s *ExecutionStats) IncrCounter(key StatKey, delta int64) {
	if delta < 0 {
		panic("researcher: IncrCounter called with negative delta")
	}
	if isProtectedKey(key) {
		return
	}
	s.incr(key, delta)
}

// incr bypasses key protection. Used by the framework for KeyIterations.
func (s *ExecutionStats) incr(key StatKey, delta int64) {
	s.mu.Lock()
	s.counters[key] += delta
	s.mu.Unlock()

	if s.execCtx != nil {
		s.execCtx.checkLimits()
	}
}

// ResetCounter sets a counter back to zero. Protected keys are silently ignored.
func (s *ExecutionStats) ResetCounter(key StatKey) {
	if isProtectedKey(key) {
		return
	}
	s.mu.Lock()
	delete(s.counters, key)
	s.mu.Unlock()
}

// GetCounter returns the counter value, or 0 if unset.
func (s *ExecutionStats) GetCounter(key StatKey) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[key]
}

// GetIterations returns the number of iterations started so far.
func (s *ExecutionStats) GetIterations() int64 {
	return s.GetCounter(KeyIterations)
}

// Counters returns a snapshot of every counter.
func (s *ExecutionStats) Counters() map[StatKey]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[StatKey]int64, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}
