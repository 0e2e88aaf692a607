package researcher

import "strings"

// LimitType specifies how to match keys for limit checking.
type LimitType string

const (
	// LimitExactKey matches an exact key.
	LimitExactKey LimitType = "exact"

	// LimitKeyPrefix matches any key with the given prefix.
	// Use for limits across all models/tools (e.g. KeyToolCallsFor matches every tool).
	LimitKeyPrefix LimitType = "prefix"
)

// Limit defines a threshold that triggers execution termination.
//
// Limits are checked whenever stats are updated. When any limit is exceeded the
// ExecutionContext is canceled and the executor terminates with
// [TerminationLimitExceeded].
//
//	// Stop after 5 iterations
//	{Type: LimitExactKey, Key: KeyIterations, MaxValue: 5}
//
//	// Stop if any single tool is called more than 20 times
//	{Type: LimitKeyPrefix, Key: KeyToolCallsFor, MaxValue: 20}
type Limit struct {
	Type LimitType
	Key  StatKey

	// MaxValue is the threshold. The comparison is currentValue > MaxValue.
	MaxValue float64
}

// IterationLimit returns the limit that caps a loop at maxIterations model rounds.
func IterationLimit(maxIterations int) Limit {
	return Limit{Type: LimitExactKey, Key: KeyIterations, MaxValue: float64(maxIterations)}
}

// DefaultLimits returns the limits applied when none are configured: only the iteration
// cap. Tool failures are observations, so no error-count limit is installed by default.
func DefaultLimits(maxIterations int) []Limit {
	return []Limit{IterationLimit(maxIterations)}
}

// exceeded reports whether the limit is exceeded by the given counters. For prefix limits
// the key that crossed the threshold is returned.
func (l Limit) exceeded(counters map[StatKey]int64) (StatKey, bool) {
	switch l.Type {
	case LimitKeyPrefix:
		for k, v := range counters {
			if strings.HasPrefix(string(k), string(l.Key)) && float64(v) > l.MaxValue {
				return k, true
			}
		}
	default:
		if float64(counters[l.Key]) > l.MaxValue {
			return l.Key, true
		}
	}
	return "", false
}

// IsIterationLimit reports whether the limit is the iteration cap.
func (l Limit) IsIterationLimit() bool {
	return l.Type == LimitExactKey && l.Key == KeyIterations
}
