package entity

import "time"

// RetryPolicy is an ordered backoff schedule: the delay before attempt n is
// Delays[n], and the schedule flattens at the last configured delay for all
// further attempts. A zero-length policy permits immediate retries.
type RetryPolicy struct {
	delays []time.Duration
}

// NewRetryPolicy creates a retry policy from an ordered delay schedule
func NewRetryPolicy(delays []time.Duration) RetryPolicy {
	copied := make([]time.Duration, len(delays))
	copy(copied, delays)
	return RetryPolicy{delays: copied}
}

// Delay returns the minimum wait before the attempt following retryCount
// completed attempts is permitted.
func (p RetryPolicy) Delay(retryCount int) time.Duration {
	if len(p.delays) == 0 {
		return 0
	}
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount >= len(p.delays) {
		return p.delays[len(p.delays)-1]
	}
	return p.delays[retryCount]
}

// Len returns the number of configured delays
func (p RetryPolicy) Len() int {
	return len(p.delays)
}
