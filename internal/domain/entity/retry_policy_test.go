package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Delay(t *testing.T) {
	policy := NewRetryPolicy([]time.Duration{
		time.Minute,
		5 * time.Minute,
		30 * time.Minute,
		2 * time.Hour,
	})

	tests := []struct {
		name       string
		retryCount int
		expected   time.Duration
	}{
		{name: "first attempt", retryCount: 0, expected: time.Minute},
		{name: "second attempt", retryCount: 1, expected: 5 * time.Minute},
		{name: "third attempt", retryCount: 2, expected: 30 * time.Minute},
		{name: "last configured delay", retryCount: 3, expected: 2 * time.Hour},
		{name: "flattens past the schedule", retryCount: 4, expected: 2 * time.Hour},
		{name: "flattens far past the schedule", retryCount: 100, expected: 2 * time.Hour},
		{name: "negative count clamps to first", retryCount: -1, expected: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Delay(tt.retryCount))
		})
	}
}

func TestRetryPolicy_DelayIsNonDecreasing(t *testing.T) {
	policy := NewRetryPolicy([]time.Duration{
		time.Minute,
		5 * time.Minute,
		30 * time.Minute,
		2 * time.Hour,
		24 * time.Hour,
	})

	for n := 1; n < policy.Len()+5; n++ {
		assert.GreaterOrEqual(t, policy.Delay(n), policy.Delay(n-1),
			"delay must not decrease between attempts %d and %d", n-1, n)
	}
}

func TestRetryPolicy_Empty(t *testing.T) {
	policy := NewRetryPolicy(nil)

	assert.Equal(t, 0, policy.Len())
	assert.Equal(t, time.Duration(0), policy.Delay(0))
	assert.Equal(t, time.Duration(0), policy.Delay(10))
}

func TestRetryPolicy_CopiesSchedule(t *testing.T) {
	delays := []time.Duration{time.Minute, 5 * time.Minute}
	policy := NewRetryPolicy(delays)

	delays[0] = time.Hour

	assert.Equal(t, time.Minute, policy.Delay(0))
}
