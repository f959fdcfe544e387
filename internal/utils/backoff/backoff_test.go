package backoff

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponential(t *testing.T) {
	assert.Equal(t, 10*time.Millisecond, Exponential(10*time.Millisecond, 0))
	assert.Equal(t, 80*time.Millisecond, Exponential(10*time.Millisecond, 3))
	assert.Equal(t, 10*time.Millisecond, Exponential(10*time.Millisecond, -4))
	assert.Equal(t, time.Duration(0), Exponential(0, 5))
	assert.Equal(t, time.Duration(math.MaxInt64), Exponential(time.Hour, 200))
}

func TestCapped(t *testing.T) {
	for attempt := 0; attempt < 20; attempt++ {
		d := Capped(25*time.Millisecond, 100*time.Millisecond, attempt)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, 100*time.Millisecond)
	}
}

func TestSleepWithContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := SleepWithContext(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
