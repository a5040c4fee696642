package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPLimiterPerClient(t *testing.T) {
	l := newIPLimiter(1, 2)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"), "other clients keep their own bucket")

	now = now.Add(time.Second)
	assert.True(t, l.allow("10.0.0.1"), "bucket refills over time")
}

func TestIPLimiterEvictsIdleClients(t *testing.T) {
	l := newIPLimiter(1, 2)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		l.allow(ip)
	}
	assert.Equal(t, 3, l.len())

	now = now.Add(time.Second)
	l.allow("10.0.0.3")
	assert.Equal(t, 3, l.len(), "buckets are kept until fully refilled")

	now = now.Add(2 * time.Second)
	l.allow("10.0.0.4")
	assert.Equal(t, 1, l.len())
}

func TestIPLimiterMinimumIdle(t *testing.T) {
	l := newIPLimiter(1000, 1)
	assert.Equal(t, minLimiterIdle, l.idle)
}
