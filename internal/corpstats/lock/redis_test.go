package lock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeaseDeadline(t *testing.T) {
	requested := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"long lease keeps five seconds", 10 * time.Minute, 10*time.Minute - 5*time.Second},
		{"short lease keeps a tenth", 200 * time.Millisecond, 180 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deadline := leaseDeadline(requested, tc.ttl)
			assert.Equal(t, requested.Add(tc.want), deadline)
			assert.True(t, deadline.Before(requested.Add(tc.ttl)))
		})
	}
}
