package agent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/agent"
)

// Thursday, April 10 2025, mid-morning.
var fixedNow = time.Date(2025, time.April, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateResolverResolve(t *testing.T) {
	r := agent.NewDateResolver(clock)

	tests := []struct {
		text string
		want time.Time
	}{
		{"water the field today", day(2025, 4, 10)},
		{"do it Tomorrow", day(2025, 4, 11)},
		{"sometime next week", day(2025, 4, 17)},
		{"next tuesday", day(2025, 4, 15)},
		{"next Thursday", day(2025, 4, 17)},
		{"on friday", day(2025, 4, 11)},
		{"this friday", day(2025, 4, 11)},
		{"this Thursday", day(2025, 4, 10)},
		{"on thursday", day(2025, 4, 17)},
		{"April 15th", day(2025, 4, 15)},
		{"apr 10", day(2025, 4, 10)},
		{"April 1", day(2026, 4, 1)},
		{"by Dec 3rd", day(2025, 12, 3)},
		{"on 4/20", day(2025, 4, 20)},
		{"on 1/5", day(2026, 1, 5)},
		{"on 4/20/2024", day(2024, 4, 20)},
		{"today or tomorrow", day(2025, 4, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := r.Resolve(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateResolverNoMatch(t *testing.T) {
	r := agent.NewDateResolver(clock)
	for _, text := range []string{"", "sometime soon", "Feb 30", "2/30", "13/1"} {
		_, ok := r.Resolve(text)
		assert.False(t, ok, text)
	}
}

func TestDateResolverNextWeekdayIsStrictlyFuture(t *testing.T) {
	r := agent.NewDateResolver(clock)
	today := r.Today()
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		got, ok := r.Resolve("next " + wd.String())
		require.True(t, ok)
		assert.Equal(t, wd, got.Weekday())
		assert.True(t, got.After(today))
		assert.True(t, got.Before(today.AddDate(0, 0, 8)))
	}
}

func TestDateResolverResolveOr(t *testing.T) {
	r := agent.NewDateResolver(clock)
	assert.Equal(t, day(2025, 4, 10), r.ResolveOr("no date here", 0))
	assert.Equal(t, day(2025, 4, 11), r.ResolveOr("no date here", 1))
	assert.Equal(t, day(2025, 4, 15), r.ResolveOr("next tuesday", 1))
}

func TestStripDates(t *testing.T) {
	assert.Equal(t, "irrigation for", agent.StripDates("irrigation for next Tuesday"))
	assert.Equal(t, "plant corn on", agent.StripDates("plant corn on April 12th"))
	assert.Equal(t, "check pump", agent.StripDates("check pump tomorrow"))
}
