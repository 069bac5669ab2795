package streak_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studyCheckAPI/internal/dateutil"
	"studyCheckAPI/internal/streak"
)

const (
	today     = "2026-03-10"
	yesterday = "2026-03-09"
)

// days builds keys relative to the fixed test today: days(0, 1, 2) is
// {today, today-1, today-2}.
func days(offsets ...int) []string {
	out := make([]string, 0, len(offsets))
	for _, n := range offsets {
		out = append(out, dateutil.AddDays(today, -n))
	}
	return out
}

func TestUniqueDayKeys(t *testing.T) {
	testCases := []struct {
		Desc string
		In   []string
		Out  []string
	}{
		{
			Desc: "sorts most recent first",
			In:   []string{"2026-03-08", "2026-03-10", "2026-03-09"},
			Out:  []string{"2026-03-10", "2026-03-09", "2026-03-08"},
		},
		{
			Desc: "drops duplicates",
			In:   []string{"2026-03-10", "2026-03-10", "2026-03-09"},
			Out:  []string{"2026-03-10", "2026-03-09"},
		},
		{
			Desc: "drops empty entries",
			In:   []string{"", "2026-03-10", ""},
			Out:  []string{"2026-03-10"},
		},
		{
			Desc: "nil input",
			In:   nil,
			Out:  []string{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Out, streak.UniqueDayKeys(tc.In))
		})
	}
}

func TestUniqueDayKeysIdempotent(t *testing.T) {
	in := []string{"2026-03-08", "2026-03-10", "2026-03-10", "", "2026-03-09"}
	once := streak.UniqueDayKeys(in)
	twice := streak.UniqueDayKeys(once)
	assert.Equal(t, once, twice)
}

func TestCurrent(t *testing.T) {
	testCases := []struct {
		Desc   string
		Keys   []string
		Streak int
	}{
		{
			Desc:   "three consecutive days ending today",
			Keys:   days(0, 1, 2),
			Streak: 3,
		},
		{
			Desc:   "anchored on yesterday when today is missing",
			Keys:   days(1, 2, 3),
			Streak: 3,
		},
		{
			Desc:   "broken streak scores zero even with history",
			Keys:   days(3, 4, 5),
			Streak: 0,
		},
		{
			Desc:   "single entry yesterday",
			Keys:   days(1),
			Streak: 1,
		},
		{
			Desc:   "single entry today",
			Keys:   days(0),
			Streak: 1,
		},
		{
			Desc:   "empty set",
			Keys:   nil,
			Streak: 0,
		},
		{
			Desc:   "gap stops the walk",
			Keys:   days(0, 1, 3, 4),
			Streak: 2,
		},
		{
			Desc:   "month boundary",
			Keys:   []string{"2026-03-01", "2026-02-28", "2026-02-27"},
			Streak: 3,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tcToday, tcYesterday := today, yesterday
			if tc.Desc == "month boundary" {
				tcToday, tcYesterday = "2026-03-01", "2026-02-28"
			}
			sorted := streak.UniqueDayKeys(tc.Keys)
			assert.Equal(t, tc.Streak, streak.Current(sorted, tcToday, tcYesterday))
		})
	}
}

func TestLongest(t *testing.T) {
	testCases := []struct {
		Desc    string
		Keys    []string
		Longest int
	}{
		{
			Desc:    "longest run is older than the current one",
			Keys:    days(0, 1, 5, 6, 7, 8),
			Longest: 4,
		},
		{
			Desc:    "one run",
			Keys:    days(0, 1, 2),
			Longest: 3,
		},
		{
			Desc:    "isolated days",
			Keys:    days(0, 2, 4),
			Longest: 1,
		},
		{
			Desc:    "empty",
			Keys:    nil,
			Longest: 0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Longest, streak.Longest(streak.UniqueDayKeys(tc.Keys)))
		})
	}
}

func TestCompute(t *testing.T) {
	// Compute must tolerate raw, unordered, duplicated input.
	keys := []string{
		dateutil.AddDays(today, -1),
		today,
		today,
		"",
		dateutil.AddDays(today, -5),
		dateutil.AddDays(today, -6),
		dateutil.AddDays(today, -7),
		dateutil.AddDays(today, -8),
	}
	got := streak.Compute(keys, today, yesterday)
	assert.Equal(t, 2, got.Current)
	assert.Equal(t, 4, got.Longest)
}

func TestComputeShuffleInvariant(t *testing.T) {
	orderings := [][]string{
		{today, yesterday, dateutil.AddDays(today, -2)},
		{dateutil.AddDays(today, -2), today, yesterday},
		{yesterday, dateutil.AddDays(today, -2), today},
	}
	for _, keys := range orderings {
		got := streak.Compute(keys, today, yesterday)
		assert.Equal(t, 3, got.Current)
		assert.Equal(t, 3, got.Longest)
	}
}
