// Package streak is the single shared implementation of consecutive-day streak
// counting. Every view that shows a streak goes through Compute; nothing caches
// the result because "today" moves across day boundaries while sessions stay
// open.
package streak

import (
	"sort"

	"studyCheckAPI/internal/dateutil"
)

type Result struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// UniqueDayKeys collapses raw day keys into a deduplicated set sorted most
// recent first. Empty and duplicate entries are dropped.
func UniqueDayKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// Current counts the consecutive run ending at the anchor day. The anchor is
// today when present, otherwise yesterday; with neither present the streak is
// broken and the count is 0 even when older days exist.
func Current(sortedDesc []string, today, yesterday string) int {
	if len(sortedDesc) == 0 {
		return 0
	}

	start := indexOf(sortedDesc, today)
	if start == -1 {
		start = indexOf(sortedDesc, yesterday)
	}
	if start == -1 {
		return 0
	}

	count := 1
	cursor := sortedDesc[start]
	for i := start + 1; i < len(sortedDesc); i++ {
		expected := dateutil.PrevDay(cursor)
		if sortedDesc[i] != expected {
			break
		}
		count++
		cursor = expected
	}
	return count
}

// Longest returns the longest consecutive run anywhere in the set, anchored or
// not.
func Longest(sortedDesc []string) int {
	longest := 0
	run := 0
	prev := ""
	for _, k := range sortedDesc {
		if prev != "" && k == dateutil.PrevDay(prev) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = k
	}
	return longest
}

// Compute deduplicates raw day keys and returns both streak figures. This is
// the entry point call sites use; it always recomputes from scratch.
func Compute(keys []string, today, yesterday string) Result {
	sorted := UniqueDayKeys(keys)
	return Result{
		Current: Current(sorted, today, yesterday),
		Longest: Longest(sorted),
	}
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
