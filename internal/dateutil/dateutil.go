package dateutil

import "time"

// KSTOffsetMinutes is the fixed civil offset (+9:00) every day key is computed
// in. Day boundaries must never depend on the server's local timezone.
const KSTOffsetMinutes = 540

const keyLayout = "2006-01-02"

// DayKey converts an instant to its calendar-day key in the given fixed
// offset, formatted YYYY-MM-DD. Lexicographic order of keys equals
// chronological order.
func DayKey(t time.Time, offsetMinutes int) string {
	return t.UTC().Add(time.Duration(offsetMinutes) * time.Minute).Format(keyLayout)
}

// Today returns the current day key in KST.
func Today() string {
	return TodayAt(time.Now())
}

// Yesterday returns the previous day key in KST.
func Yesterday() string {
	return YesterdayAt(time.Now())
}

func TodayAt(now time.Time) string {
	return DayKey(now, KSTOffsetMinutes)
}

func YesterdayAt(now time.Time) string {
	return DayKey(now.Add(-24*time.Hour), KSTOffsetMinutes)
}

// PrevDay returns the day key immediately before key, or "" when key is not a
// valid YYYY-MM-DD string.
func PrevDay(key string) string {
	t, err := time.Parse(keyLayout, key)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(keyLayout)
}

// AddDays returns key shifted by n calendar days, or "" for invalid keys.
func AddDays(key string, n int) string {
	t, err := time.Parse(keyLayout, key)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(keyLayout)
}

// DaysInMonth returns the number of days of the given civil month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
