// Package streak aggregates completed focus sessions per calendar day and
// derives the current streak, the longest streak and the calendar heat map.
//
// The arithmetic lives on Counts and takes "today" as an argument so it can
// be tested against fixed dates; Ledger adds persistence and a clock.
package streak

import (
	"math"
	"slices"
	"time"
)

// DateLayout is the canonical date-key format.
const DateLayout = "2006-01-02"

// lookback bounds the current-streak walk.
const lookback = 365

// DateKey returns the ledger key for the calendar day of t, in t's location.
func DateKey(t time.Time) string { return t.Format(DateLayout) }

// Counts maps a date key to the number of completions on that day.
type Counts map[string]int

// Total is the sum of all completions.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// CurrentStreak counts consecutive days with completions, walking back from
// today. A today without completions yet does not break the streak.
func (c Counts) CurrentStreak(today time.Time) int {
	streak := 0
	for i := range lookback {
		if c[DateKey(today.AddDate(0, 0, -i))] > 0 {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}

// LongestStreak is the longest run of calendar-consecutive days with
// completions. Keys that are not valid dates are ignored.
func (c Counts) LongestStreak() int {
	days := make([]time.Time, 0, len(c))
	for key, n := range c {
		if n <= 0 {
			continue
		}
		d, err := time.Parse(DateLayout, key)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	slices.SortFunc(days, time.Time.Compare)

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && dayDiff(days[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// dayDiff rounds to whole days so DST shifts and sub-day offsets are absorbed.
func dayDiff(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Stats is the scalar summary shown next to the calendar.
type Stats struct {
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
	TotalCompletions int `json:"total_completions"`
}

// Stats computes all three figures at once.
func (c Counts) Stats(today time.Time) Stats {
	return Stats{
		CurrentStreak:    c.CurrentStreak(today),
		LongestStreak:    c.LongestStreak(),
		TotalCompletions: c.Total(),
	}
}

// View is the read-only projection consumed by display layers.
type View struct {
	Stats    Stats    `json:"stats"`
	Calendar Calendar `json:"calendar"`
}
