package streak_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mkFocus/internal/clock"
	"github.com/MihkelHunter/mkFocus/internal/store"
	"github.com/MihkelHunter/mkFocus/internal/streak"
)

// Tuesday afternoon.
var today = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) string { return streak.DateKey(today.AddDate(0, 0, -n)) }

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2026-03-10", streak.DateKey(today))
	assert.Equal(t, "2026-01-05", streak.DateKey(time.Date(2026, 1, 5, 23, 59, 0, 0, time.UTC)))
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name   string
		counts streak.Counts
		want   int
	}{
		{"empty", streak.Counts{}, 0},
		{"today only", streak.Counts{daysAgo(0): 1}, 1},
		{"three days ending today", streak.Counts{daysAgo(0): 2, daysAgo(1): 1, daysAgo(2): 4}, 3},
		{"ending yesterday", streak.Counts{daysAgo(1): 1, daysAgo(2): 1}, 2},
		{"gap of two days", streak.Counts{daysAgo(2): 1, daysAgo(3): 1}, 0},
		{"zero entry breaks", streak.Counts{daysAgo(0): 1, daysAgo(1): 0, daysAgo(2): 1}, 1},
		{"older run ignored", streak.Counts{daysAgo(0): 1, daysAgo(1): 1, daysAgo(3): 5, daysAgo(4): 5}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.counts.CurrentStreak(today))
		})
	}
}

func TestCurrentStreak_CappedAtLookback(t *testing.T) {
	counts := streak.Counts{}
	for i := range 400 {
		counts[daysAgo(i)] = 1
	}
	assert.Equal(t, 365, counts.CurrentStreak(today))
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name   string
		counts streak.Counts
		want   int
	}{
		{"empty", streak.Counts{}, 0},
		{"gap splits run", streak.Counts{"2026-01-01": 1, "2026-01-02": 1, "2026-01-03": 1, "2026-01-05": 1}, 3},
		{"zero counts skipped", streak.Counts{"2026-01-01": 1, "2026-01-02": 0, "2026-01-03": 1}, 1},
		{"across month end", streak.Counts{"2026-02-27": 1, "2026-02-28": 2, "2026-03-01": 1}, 3},
		{"across year end", streak.Counts{"2025-12-31": 1, "2026-01-01": 1}, 2},
		{"later run longer", streak.Counts{"2026-01-01": 1, "2026-01-10": 1, "2026-01-11": 1}, 2},
		{"bad keys ignored", streak.Counts{"garbage": 9, "2026-01-01": 1}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.counts.LongestStreak())
		})
	}
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 0, streak.Counts{}.Total())
	assert.Equal(t, 7, streak.Counts{"2026-01-01": 3, "2026-02-01": 4}.Total())
}

func TestLevel(t *testing.T) {
	for count, want := range map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 5: 2, 6: 3, 40: 3} {
		assert.Equal(t, want, streak.Level(count), "count %d", count)
	}
}

func TestCalendar_SevenDays(t *testing.T) {
	counts := streak.Counts{"2026-03-04": 2, "2026-03-10": 7}
	cal := counts.Calendar(today, 7)

	// 2026-03-04 is a Wednesday.
	require.Len(t, cal.Weeks, 2)
	first := cal.Weeks[0]
	require.Len(t, first, 7)
	assert.Nil(t, first[0])
	assert.Nil(t, first[1])
	assert.Nil(t, first[2])
	require.NotNil(t, first[3])
	assert.Equal(t, "2026-03-04", first[3].Key)
	assert.Equal(t, 2, first[3].Count)
	assert.Equal(t, 1, first[3].Level)

	last := cal.Weeks[1]
	require.Len(t, last, 3)
	assert.Equal(t, "2026-03-10", last[2].Key)
	assert.Equal(t, 3, last[2].Level)

	assert.Equal(t, 7, cal.Populated())
	assert.Equal(t, []streak.MonthLabel{{Label: "Mar", Month: time.March, Week: 0}}, cal.Months)
}

func TestCalendar_MonthLabels(t *testing.T) {
	cal := streak.Counts{}.Calendar(today, 40)

	assert.Equal(t, 40, cal.Populated())
	assert.Equal(t, []streak.MonthLabel{
		{Label: "Jan", Month: time.January, Week: 0},
		{Label: "Feb", Month: time.February, Week: 1},
		{Label: "Mar", Month: time.March, Week: 5},
	}, cal.Months)
}

func TestCalendar_DefaultSpan(t *testing.T) {
	cal := streak.Counts{}.Calendar(today, 0)
	assert.Equal(t, streak.DefaultDays, cal.Populated())
	for _, w := range cal.Weeks[:len(cal.Weeks)-1] {
		assert.Len(t, w, 7)
	}
}

func TestView_JSON(t *testing.T) {
	counts := streak.Counts{daysAgo(0): 1}
	v := streak.View{Stats: counts.Stats(today), Calendar: counts.Calendar(today, 1)}

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"stats": {"current_streak": 1, "longest_streak": 1, "total_completions": 1},
		"calendar": {
			"weeks": [[null, null, {"date": "2026-03-10", "count": 1, "level": 1}]],
			"months": [{"label": "Mar", "week": 0}]
		}
	}`, string(b))
}

func TestLedger_IncrementAcrossDays(t *testing.T) {
	kv := store.NewMemory()
	c := clock.NewFake(today)
	l := streak.New(kv, streak.WithClock(c))

	assert.Equal(t, 0, l.CurrentStreak())

	l.IncrementToday()
	l.IncrementToday()
	c.Advance(24 * time.Hour)
	l.IncrementToday()
	c.Advance(24 * time.Hour)
	l.IncrementToday()

	assert.Equal(t, 3, l.CurrentStreak())
	assert.Equal(t, 3, l.LongestStreak())
	assert.Equal(t, 4, l.TotalCompletions())

	c.Advance(24 * time.Hour)
	assert.Equal(t, 3, l.CurrentStreak(), "no completion yet today")
	c.Advance(24 * time.Hour)
	assert.Equal(t, 0, l.CurrentStreak())
	assert.Equal(t, 3, l.LongestStreak())

	blob, err := kv.Get(store.KeyStreak)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2026-03-10":2,"2026-03-11":1,"2026-03-12":1}`, string(blob))
}

func TestLedger_Reload(t *testing.T) {
	kv := store.NewMemory()
	c := clock.NewFake(today)
	streak.New(kv, streak.WithClock(c)).IncrementToday()

	l := streak.New(kv, streak.WithClock(c))
	assert.Equal(t, streak.Counts{"2026-03-10": 1}, l.Counts())
	assert.Equal(t, streak.Stats{CurrentStreak: 1, LongestStreak: 1, TotalCompletions: 1}, l.Stats())
}

func TestLedger_MalformedBlobStartsEmpty(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set(store.KeyStreak, []byte(`["nope"]`)))

	l := streak.New(kv, streak.WithClock(clock.NewFake(today)))
	assert.Empty(t, l.Counts())
	assert.Equal(t, 0, l.TotalCompletions())
}

func TestLedger_DropsNegativeCounts(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set(store.KeyStreak, []byte(`{"2026-03-09":-4,"2026-03-10":2}`)))

	l := streak.New(kv, streak.WithClock(clock.NewFake(today)))
	assert.Equal(t, streak.Counts{"2026-03-10": 2}, l.Counts())
}

func TestLedger_WriteFailureKeepsCount(t *testing.T) {
	kv := store.NewMemory()
	kv.SetErr = errors.New("read-only")
	l := streak.New(kv, streak.WithClock(clock.NewFake(today)))

	l.IncrementToday()
	assert.Equal(t, 1, l.TotalCompletions())
}

func TestLedger_ViewUsesClock(t *testing.T) {
	c := clock.NewFake(today)
	l := streak.New(store.NewMemory(), streak.WithClock(c))
	l.IncrementToday()

	v := l.View(7)
	assert.Equal(t, 1, v.Stats.TotalCompletions)
	assert.Equal(t, 7, v.Calendar.Populated())
	assert.Equal(t, l.CalendarGrid(7), v.Calendar)
}
