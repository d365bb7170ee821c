package streak

import "time"

// DefaultDays is the span of the calendar heat map.
const DefaultDays = 365

// Cell is one populated day of the calendar.
type Cell struct {
	Date  time.Time `json:"-"`
	Key   string    `json:"date"`
	Count int       `json:"count"`
	Level int       `json:"level"`
}

// Week holds up to seven cells, Sunday first. Nil cells pad the first week so
// its first date lands on the right weekday.
type Week []*Cell

// MonthLabel anchors a month name above a week column.
type MonthLabel struct {
	Label string     `json:"label"`
	Month time.Month `json:"-"`
	Week  int        `json:"week"`
}

// Calendar is a week-major grid: columns are weeks, rows Sunday..Saturday.
type Calendar struct {
	Weeks  []Week       `json:"weeks"`
	Months []MonthLabel `json:"months"`
}

// Level buckets a day's count into a heat-map intensity from 0 to 3.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	default:
		return 3
	}
}

// Calendar lays out the last days calendar days ending with today. days <= 0
// means DefaultDays.
func (c Counts) Calendar(today time.Time, days int) Calendar {
	if days <= 0 {
		days = DefaultDays
	}
	y, m, d := today.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, today.Location()).AddDate(0, 0, -(days - 1))

	var cal Calendar
	week := make(Week, int(first.Weekday()), 7)
	for i := range days {
		date := first.AddDate(0, 0, i)
		key := DateKey(date)
		n := c[key]
		week = append(week, &Cell{Date: date, Key: key, Count: n, Level: Level(n)})
		if len(week) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = make(Week, 0, 7)
		}
	}
	if len(week) > 0 {
		cal.Weeks = append(cal.Weeks, week)
	}

	cal.Months = monthLabels(cal.Weeks)
	return cal
}

// monthLabels names a week column whenever its first real day falls in a
// different month from the last labelled column.
func monthLabels(weeks []Week) []MonthLabel {
	labels := []MonthLabel{}
	var last time.Month
	for i, w := range weeks {
		for _, cell := range w {
			if cell == nil {
				continue
			}
			if m := cell.Date.Month(); m != last {
				labels = append(labels, MonthLabel{Label: cell.Date.Format("Jan"), Month: m, Week: i})
				last = m
			}
			break
		}
	}
	return labels
}

// Populated counts the non-padding cells.
func (cal Calendar) Populated() int {
	n := 0
	for _, w := range cal.Weeks {
		for _, cell := range w {
			if cell != nil {
				n++
			}
		}
	}
	return n
}
