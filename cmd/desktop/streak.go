package main

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/MihkelHunter/mkFocus/internal/streak"
)

const (
	cellSize = 12
	cellGap  = 3
)

type streakView struct {
	s       *appState
	content fyne.CanvasObject

	current *widget.Label
	longest *widget.Label
	total   *widget.Label
	grid    *fyne.Container
}

func newStreakView(s *appState) *streakView {
	v := &streakView{
		s:       s,
		current: widget.NewLabel(""),
		longest: widget.NewLabel(""),
		total:   widget.NewLabel(""),
		grid:    container.NewVBox(),
	}

	stats := container.NewGridWithColumns(3,
		statCard("Current streak", v.current),
		statCard("Longest streak", v.longest),
		statCard("Sessions", v.total),
	)
	v.content = container.NewPadded(container.NewBorder(
		stats, nil, nil, nil,
		container.NewHScroll(v.grid),
	))
	return v
}

func statCard(title string, value *widget.Label) fyne.CanvasObject {
	t := widget.NewLabel(title)
	value.TextStyle = fyne.TextStyle{Bold: true}
	bg := canvas.NewRectangle(colSurface)
	bg.CornerRadius = 8
	return container.NewStack(bg, container.NewPadded(container.NewVBox(t, value)))
}

func (v *streakView) refresh() {
	view := v.s.core.Streak.View(v.s.core.CalendarDays())

	v.current.SetText(days(view.Stats.CurrentStreak))
	v.longest.SetText(days(view.Stats.LongestStreak))
	v.total.SetText(fmt.Sprint(view.Stats.TotalCompletions))

	v.grid.RemoveAll()
	v.grid.Add(weekColumns(view.Calendar))
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// weekColumns draws one column per week, Sunday at the top, with the month
// label over the week a month starts in.
func weekColumns(cal streak.Calendar) fyne.CanvasObject {
	labels := make(map[int]string, len(cal.Months))
	for _, m := range cal.Months {
		labels[m.Week] = m.Label
	}

	cols := container.New(layout.NewCustomPaddedHBoxLayout(cellGap))
	for w, week := range cal.Weeks {
		col := container.New(layout.NewCustomPaddedVBoxLayout(cellGap), monthLabel(labels[w]))
		for _, cell := range week {
			col.Add(cellRect(cell))
		}
		cols.Add(col)
	}
	return cols
}

// monthLabel may be wider than a cell; it is drawn over the following
// columns without widening its own.
func monthLabel(text string) fyne.CanvasObject {
	t := canvas.NewText(text, color.NRGBA{R: 160, G: 160, B: 180, A: 255})
	t.TextSize = 10
	t.Resize(t.MinSize())
	return container.NewStack(sizedRect(color.Transparent), container.NewWithoutLayout(t))
}

func cellRect(c *streak.Cell) fyne.CanvasObject {
	if c == nil {
		return sizedRect(color.Transparent)
	}
	r := sizedRect(colLevels[c.Level])
	r.CornerRadius = 2
	return r
}

func sizedRect(c color.Color) *canvas.Rectangle {
	r := canvas.NewRectangle(c)
	r.SetMinSize(fyne.NewSize(cellSize, cellSize))
	return r
}
