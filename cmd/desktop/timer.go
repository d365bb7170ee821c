package main

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/MihkelHunter/mkFocus/internal/timer"
	"github.com/MihkelHunter/mkFocus/internal/todo"
)

type timerView struct {
	s       *appState
	content fyne.CanvasObject

	clock    *canvas.Text
	status   *widget.Label
	startBtn *widget.Button
	resetBtn *widget.Button
	adjust   []*widget.Button
	top      *fyne.Container
}

func newTimerView(s *appState) *timerView {
	v := &timerView{s: s}

	v.clock = canvas.NewText("25:00", color.White)
	v.clock.TextSize = 72
	v.clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	v.clock.Alignment = fyne.TextAlignCenter

	v.status = widget.NewLabel("")
	v.status.Alignment = fyne.TextAlignCenter

	v.startBtn = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), v.startOrPause)
	v.startBtn.Importance = widget.HighImportance
	v.resetBtn = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() { s.core.Timer.Reset() })

	for _, d := range []int{-5, -1, 1, 5} {
		delta := d
		b := widget.NewButton(fmt.Sprintf("%+d", delta), func() { s.core.Timer.AdjustDuration(delta) })
		b.Importance = widget.LowImportance
		v.adjust = append(v.adjust, b)
	}
	adjustRow := container.NewHBox(layout.NewSpacer())
	for _, b := range v.adjust {
		adjustRow.Add(b)
	}
	adjustRow.Add(layout.NewSpacer())

	controls := container.NewHBox(layout.NewSpacer(), v.startBtn, v.resetBtn, layout.NewSpacer())

	clockBG := canvas.NewRectangle(colSurface)
	clockBG.CornerRadius = 16
	clockCard := container.NewStack(clockBG, container.NewPadded(container.NewVBox(v.clock, v.status)))

	topTitle := widget.NewLabel("Up next")
	topTitle.TextStyle = fyne.TextStyle{Bold: true}
	v.top = container.NewVBox()

	v.content = container.NewPadded(container.NewVBox(
		clockCard,
		controls,
		adjustRow,
		widget.NewSeparator(),
		topTitle,
		v.top,
	))
	return v
}

func (v *timerView) startOrPause() {
	if v.s.core.Timer.State().Running() {
		v.s.core.Timer.Pause()
		return
	}
	v.s.core.Timer.Start()
}

func (v *timerView) show(st timer.State) {
	v.clock.Text = st.Remaining()
	if st.JustCompleted {
		v.clock.Color = colCelebrate
	} else {
		v.clock.Color = color.White
	}
	v.clock.Refresh()

	switch {
	case st.JustCompleted:
		v.status.SetText("Session complete!")
	case st.Running():
		v.status.SetText(fmt.Sprintf("Focusing · %d min session", st.Initial))
	case st.Paused():
		v.status.SetText("Paused")
	default:
		v.status.SetText(fmt.Sprintf("%d min session", st.Initial))
	}

	if st.Running() {
		v.startBtn.SetText("Pause")
		v.startBtn.SetIcon(theme.MediaPauseIcon())
	} else {
		label := "Start"
		if st.Paused() {
			label = "Resume"
		}
		v.startBtn.SetText(label)
		v.startBtn.SetIcon(theme.MediaPlayIcon())
	}

	for _, b := range v.adjust {
		if st.Idle() {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

func (v *timerView) showTop(tasks []todo.Task) {
	v.top.RemoveAll()
	if len(tasks) == 0 {
		v.top.Add(widget.NewLabel("Nothing left. Add a task to focus on."))
		return
	}
	for _, t := range tasks {
		v.top.Add(widget.NewLabel("• " + t.Text))
	}
}
