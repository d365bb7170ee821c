package main

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/MihkelHunter/mkFocus/internal/todo"
)

type taskView struct {
	s       *appState
	content fyne.CanvasObject

	entry      *widget.Entry
	list       *widget.List
	statsLabel *widget.Label
	tasks      []todo.Task
	filter     string // "all" | "active" | "done"
}

func newTaskView(s *appState) *taskView {
	v := &taskView{s: s, filter: "all"}

	v.entry = widget.NewEntry()
	v.entry.SetPlaceHolder("What needs doing?")
	v.entry.OnSubmitted = func(string) { v.add() }

	addBtn := widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), v.add)
	addBtn.Importance = widget.HighImportance
	header := container.NewBorder(nil, nil, nil, addBtn, v.entry)
	headerBG := canvas.NewRectangle(colSurface)
	headerStack := container.NewStack(headerBG, container.NewPadded(header))

	// Filter tabs
	allBtn := widget.NewButton("All", func() { v.filter = "all"; v.refresh() })
	activeBtn := widget.NewButton("Active", func() { v.filter = "active"; v.refresh() })
	doneBtn := widget.NewButton("Done", func() { v.filter = "done"; v.refresh() })
	filterRow := container.NewHBox(layout.NewSpacer(), allBtn, activeBtn, doneBtn, layout.NewSpacer())

	v.list = widget.NewList(
		func() int { return len(v.tasks) },
		v.makeRow,
		v.updateRow,
	)
	v.list.OnSelected = func(id widget.ListItemID) { v.list.Unselect(id) }

	v.statsLabel = widget.NewLabel("")
	footerBG := canvas.NewRectangle(colSurface)
	footerStack := container.NewStack(footerBG, container.NewPadded(container.NewCenter(v.statsLabel)))

	v.content = container.NewBorder(
		container.NewVBox(headerStack, filterRow),
		footerStack,
		nil, nil,
		v.list,
	)
	return v
}

// ── Task row template ─────────────────────────────────────────────────────────

func (v *taskView) makeRow() fyne.CanvasObject {
	checkBtn := widget.NewButtonWithIcon("", theme.RadioButtonIcon(), func() {})
	checkBtn.Importance = widget.LowImportance

	titleLabel := widget.NewLabel("title")
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	metaLabel := widget.NewLabel("meta")

	editBtn := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {})
	editBtn.Importance = widget.LowImportance

	deleteBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {})
	deleteBtn.Importance = widget.DangerImportance

	left := container.NewHBox(checkBtn, container.NewVBox(titleLabel, metaLabel))
	right := container.NewHBox(editBtn, deleteBtn)
	rowContent := container.NewBorder(nil, nil, left, right)

	rowBG := canvas.NewRectangle(colSurface)
	rowBG.CornerRadius = 8

	return container.NewStack(rowBG, container.NewPadded(rowContent))
}

func (v *taskView) updateRow(i widget.ListItemID, obj fyne.CanvasObject) {
	if i >= len(v.tasks) {
		return
	}
	t := v.tasks[i]

	stack := obj.(*fyne.Container)
	rowBG := stack.Objects[0].(*canvas.Rectangle)
	padded := stack.Objects[1].(*fyne.Container)
	border := padded.Objects[0].(*fyne.Container)

	// NewBorder keeps only the non-nil edges: left, then right.
	left := border.Objects[0].(*fyne.Container)
	right := border.Objects[1].(*fyne.Container)

	checkBtn := left.Objects[0].(*widget.Button)
	textBox := left.Objects[1].(*fyne.Container)
	titleLabel := textBox.Objects[0].(*widget.Label)
	metaLabel := textBox.Objects[1].(*widget.Label)

	editBtn := right.Objects[0].(*widget.Button)
	deleteBtn := right.Objects[1].(*widget.Button)

	if t.Completed {
		checkBtn.SetIcon(theme.ConfirmIcon())
		titleLabel.TextStyle = fyne.TextStyle{Italic: true}
		rowBG.FillColor = colDone
	} else {
		checkBtn.SetIcon(theme.RadioButtonIcon())
		titleLabel.TextStyle = fyne.TextStyle{Bold: true}
		rowBG.FillColor = colSurface
	}
	rowBG.Refresh()

	titleLabel.SetText(t.Text)
	metaLabel.SetText(v.meta(t))

	id := t.ID
	checkBtn.OnTapped = func() { v.s.core.Tasks.Toggle(id) }
	editBtn.OnTapped = func() { v.showEdit(t) }
	deleteBtn.OnTapped = func() { v.confirmDelete(t) }
}

func (v *taskView) meta(t todo.Task) string {
	if t.CompletedAt != nil {
		return "done " + t.CompletedAt.Format("15:04")
	}
	return "added " + t.CreatedAt.Format("Jan 2 15:04")
}

// ── Actions ───────────────────────────────────────────────────────────────────

func (v *taskView) refresh() {
	switch v.filter {
	case "active":
		v.tasks = v.s.core.Tasks.Active()
	case "done":
		v.tasks = v.s.core.Tasks.Completed()
	default:
		v.tasks = v.s.core.Tasks.Tasks()
	}
	v.list.Refresh()

	completed, total := v.s.core.Tasks.Counts()
	v.statsLabel.SetText(fmt.Sprintf("%d / %d completed", completed, total))
}

func (v *taskView) add() {
	if _, ok := v.s.core.Tasks.Add(v.entry.Text); ok {
		v.entry.SetText("")
	}
}

func (v *taskView) confirmDelete(t todo.Task) {
	dialog.ShowConfirm("Delete Task",
		fmt.Sprintf("Delete \"%s\"?", t.Text),
		func(ok bool) {
			if ok {
				v.s.core.Tasks.Delete(t.ID)
			}
		}, v.s.win)
}

func (v *taskView) showEdit(t todo.Task) {
	textEntry := widget.NewEntry()
	textEntry.SetText(t.Text)

	items := []*widget.FormItem{widget.NewFormItem("Task", textEntry)}
	dialog.ShowForm("Edit Task", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if strings.TrimSpace(textEntry.Text) == "" {
			dialog.ShowError(errors.New("task cannot be empty"), v.s.win)
			return
		}
		v.s.core.Tasks.Edit(t.ID, textEntry.Text)
	}, v.s.win)
}
