// Command desktop is the fyne front end: a focus timer, the task list and the
// streak calendar in one window.
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	core "github.com/MihkelHunter/mkFocus/internal/app"
	"github.com/MihkelHunter/mkFocus/internal/config"
	"github.com/MihkelHunter/mkFocus/internal/logging"
	"github.com/MihkelHunter/mkFocus/internal/notify"
	"github.com/MihkelHunter/mkFocus/internal/timer"
	"github.com/MihkelHunter/mkFocus/internal/version"
)

// ── Colour palette ───────────────────────────────────────────────────────────

var (
	colBackground = color.NRGBA{R: 15, G: 15, B: 20, A: 255}
	colSurface    = color.NRGBA{R: 26, G: 26, B: 36, A: 255}
	colAccent     = color.NRGBA{R: 99, G: 102, B: 241, A: 255}
	colDone       = color.NRGBA{R: 20, G: 30, B: 25, A: 255}
	colCelebrate  = color.NRGBA{R: 34, G: 197, B: 94, A: 255}

	// Heat-map intensity, indexed by streak.Level.
	colLevels = [4]color.NRGBA{
		{R: 35, G: 35, B: 50, A: 255},
		{R: 14, G: 68, B: 41, A: 255},
		{R: 0, G: 109, B: 50, A: 255},
		{R: 38, G: 166, B: 65, A: 255},
	}
)

// ── App state ────────────────────────────────────────────────────────────────

type appState struct {
	core   *core.App
	win    fyne.Window
	logger *slog.Logger

	// ready is set once the window content exists. Observers fire earlier,
	// while core.Open loads the ledgers, and are dropped until then.
	ready atomic.Bool

	timer  *timerView
	tasks  *taskView
	streak *streakView
}

func main() {
	cfgFile := pflag.String("config", "", "config file path (default: ~/.mkfocus/mkfocus.yaml)")
	pflag.Parse()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "home dir:", err)
		os.Exit(1)
	}
	v := viper.New()
	config.SetDefaults(v, home)
	if _, err := config.ReadInConfig(v, *cfgFile, home); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Load(v)
	logger := logging.New(os.Stderr, cfg.LogLevel, "desktop")

	a := app.NewWithID("io.github.mihkelhunter.mkfocus")
	a.Settings().SetTheme(&darkTheme{})

	s := &appState{logger: logger}
	c, err := core.Open(cfg, logger, core.Hooks{
		Notifier: notify.Multi{notify.NewLog(logger), desktopNotifier{a}},
		OnTasks:  s.onTasks,
		OnTimer:  s.onTimer,
	})
	if err != nil {
		logger.Error("open", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("close", slog.String("error", err.Error()))
		}
	}()
	s.core = c

	win := a.NewWindow("mkFocus " + version.String())
	win.Resize(fyne.NewSize(820, 620))
	win.CenterOnScreen()
	s.win = win

	win.SetContent(s.buildUI())
	s.showTimer(c.Timer.State())
	s.refreshTasks()
	s.refreshStreak()
	s.ready.Store(true)

	win.ShowAndRun()
}

// ── Build UI ─────────────────────────────────────────────────────────────────

func (s *appState) buildUI() fyne.CanvasObject {
	s.timer = newTimerView(s)
	s.tasks = newTaskView(s)
	s.streak = newStreakView(s)

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Focus", theme.MediaPlayIcon(), s.timer.content),
		container.NewTabItemWithIcon("Tasks", theme.ListIcon(), s.tasks.content),
		container.NewTabItemWithIcon("Streak", theme.CalendarIcon(), s.streak.content),
	)
	tabs.OnSelected = func(t *container.TabItem) {
		if t.Text == "Streak" {
			s.refreshStreak()
		}
	}

	bg := canvas.NewRectangle(colBackground)
	return container.NewStack(bg, tabs)
}

// ── Refresh ──────────────────────────────────────────────────────────────────

// onTasks and onTimer run on core goroutines; fyne.Do hands the work to the
// UI goroutine.
func (s *appState) onTasks() {
	if s.ready.Load() {
		fyne.Do(s.refreshTasks)
	}
}

func (s *appState) onTimer(st timer.State) {
	if s.ready.Load() {
		fyne.Do(func() { s.showTimer(st) })
	}
}

func (s *appState) showTimer(st timer.State) {
	s.timer.show(st)
	if st.JustCompleted {
		s.refreshStreak()
	}
}

func (s *appState) refreshTasks() {
	s.tasks.refresh()
	s.timer.showTop(s.core.Tasks.TopActive(3))
}

func (s *appState) refreshStreak() {
	s.streak.refresh()
}

// ── Notifications ────────────────────────────────────────────────────────────

// desktopNotifier raises an OS notification through fyne.
type desktopNotifier struct{ app fyne.App }

func (n desktopNotifier) Notify(title, body string) {
	n.app.SendNotification(fyne.NewNotification(title, body))
}

// ── Custom dark theme ─────────────────────────────────────────────────────────

type darkTheme struct{}

func (darkTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	switch n {
	case theme.ColorNameBackground:
		return colBackground
	case theme.ColorNameButton:
		return colAccent
	case theme.ColorNamePrimary:
		return colAccent
	case theme.ColorNameForeground:
		return color.White
	case theme.ColorNameInputBackground:
		return color.NRGBA{R: 35, G: 35, B: 50, A: 255}
	case theme.ColorNameDisabled:
		return color.NRGBA{R: 80, G: 80, B: 100, A: 255}
	case theme.ColorNameSeparator:
		return color.NRGBA{R: 50, G: 50, B: 65, A: 255}
	}
	return theme.DefaultTheme().Color(n, v)
}

func (darkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (darkTheme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(n)
}

func (darkTheme) Size(n fyne.ThemeSizeName) float32 {
	switch n {
	case theme.SizeNamePadding:
		return 8
	case theme.SizeNameText:
		return 14
	case theme.SizeNameInlineIcon:
		return 20
	}
	return theme.DefaultTheme().Size(n)
}
