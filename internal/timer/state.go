// Package timer implements the focus countdown: a pure state machine plus an
// Engine that drives it from a one-second tick source and reports completed
// sessions.
package timer

import "fmt"

// Duration bounds, in minutes.
const (
	MinMinutes     = 1
	MaxMinutes     = 60
	DefaultMinutes = 25
)

// Status is the timer's mode. Exactly one holds at any time.
type Status int

const (
	Idle Status = iota
	Running
	Paused
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "running":
		*s = Running
	case "paused":
		*s = Paused
	default:
		return fmt.Errorf("unknown timer status %q", b)
	}
	return nil
}

// State is a snapshot of the countdown.
type State struct {
	Initial int    `json:"initial_minutes"`
	Minutes int    `json:"minutes"`
	Seconds int    `json:"seconds"`
	Status  Status `json:"status"`
	// JustCompleted is set for a short window after a session ends.
	JustCompleted bool `json:"just_completed"`
}

// NewState returns an idle state with the given session length, clamped.
func NewState(minutes int) State {
	m := clamp(minutes)
	return State{Initial: m, Minutes: m}
}

func (s State) Running() bool { return s.Status == Running }
func (s State) Paused() bool  { return s.Status == Paused }
func (s State) Idle() bool    { return s.Status == Idle }

// Remaining formats the countdown as MM:SS.
func (s State) Remaining() string {
	return fmt.Sprintf("%02d:%02d", s.Minutes, s.Seconds)
}

// Tick advances a running state by one second. The bool reports that the
// session expired; the returned state is then idle again with the full
// duration restored and JustCompleted set.
func Tick(s State) (State, bool) {
	if s.Status != Running {
		return s, false
	}
	switch {
	case s.Seconds > 0:
		s.Seconds--
	case s.Minutes > 0:
		s.Minutes--
		s.Seconds = 59
	default:
		return State{Initial: s.Initial, Minutes: s.Initial, Status: Idle, JustCompleted: true}, true
	}
	return s, false
}

// Start moves an idle or paused state to running. Starting on a whole
// minute pre-decrements to (m-1):59 so the first tick does not appear to skip
// a second.
func Start(s State) State {
	if s.Status == Running {
		return s
	}
	if s.Seconds == 0 && s.Minutes > 0 {
		s.Minutes--
		s.Seconds = 59
	}
	s.Status = Running
	s.JustCompleted = false
	return s
}

// Pause freezes a running state, keeping the remaining time.
func Pause(s State) State {
	if s.Status == Running {
		s.Status = Paused
	}
	return s
}

// Reset returns to idle with the full duration.
func Reset(s State) State {
	return State{Initial: s.Initial, Minutes: s.Initial, Status: Idle, JustCompleted: s.JustCompleted}
}

// SetDuration changes the session length. Only an idle timer accepts it.
func SetDuration(s State, minutes int) (State, bool) {
	if s.Status != Idle {
		return s, false
	}
	m := clamp(minutes)
	return State{Initial: m, Minutes: m, Status: Idle, JustCompleted: s.JustCompleted}, true
}

// AdjustDuration shifts the session length by delta minutes, idle only.
func AdjustDuration(s State, delta int) (State, bool) {
	return SetDuration(s, s.Initial+delta)
}

func clamp(m int) int {
	return max(MinMinutes, min(MaxMinutes, m))
}
