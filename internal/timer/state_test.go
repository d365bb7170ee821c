package timer_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mkFocus/internal/timer"
)

func TestTick(t *testing.T) {
	tests := []struct {
		name    string
		in      timer.State
		want    timer.State
		expired bool
	}{
		{
			name: "seconds decrement",
			in:   timer.State{Initial: 5, Minutes: 3, Seconds: 10, Status: timer.Running},
			want: timer.State{Initial: 5, Minutes: 3, Seconds: 9, Status: timer.Running},
		},
		{
			name: "minute underflow",
			in:   timer.State{Initial: 5, Minutes: 3, Seconds: 0, Status: timer.Running},
			want: timer.State{Initial: 5, Minutes: 2, Seconds: 59, Status: timer.Running},
		},
		{
			name:    "expiry restores duration",
			in:      timer.State{Initial: 5, Minutes: 0, Seconds: 0, Status: timer.Running},
			want:    timer.State{Initial: 5, Minutes: 5, Seconds: 0, Status: timer.Idle, JustCompleted: true},
			expired: true,
		},
		{
			name: "paused is untouched",
			in:   timer.State{Initial: 5, Minutes: 2, Seconds: 30, Status: timer.Paused},
			want: timer.State{Initial: 5, Minutes: 2, Seconds: 30, Status: timer.Paused},
		},
		{
			name: "idle is untouched",
			in:   timer.NewState(5),
			want: timer.NewState(5),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, expired := timer.Tick(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.expired, expired)
		})
	}
}

func TestStart(t *testing.T) {
	s := timer.Start(timer.NewState(5))
	assert.Equal(t, timer.State{Initial: 5, Minutes: 4, Seconds: 59, Status: timer.Running}, s)

	mid := timer.Start(timer.State{Initial: 5, Minutes: 2, Seconds: 15, Status: timer.Paused})
	assert.Equal(t, "02:15", mid.Remaining())
	assert.True(t, mid.Running())

	assert.Equal(t, s, timer.Start(s), "already running")
}

func TestNewState_Clamps(t *testing.T) {
	assert.Equal(t, 1, timer.NewState(-4).Initial)
	assert.Equal(t, 60, timer.NewState(61).Initial)
}

func TestState_JSON(t *testing.T) {
	b, err := json.Marshal(timer.State{Initial: 25, Minutes: 12, Seconds: 3, Status: timer.Paused})
	require.NoError(t, err)
	assert.JSONEq(t, `{"initial_minutes":25,"minutes":12,"seconds":3,"status":"paused","just_completed":false}`, string(b))
}
