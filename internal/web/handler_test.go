package web_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mkFocus/internal/clock"
	"github.com/MihkelHunter/mkFocus/internal/store"
	"github.com/MihkelHunter/mkFocus/internal/streak"
	"github.com/MihkelHunter/mkFocus/internal/timer"
	"github.com/MihkelHunter/mkFocus/internal/todo"
	"github.com/MihkelHunter/mkFocus/internal/web"
)

type fixture struct {
	router http.Handler
	clock  *clock.Fake
	tasks  *todo.Ledger
	engine *timer.Engine
	ledger *streak.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := clock.NewFake(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	kv := store.NewMemory()
	require.NoError(t, kv.Set(store.KeyTasks, []byte(`[]`)))

	tasks := todo.New(kv, todo.WithClock(c))
	engine := timer.NewEngine(timer.WithClock(c), timer.WithInitialMinutes(25))
	ledger := streak.New(kv, streak.WithClock(c))
	t.Cleanup(func() {
		engine.Close()
		tasks.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := web.NewHandler(tasks, engine, ledger, 7, logger)
	return &fixture{router: h.Routes(), clock: c, tasks: tasks, engine: engine, ledger: ledger}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTasks_Lifecycle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/tasks", `{"text":"  write tests "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decode[web.TasksResponse](t, rec)
	require.NotNil(t, added.Created)
	task := *added.Created
	assert.Equal(t, "write tests", task.Text)
	assert.Equal(t, []todo.Task{task}, added.Tasks)
	assert.Equal(t, 1, added.Total)
	id := strconv.FormatInt(task.ID, 10)

	rec = f.do(t, http.MethodPost, "/api/v1/tasks/"+id+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[web.TasksResponse](t, rec)
	assert.Equal(t, 1, list.Completed)
	assert.Equal(t, 1, list.Total)

	rec = f.do(t, http.MethodPatch, "/api/v1/tasks/"+id, `{"text":"write more tests"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "write more tests", decode[web.TasksResponse](t, rec).Tasks[0].Text)

	rec = f.do(t, http.MethodDelete, "/api/v1/tasks/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[web.TasksResponse](t, rec).Tasks)
}

func TestTasks_BlankAddIsNoOp(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/tasks", `{"text":"   "}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode[web.TasksResponse](t, rec)
	assert.Equal(t, 0, resp.Total)
	assert.Nil(t, resp.Created)
}

func TestTasks_BadInput(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/tasks", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, "/api/v1/tasks/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/tasks/top?n=-1", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/api/v1/tasks/12345", "").Code)
}

func TestTasks_Top(t *testing.T) {
	f := newFixture(t)
	for _, text := range []string{"a", "b", "c", "d"} {
		f.tasks.Add(text)
		f.clock.Advance(time.Second)
	}

	rec := f.do(t, http.MethodGet, "/api/v1/tasks/top", "")
	require.Equal(t, http.StatusOK, rec.Code)
	top := decode[map[string][]todo.Task](t, rec)["tasks"]
	require.Len(t, top, 3)
	assert.Equal(t, "a", top[0].Text)

	rec = f.do(t, http.MethodGet, "/api/v1/tasks/top?n=1", "")
	assert.Len(t, decode[map[string][]todo.Task](t, rec)["tasks"], 1)
}

func TestTimer_Endpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/v1/timer/duration", `{"minutes":90}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 60, decode[timer.State](t, rec).Initial)

	rec = f.do(t, http.MethodPost, "/api/v1/timer/adjust", `{"delta":-10}`)
	assert.Equal(t, 50, decode[timer.State](t, rec).Initial)

	rec = f.do(t, http.MethodPost, "/api/v1/timer/start", "")
	s := decode[timer.State](t, rec)
	assert.Equal(t, timer.Running, s.Status)
	assert.Equal(t, "49:59", s.Remaining())

	rec = f.do(t, http.MethodPut, "/api/v1/timer/duration", `{"minutes":5}`)
	assert.Equal(t, 50, decode[timer.State](t, rec).Initial, "rejected while running")

	f.clock.Advance(10 * time.Second)
	rec = f.do(t, http.MethodPost, "/api/v1/timer/pause", "")
	assert.Equal(t, "49:49", decode[timer.State](t, rec).Remaining())

	rec = f.do(t, http.MethodPost, "/api/v1/timer/reset", "")
	assert.Equal(t, "50:00", decode[timer.State](t, rec).Remaining())

	rec = f.do(t, http.MethodGet, "/api/v1/timer", "")
	assert.Equal(t, timer.Idle, decode[timer.State](t, rec).Status)
}

func TestStreak_Projection(t *testing.T) {
	f := newFixture(t)
	f.ledger.IncrementToday()

	rec := f.do(t, http.MethodGet, "/api/v1/streak", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[struct {
		Stats    streak.Stats `json:"stats"`
		Calendar struct {
			Weeks [][]*streak.Cell `json:"weeks"`
		} `json:"calendar"`
	}](t, rec)
	assert.Equal(t, streak.Stats{CurrentStreak: 1, LongestStreak: 1, TotalCompletions: 1}, v.Stats)
	assert.Len(t, v.Calendar.Weeks, 2)

	rec = f.do(t, http.MethodGet, "/api/v1/streak?days=30", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/streak?days=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/streak?days=x", "").Code)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.ledger.IncrementToday()

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mkfocus_streak_increments_total")
}
