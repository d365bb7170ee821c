// Package web serves the task list, the timer and the streak projection as
// JSON for browser front ends.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MihkelHunter/mkFocus/internal/streak"
	"github.com/MihkelHunter/mkFocus/internal/telemetry"
	"github.com/MihkelHunter/mkFocus/internal/timer"
	"github.com/MihkelHunter/mkFocus/internal/todo"
)

const (
	defaultTopN = 3
	maxDays     = 3 * 366
)

// Handler handles HTTP requests against the core components.
type Handler struct {
	tasks  *todo.Ledger
	timer  *timer.Engine
	streak *streak.Ledger
	days   int
	logger *slog.Logger
}

// NewHandler creates a Handler. days is the default calendar span.
func NewHandler(tasks *todo.Ledger, engine *timer.Engine, ledger *streak.Ledger, days int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{tasks: tasks, timer: engine, streak: ledger, days: days, logger: logger}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(h.logger))
	r.Use(MaxBodySize(64 << 10))

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", telemetry.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/streak", h.GetStreak)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.AddTask)
			r.Get("/top", h.TopTasks)
			r.Post("/{id}/toggle", h.ToggleTask)
			r.Patch("/{id}", h.EditTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Route("/timer", func(r chi.Router) {
			r.Get("/", h.GetTimer)
			r.Post("/start", h.timerAction(h.timer.Start))
			r.Post("/pause", h.timerAction(h.timer.Pause))
			r.Post("/reset", h.timerAction(h.timer.Reset))
			r.Put("/duration", h.SetDuration)
			r.Post("/adjust", h.AdjustDuration)
		})
	})
	return r
}

// TasksResponse is the body returned by every task endpoint. Created is set
// only by a successful add.
type TasksResponse struct {
	Tasks     []todo.Task `json:"tasks"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
	Created   *todo.Task  `json:"created,omitempty"`
}

// TextRequest is the JSON body for adding or editing a task.
type TextRequest struct {
	Text string `json:"text"`
}

// DurationRequest is the JSON body for PUT /timer/duration.
type DurationRequest struct {
	Minutes int `json:"minutes"`
}

// AdjustRequest is the JSON body for POST /timer/adjust.
type AdjustRequest struct {
	Delta int `json:"delta"`
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStreak handles GET /api/v1/streak?days=N.
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	days := h.days
	if q := r.URL.Query().Get("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > maxDays {
			writeError(w, http.StatusBadRequest, "days must be between 1 and "+strconv.Itoa(maxDays))
			return
		}
		days = n
	}
	writeJSON(w, http.StatusOK, h.streak.View(days))
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, _ *http.Request) {
	h.writeTasks(w, http.StatusOK)
}

// TopTasks handles GET /api/v1/tasks/top?n=3.
func (h *Handler) TopTasks(w http.ResponseWriter, r *http.Request) {
	n := defaultTopN
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "n must be a non-negative integer")
			return
		}
		n = v
	}
	writeJSON(w, http.StatusOK, map[string][]todo.Task{"tasks": h.tasks.TopActive(n)})
}

// AddTask handles POST /api/v1/tasks. It answers 201 with the new task in
// Created, or 200 with the unchanged list when the text is blank.
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task, ok := h.tasks.Add(req.Text)
	if !ok {
		h.writeTasks(w, http.StatusOK)
		return
	}
	resp := h.tasksResponse()
	resp.Created = &task
	writeJSON(w, http.StatusCreated, resp)
}

// ToggleTask handles POST /api/v1/tasks/{id}/toggle.
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	h.tasks.Toggle(id)
	h.writeTasks(w, http.StatusOK)
}

// EditTask handles PATCH /api/v1/tasks/{id}.
func (h *Handler) EditTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.tasks.Edit(id, req.Text)
	h.writeTasks(w, http.StatusOK)
}

// DeleteTask handles DELETE /api/v1/tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	h.tasks.Delete(id)
	h.writeTasks(w, http.StatusOK)
}

// GetTimer handles GET /api/v1/timer.
func (h *Handler) GetTimer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.timer.State())
}

func (h *Handler) timerAction(action func()) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		action()
		writeJSON(w, http.StatusOK, h.timer.State())
	}
}

// SetDuration handles PUT /api/v1/timer/duration. Out-of-range values are
// clamped; requests while the timer is active leave it unchanged.
func (h *Handler) SetDuration(w http.ResponseWriter, r *http.Request) {
	var req DurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.timer.SetDuration(req.Minutes)
	writeJSON(w, http.StatusOK, h.timer.State())
}

// AdjustDuration handles POST /api/v1/timer/adjust.
func (h *Handler) AdjustDuration(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.timer.AdjustDuration(req.Delta)
	writeJSON(w, http.StatusOK, h.timer.State())
}

func (h *Handler) writeTasks(w http.ResponseWriter, code int) {
	writeJSON(w, code, h.tasksResponse())
}

func (h *Handler) tasksResponse() TasksResponse {
	completed, total := h.tasks.Counts()
	return TasksResponse{Tasks: h.tasks.Tasks(), Completed: completed, Total: total}
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
