package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/homeops-tools/clockify-bridge/internal/config"
	"github.com/homeops-tools/clockify-bridge/internal/database"
	"github.com/homeops-tools/clockify-bridge/internal/engine"
)

// Service is what the HTTP layer needs from the poller.
type Service interface {
	Latest() *engine.Snapshot
	Refresh() error
	StartTimer(description, projectID string, billable bool) error
	StopTimer() error
}

type Handler struct {
	cfg *config.Config
	db  *database.DB
	svc Service
}

func NewHandler(cfg *config.Config, db *database.DB, svc Service) *Handler {
	return &Handler{
		cfg: cfg,
		db:  db,
		svc: svc,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Sensor payloads consumed by Home Assistant REST sensors
	mux.HandleFunc("GET /api/v1/sensors", h.getSensors)
	mux.HandleFunc("GET /api/v1/sensors/current_timer", h.getCurrentTimer)
	mux.HandleFunc("GET /api/v1/sensors/daily", h.getDaily)
	mux.HandleFunc("GET /api/v1/sensors/daily_total", h.getDailyTotal)
	mux.HandleFunc("GET /api/v1/sensors/weekly", h.getWeekly)
	mux.HandleFunc("GET /api/v1/sensors/weekly_total", h.getWeeklyTotal)

	// Persisted history
	mux.HandleFunc("GET /api/v1/history/daily", h.getDailyHistory)
	mux.HandleFunc("GET /api/v1/warnings", h.getWarnings)

	// Refresh control
	mux.HandleFunc("POST /api/v1/refresh", h.triggerRefresh)
	mux.HandleFunc("GET /api/v1/refresh/status", h.getRefreshStatus)

	// Timer commands
	mux.HandleFunc("POST /api/v1/timer/start", h.startTimer)
	mux.HandleFunc("POST /api/v1/timer/stop", h.stopTimer)

	// Health check
	mux.HandleFunc("GET /health", h.healthCheck)
}

// --- Response helpers ---

type APIResponse struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Error: message})
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (h *Handler) snapshot(w http.ResponseWriter) *engine.Snapshot {
	s := h.svc.Latest()
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot computed yet")
		return nil
	}
	return s
}

// --- Sensor handlers ---

// getSensors returns the full latest snapshot
// GET /api/v1/sensors
func (h *Handler) getSensors(w http.ResponseWriter, r *http.Request) {
	if s := h.snapshot(w); s != nil {
		writeJSON(w, http.StatusOK, s)
	}
}

func (h *Handler) getCurrentTimer(w http.ResponseWriter, r *http.Request) {
	if s := h.snapshot(w); s != nil {
		writeJSON(w, http.StatusOK, s.CurrentTimer)
	}
}

func (h *Handler) getDaily(w http.ResponseWriter, r *http.Request) {
	if s := h.snapshot(w); s != nil {
		writeJSON(w, http.StatusOK, s.Daily)
	}
}

func (h *Handler) getDailyTotal(w http.ResponseWriter, r *http.Request) {
	if s := h.snapshot(w); s != nil {
		writeJSON(w, http.StatusOK, s.DailyTotal)
	}
}

func (h *Handler) getWeekly(w http.ResponseWriter, r *http.Request) {
	if s := h.snapshot(w); s != nil {
		writeJSON(w, http.StatusOK, s.Weekly)
	}
}

func (h *Handler) getWeeklyTotal(w http.ResponseWriter, r *http.Request) {
	if s := h.snapshot(w); s != nil {
		writeJSON(w, http.StatusOK, s.WeeklyTotal)
	}
}

// --- History handlers ---

// getDailyHistory returns persisted daily totals for a date range
// GET /api/v1/history/daily?start=2024-01-01&end=2024-01-31
func (h *Handler) getDailyHistory(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		// Default to last 30 days
		endStr = time.Now().Format("2006-01-02")
		startStr = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}

	start, err := parseDate(startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date format, use YYYY-MM-DD")
		return
	}

	end, err := parseDate(endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date format, use YYYY-MM-DD")
		return
	}

	if start.After(end) {
		writeError(w, http.StatusBadRequest, "start date must be before end date")
		return
	}

	history, err := h.db.GetDailyHistory(start, end)
	if err != nil {
		slog.Error("failed to get daily history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  history,
		"start": startStr,
		"end":   endStr,
	})
}

// getWarnings returns the most recent persisted warnings
// GET /api/v1/warnings?limit=50
func (h *Handler) getWarnings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	warnings, err := h.db.GetRecentWarnings(limit)
	if err != nil {
		slog.Error("failed to get warnings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get warnings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": warnings,
	})
}

// --- Refresh handlers ---

// triggerRefresh runs a recomputation in the background
// POST /api/v1/refresh
func (h *Handler) triggerRefresh(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := h.svc.Refresh(); err != nil {
			slog.Error("manual refresh failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "refresh started",
	})
}

// getRefreshStatus returns the last refresh-log row
// GET /api/v1/refresh/status
func (h *Handler) getRefreshStatus(w http.ResponseWriter, r *http.Request) {
	last, err := h.db.GetLastRefresh()
	if err != nil {
		slog.Error("failed to get refresh status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get refresh status")
		return
	}
	if last == nil {
		writeError(w, http.StatusNotFound, "no refresh recorded yet")
		return
	}

	writeJSON(w, http.StatusOK, last)
}

// --- Timer handlers ---

type startTimerRequest struct {
	Description string `json:"description"`
	ProjectID   string `json:"project_id"`
	Billable    bool   `json:"billable"`
}

// startTimer starts a Clockify timer and refreshes in the background
// POST /api/v1/timer/start
func (h *Handler) startTimer(w http.ResponseWriter, r *http.Request) {
	var req startTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.StartTimer(req.Description, req.ProjectID, req.Billable); err != nil {
		slog.Error("failed to start timer", "error", err)
		writeError(w, http.StatusBadGateway, "failed to start timer")
		return
	}

	go func() {
		if err := h.svc.Refresh(); err != nil {
			slog.Error("post-start refresh failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "timer started",
	})
}

// stopTimer stops the running Clockify timer
// POST /api/v1/timer/stop
func (h *Handler) stopTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.StopTimer(); err != nil {
		slog.Error("failed to stop timer", "error", err)
		writeError(w, http.StatusBadGateway, "failed to stop timer")
		return
	}

	go func() {
		if err := h.svc.Refresh(); err != nil {
			slog.Error("post-stop refresh failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "timer stopped",
	})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
