package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"studenteval/db"
	"studenteval/evaluation"
	"studenteval/form"
	"studenteval/monitoring"
	"studenteval/visualize"

	"go.uber.org/zap"
)

// Handler exposes the controller's operations. Requests are served one
// at a time so the record store never sees concurrent callers.
type Handler struct {
	mu         sync.Mutex
	controller *form.Controller
	hub        *monitoring.WebSocketHub
	logger     *zap.Logger
}

func NewHandler(controller *form.Controller, hub *monitoring.WebSocketHub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{controller: controller, hub: hub, logger: logger}
}

func RegisterHandlers(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/records", h.handleListRecords)
	mux.HandleFunc("POST /api/records", h.handleCreateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", h.handleDeleteRecord)
	mux.HandleFunc("GET /api/summary", h.handleSummary)
	mux.HandleFunc("GET /api/chart.png", h.handleChart)
	if h.hub != nil {
		mux.HandleFunc("GET /api/ws", h.hub.HandleWebSocket)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// scoreText accepts a JSON string or a bare number and keeps its text so
// the form's parser decides what counts as an integer.
type scoreText string

func (s *scoreText) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = scoreText(str)
		return nil
	}
	*s = scoreText(strings.TrimSpace(string(b)))
	return nil
}

type createRecordRequest struct {
	Name          string    `json:"name"`
	Attendance    scoreText `json:"attendance"`
	Classwork     scoreText `json:"classwork"`
	Socialization scoreText `json:"socialization"`
	Neatness      scoreText `json:"neatness"`
}

type recordsResponse struct {
	Count int                 `json:"count"`
	Data  []evaluation.Record `json:"data"`
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.controller.Records()
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Count: len(records), Data: records})
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := form.ParseInput(form.Fields{
		Name:          req.Name,
		Attendance:    string(req.Attendance),
		Classwork:     string(req.Classwork),
		Socialization: string(req.Socialization),
		Neatness:      string(req.Neatness),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rec, err := h.controller.Evaluate(in)
	if errors.Is(err, form.ErrInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	err = h.controller.Remove(id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.controller.Records()
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":  len(records),
		"counts": visualize.Summarize(records),
	})
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	payload, err := h.controller.Chart()
	if errors.Is(err, visualize.ErrNoData) {
		writeError(w, http.StatusNotFound, "no data")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(payload)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
