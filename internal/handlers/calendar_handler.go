package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/models"
	"github.com/ternarybob/finmate/internal/services/insight"
)

// EventSource serves the calendar event feed.
type EventSource interface {
	Events() []models.Event
	GroupedByDate() map[string][]models.Event
}

// InsightGenerator produces per-event AI commentary.
type InsightGenerator interface {
	EventInsight(ctx context.Context, req *models.InsightRequest) (string, error)
}

// CalendarHandler handles calendar event and insight requests
type CalendarHandler struct {
	eventService   EventSource
	insightService InsightGenerator
	logger         arbor.ILogger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(eventService EventSource, insightService InsightGenerator, logger arbor.ILogger) *CalendarHandler {
	return &CalendarHandler{
		eventService:   eventService,
		insightService: insightService,
		logger:         logger,
	}
}

// EarningsDemoHandler handles GET /api/calendar/earnings-demo requests.
// It returns the seeded event feed both as a flat list and grouped by date.
func (h *CalendarHandler) EarningsDemoHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	events := h.eventService.Events()
	if len(events) == 0 {
		h.logger.Error().Msg("Event feed is empty")
		WriteError(w, http.StatusBadGateway, "Event feed unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"events":  events,
		"by_date": h.eventService.GroupedByDate(),
	})
}

// InsightHandler handles POST /api/calendar/insight requests.
// A request for an event whose commentary is already being generated
// returns 409 so the client can retry.
func (h *CalendarHandler) InsightHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode insight request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Datetime == "" {
		WriteError(w, http.StatusBadRequest, "Title and datetime fields are required")
		return
	}

	h.logger.Info().
		Str("title", req.Title).
		Str("stock_code", req.StockCode).
		Msg("Processing event insight request")

	text, err := h.insightService.EventInsight(r.Context(), &req)
	if err != nil {
		if errors.Is(err, insight.ErrInFlight) {
			WriteError(w, http.StatusConflict, "Insight generation already in progress")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to generate event insight")
		WriteError(w, http.StatusBadGateway, "Failed to generate insight")
		return
	}

	WriteJSON(w, http.StatusOK, models.InsightResponse{Insight: text})
}
