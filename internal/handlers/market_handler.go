package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/models"
)

// MarketService answers macro chart and market weather queries.
type MarketService interface {
	MacroPoints(ctx context.Context, now time.Time) ([]models.MacroPoint, error)
	MarketWeather(ctx context.Context, now time.Time) (*models.MarketWeather, error)
	MacroInsight(ctx context.Context, now time.Time) (*models.MacroInsight, error)
}

// MarketHandler handles macro chart and market weather requests
type MarketHandler struct {
	marketService MarketService
	logger        arbor.ILogger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketService MarketService, logger arbor.ILogger) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
		logger:        logger,
	}
}

// MacroChartHandler handles GET /api/macro-chart requests
func (h *MarketHandler) MacroChartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	points, err := h.marketService.MacroPoints(r.Context(), time.Now())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build macro chart")
		WriteError(w, http.StatusBadGateway, "Failed to fetch macro data")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
	})
}

// MacroInsightHandler handles GET /api/macro-insight requests
func (h *MarketHandler) MacroInsightHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	insight, err := h.marketService.MacroInsight(r.Context(), time.Now())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate macro insight")
		WriteError(w, http.StatusBadGateway, "Failed to generate macro insight")
		return
	}

	WriteJSON(w, http.StatusOK, insight)
}

// MarketWeatherHandler handles GET /api/market-weather requests
func (h *MarketHandler) MarketWeatherHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	weather, err := h.marketService.MarketWeather(r.Context(), time.Now())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build market weather")
		WriteError(w, http.StatusBadGateway, "Failed to fetch market data")
		return
	}

	WriteJSON(w, http.StatusOK, weather)
}
