package handlers

import (
	"context"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/models"
)

// NewsService serves the AI news weather report.
type NewsService interface {
	Weather(ctx context.Context) (*models.NewsWeather, error)
}

// NewsHandler handles news weather requests
type NewsHandler struct {
	newsService NewsService
	logger      arbor.ILogger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(newsService NewsService, logger arbor.ILogger) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
		logger:      logger,
	}
}

// NewsWeatherHandler handles GET /api/news-weather requests
func (h *NewsHandler) NewsWeatherHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	report, err := h.newsService.Weather(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build news weather report")
		WriteError(w, http.StatusBadGateway, "Failed to build news weather report")
		return
	}

	WriteJSON(w, http.StatusOK, report)
}
