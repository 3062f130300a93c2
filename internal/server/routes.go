package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Mentor chat
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler) // POST

	// API routes - Macro dashboard
	mux.HandleFunc("/api/macro-chart", s.app.MarketHandler.MacroChartHandler)       // GET
	mux.HandleFunc("/api/macro-insight", s.app.MarketHandler.MacroInsightHandler)   // GET
	mux.HandleFunc("/api/market-weather", s.app.MarketHandler.MarketWeatherHandler) // GET

	// API routes - News weather
	mux.HandleFunc("/api/news-weather", s.app.NewsHandler.NewsWeatherHandler) // GET

	// API routes - Calendar
	mux.HandleFunc("/api/calendar/earnings-demo", s.app.CalendarHandler.EarningsDemoHandler) // GET
	mux.HandleFunc("/api/calendar/insight", s.app.CalendarHandler.InsightHandler)            // POST

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
