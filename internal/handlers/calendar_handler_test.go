package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/finmate/internal/common"
	"github.com/ternarybob/finmate/internal/models"
	"github.com/ternarybob/finmate/internal/services/insight"
)

type fakeEventSource struct {
	events []models.Event
}

func (f *fakeEventSource) Events() []models.Event { return f.events }

func (f *fakeEventSource) GroupedByDate() map[string][]models.Event {
	grouped := make(map[string][]models.Event)
	for _, ev := range f.events {
		key := ev.Datetime.Format("2006-01-02")
		grouped[key] = append(grouped[key], ev)
	}
	return grouped
}

type fakeInsightService struct {
	text string
	err  error
}

func (f *fakeInsightService) EventInsight(_ context.Context, _ *models.InsightRequest) (string, error) {
	return f.text, f.err
}

func demoSource() *fakeEventSource {
	return &fakeEventSource{events: []models.Event{
		{ID: "a", Title: "삼성전자 실적 발표", Datetime: time.Date(2025, 1, 17, 9, 0, 0, 0, time.UTC)},
	}}
}

func TestEarningsDemoHandler(t *testing.T) {
	handler := NewCalendarHandler(demoSource(), &fakeInsightService{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/earnings-demo", nil)
	rec := httptest.NewRecorder()
	handler.EarningsDemoHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "삼성전자 실적 발표")
	assert.Contains(t, rec.Body.String(), "2025-01-17")
}

func TestEarningsDemoHandler_EmptyFeed(t *testing.T) {
	handler := NewCalendarHandler(&fakeEventSource{}, &fakeInsightService{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/earnings-demo", nil)
	rec := httptest.NewRecorder()
	handler.EarningsDemoHandler(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestEarningsDemoHandler_MethodNotAllowed(t *testing.T) {
	handler := NewCalendarHandler(demoSource(), &fakeInsightService{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/earnings-demo", nil)
	rec := httptest.NewRecorder()
	handler.EarningsDemoHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

const insightBody = `{"title": "삼성전자 실적 발표", "datetime": "2025-01-17T09:00:00+09:00", "stockCode": "005930"}`

func TestInsightHandler(t *testing.T) {
	handler := NewCalendarHandler(demoSource(), &fakeInsightService{text: "🔴 상승 요인"}, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/insight", strings.NewReader(insightBody))
	rec := httptest.NewRecorder()
	handler.InsightHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "상승 요인")
}

func TestInsightHandler_InFlight(t *testing.T) {
	handler := NewCalendarHandler(demoSource(), &fakeInsightService{err: insight.ErrInFlight}, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/insight", strings.NewReader(insightBody))
	rec := httptest.NewRecorder()
	handler.InsightHandler(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInsightHandler_GenerationFailure(t *testing.T) {
	handler := NewCalendarHandler(demoSource(), &fakeInsightService{err: errors.New("provider down")}, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/insight", strings.NewReader(insightBody))
	rec := httptest.NewRecorder()
	handler.InsightHandler(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestInsightHandler_MissingFields(t *testing.T) {
	handler := NewCalendarHandler(demoSource(), &fakeInsightService{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/insight", strings.NewReader(`{"title": "제목만"}`))
	rec := httptest.NewRecorder()
	handler.InsightHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightHandler_BadBody(t *testing.T) {
	handler := NewCalendarHandler(demoSource(), &fakeInsightService{}, common.GetLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/calendar/insight", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handler.InsightHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
