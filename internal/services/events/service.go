// Package events manages the economic calendar event feed.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/calendar"
	"github.com/ternarybob/finmate/internal/models"
)

// Service holds the ingested event feed and answers calendar queries.
type Service struct {
	logger   arbor.ILogger
	location *time.Location
	events   []models.Event
}

// NewService creates an event service keyed to the given timezone.
func NewService(location *time.Location, logger arbor.ILogger) *Service {
	return &Service{
		logger:   logger,
		location: location,
	}
}

// Ingest replaces the event feed. Records without a timestamp are dropped;
// records without an ID get one assigned.
func (s *Service) Ingest(records []models.Event) int {
	events := make([]models.Event, 0, len(records))
	dropped := 0
	for _, record := range records {
		if record.Datetime.IsZero() {
			dropped++
			continue
		}
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		events = append(events, record)
	}

	s.events = events

	if dropped > 0 {
		s.logger.Warn().
			Int("dropped", dropped).
			Int("kept", len(events)).
			Msg("Dropped event records without timestamps")
	}

	return len(events)
}

// Events returns the current feed.
func (s *Service) Events() []models.Event {
	return s.events
}

// GroupedByDate returns the feed grouped by date key, each day sorted by
// importance.
func (s *Service) GroupedByDate() map[string][]models.Event {
	return calendar.GroupByDate(s.events, s.location)
}

// ForAsset returns the feed filtered to one asset tag.
func (s *Service) ForAsset(asset string) []models.Event {
	return calendar.FilterByAsset(s.events, asset)
}

// DemoEvents returns a seeded quarter of Korean earnings and macro events,
// anchored to the given time so the calendar always has upcoming entries.
func DemoEvents(now time.Time, location *time.Location) []models.Event {
	anchor := now.In(location)
	day := func(offset, hour, minute int) time.Time {
		return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), hour, minute, 0, 0, location).AddDate(0, 0, offset)
	}

	return []models.Event{
		{
			ID:          "kr-earnings-samsung",
			Title:       "삼성전자 실적 발표",
			Datetime:    day(2, 9, 0),
			Importance:  models.ImportanceVeryHigh,
			Asset:       "samsung",
			Description: "분기 잠정 실적 발표. 반도체 부문 영업이익이 핵심 관전 포인트.",
			CompanyName: "삼성전자",
			StockCode:   "005930",
			Type:        "earnings",
		},
		{
			ID:          "kr-earnings-skhynix",
			Title:       "SK하이닉스 실적 발표",
			Datetime:    day(4, 9, 0),
			Importance:  models.ImportanceVeryHigh,
			Asset:       "skhynix",
			Description: "분기 실적 발표. HBM 수주와 메모리 가격 전망에 주목.",
			CompanyName: "SK하이닉스",
			StockCode:   "000660",
			Type:        "earnings",
		},
		{
			ID:          "kr-bok-rate-decision",
			Title:       "한국은행 금통위 기준금리 결정",
			Datetime:    day(7, 10, 0),
			Importance:  models.ImportanceVeryHigh,
			Asset:       models.AssetAll,
			Description: "금융통화위원회 통화정책방향 결정회의.",
			Type:        "macro",
		},
		{
			ID:          "us-cpi-release",
			Title:       "미국 CPI 발표",
			Datetime:    day(9, 22, 30),
			Importance:  models.ImportanceHigh,
			Asset:       models.AssetAll,
			Description: "미국 소비자물가지수 발표. 연준 금리 경로의 핵심 지표.",
			Type:        "macro",
		},
		{
			ID:          "us-fomc-meeting",
			Title:       "FOMC 정례회의",
			Datetime:    day(14, 4, 0),
			Importance:  models.ImportanceHigh,
			Asset:       models.AssetAll,
			Description: "미국 연방공개시장위원회 금리 결정 및 기자회견.",
			Type:        "macro",
		},
		{
			ID:          "kr-export-stats",
			Title:       "한국 수출입 동향 발표",
			Datetime:    day(-3, 9, 0),
			Importance:  models.ImportanceMedium,
			Asset:       models.AssetAll,
			Description: "월간 수출입 통계. 반도체 수출 증가율이 관심사.",
			Type:        "macro",
		},
	}
}
