// Package insight generates and caches per-event AI commentary.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	eventinsight "github.com/ternarybob/finmate/internal/insight"
	"github.com/ternarybob/finmate/internal/models"
	"github.com/ternarybob/finmate/internal/services/llm"
)

// ErrInFlight is returned when a commentary for the same event is already
// being generated.
var ErrInFlight = errors.New("insight generation already in progress for this event")

// systemPersona forbids fabricated facts in the commentary.
const systemPersona = "당신은 Fin-Mate의 시장 분석가입니다. " +
	"확인되지 않은 수치나 사실을 지어내지 마세요. " +
	"일반적인 시장 메커니즘에 근거해 분석하되, 추정임을 명확히 하세요."

// Service produces event commentary, serving repeated requests from cache
// and collapsing concurrent requests for the same event.
type Service struct {
	generator llm.Generator
	cache     *eventinsight.Cache
	validate  *validator.Validate
	logger    arbor.ILogger
}

// NewService creates an insight service.
func NewService(generator llm.Generator, cache *eventinsight.Cache, logger arbor.ILogger) *Service {
	return &Service{
		generator: generator,
		cache:     cache,
		validate:  validator.New(),
		logger:    logger,
	}
}

// EventInsight returns the commentary for an event, generating it on first
// request. A second request for the same event while generation runs gets
// ErrInFlight; later requests are served from cache without regeneration.
func (s *Service) EventInsight(ctx context.Context, req *models.InsightRequest) (string, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", fmt.Errorf("invalid insight request: %w", err)
	}

	key := eventinsight.Key("", req.StockCode, req.Datetime, req.Title)

	if text, ok := s.cache.Get(key); ok {
		return text, nil
	}

	if !s.cache.BeginFetch(key) {
		return "", ErrInFlight
	}
	defer s.cache.EndFetch(key)

	// A concurrent request may have finished between the cache check and
	// claiming the fetch slot.
	if text, ok := s.cache.Get(key); ok {
		return text, nil
	}

	text, err := s.generate(ctx, req)
	if err != nil {
		return "", err
	}

	s.cache.Put(key, text)

	s.logger.Info().
		Str("title", req.Title).
		Int("length", len(text)).
		Msg("Event insight generated")

	return text, nil
}

// generate asks the AI for the three-section commentary.
func (s *Service) generate(ctx context.Context, req *models.InsightRequest) (string, error) {
	subject := req.Title
	if req.CompanyName != "" {
		subject = fmt.Sprintf("%s (%s, 종목코드 %s)", req.Title, req.CompanyName, req.StockCode)
	}

	prompt := fmt.Sprintf(`다음 경제 캘린더 이벤트에 대한 투자 관점 분석을 작성해주세요.

이벤트: %s
일시: %s
유형: %s

아래 형식을 정확히 지켜서 작성하세요.

🔴 상승 요인
1) 기본적(펀더멘탈) 분석
- 분석 내용
2) 기술적 분석
- 분석 내용
3) 매크로 분석
- 분석 내용
4) 심리·이벤트 분석
- 분석 내용

🔵 하락 요인
1) 기본적(펀더멘탈) 분석
- 분석 내용
2) 기술적 분석
- 분석 내용
3) 매크로 분석
- 분석 내용
4) 심리·이벤트 분석
- 분석 내용

🟢 시장 체크 포인트
- 확인할 포인트
- 확인할 포인트

각 분석은 1~2문장으로 간결하게 작성하세요.`, subject, req.Datetime, eventTypeLabel(req.Type))

	resp, err := s.generator.GenerateContent(ctx, &llm.ContentRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPersona},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate event insight: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("empty insight generated")
	}
	return text, nil
}

func eventTypeLabel(eventType string) string {
	switch eventType {
	case "earnings":
		return "실적 발표"
	case "macro":
		return "거시경제 지표"
	default:
		if eventType == "" {
			return "일반"
		}
		return eventType
	}
}
