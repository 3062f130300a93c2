// Package news collects Korean market headlines and turns them into the
// AI-curated news weather report.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/common"
	"github.com/ternarybob/finmate/internal/models"
	"github.com/ternarybob/finmate/internal/naver"
	"github.com/ternarybob/finmate/internal/services/llm"
)

// searchClient is the slice of the Naver client this service needs.
type searchClient interface {
	SearchNews(ctx context.Context, query string, opts ...naver.QueryOption) ([]naver.NewsItem, error)
}

// rankedArticle is one deduplicated article with its cross-query hit count.
type rankedArticle struct {
	naver.NewsItem
	Score int
}

// Service builds and caches the news weather report.
type Service struct {
	client    searchClient
	generator llm.Generator
	logger    arbor.ILogger
	queries   []string
	perQuery  int
	topN      int
	ttl       time.Duration

	mu       sync.Mutex
	cached   *models.NewsWeather
	cachedAt time.Time
}

// NewService creates a news service from the news pipeline configuration.
func NewService(client searchClient, generator llm.Generator, config *common.NewsConfig, logger arbor.ILogger) (*Service, error) {
	ttl, err := time.ParseDuration(config.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid news cache TTL '%s': %w", config.CacheTTL, err)
	}

	return &Service{
		client:    client,
		generator: generator,
		logger:    logger,
		queries:   config.Queries,
		perQuery:  config.PerQuery,
		topN:      config.TopN,
		ttl:       ttl,
	}, nil
}

// Weather returns the cached report, rebuilding it when the cache has
// expired or is empty.
func (s *Service) Weather(ctx context.Context) (*models.NewsWeather, error) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.cachedAt) < s.ttl {
		cached := s.cached
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh rebuilds the report unconditionally and updates the cache.
func (s *Service) Refresh(ctx context.Context) (*models.NewsWeather, error) {
	articles, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles collected")
	}

	report, err := s.analyze(ctx, articles)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = report
	s.cachedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info().
		Int("articles", len(articles)).
		Int("cards", len(report.Cards)).
		Msg("News weather report refreshed")

	return report, nil
}

// collect fetches articles for every query, deduplicates across queries and
// keeps the top ranked ones. An article hit by several queries ranks higher.
func (s *Service) collect(ctx context.Context) ([]rankedArticle, error) {
	seen := make(map[string]*rankedArticle)
	order := make([]string, 0)

	for _, query := range s.queries {
		items, err := s.client.SearchNews(ctx, query, naver.WithDisplay(s.perQuery), naver.WithSort("date"))
		if err != nil {
			s.logger.Warn().
				Str("query", query).
				Err(err).
				Msg("News query failed, continuing with remaining queries")
			continue
		}

		for _, item := range items {
			key := item.OriginalLink
			if key == "" {
				key = item.Link
			}
			if key == "" {
				key = item.Title
			}

			if existing, ok := seen[key]; ok {
				existing.Score++
				continue
			}
			seen[key] = &rankedArticle{NewsItem: item, Score: 1}
			order = append(order, key)
		}
	}

	articles := make([]rankedArticle, 0, len(seen))
	for _, key := range order {
		articles = append(articles, *seen[key])
	}

	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].Score != articles[j].Score {
			return articles[i].Score > articles[j].Score
		}
		return articles[i].PubDate.After(articles[j].PubDate)
	})

	if len(articles) > s.topN {
		articles = articles[:s.topN]
	}

	return articles, nil
}

// weatherPayload is the JSON shape the model is asked to produce.
type weatherPayload struct {
	Weather models.WeatherLines `json:"weather"`
	Cards   []models.NewsCard   `json:"cards"`
}

// analyze asks the AI to summarize the articles into a weather status and
// up to four cards.
func (s *Service) analyze(ctx context.Context, articles []rankedArticle) (*models.NewsWeather, error) {
	var list strings.Builder
	for i, article := range articles {
		fmt.Fprintf(&list, "%d. 제목: %s\n   요약: %s\n   링크: %s\n", i+1, article.Title, article.Description, article.Link)
	}

	prompt := fmt.Sprintf(`다음은 오늘의 한국 경제 뉴스 기사 목록입니다.

%s

이 기사들을 종합해서 아래 JSON 형식으로만 답변하세요. 다른 텍스트는 포함하지 마세요.

{
  "weather": {
    "status": "SUNNY | CLOUDY | STORMY 중 하나 (시장 분위기)",
    "line1": "오늘 시장 분위기 한 줄 요약",
    "line2": "가장 중요한 이슈 한 줄",
    "line3": "투자자가 주목할 포인트 한 줄"
  },
  "cards": [
    {
      "category": "카테고리 (예: 금리, 환율, 반도체)",
      "title": "기사 제목",
      "summary": "기사 핵심 2문장 요약",
      "insight": "초보 투자자 관점의 시사점 1문장",
      "url": "기사 링크"
    }
  ]
}

cards는 가장 중요한 기사 최대 4개만 담으세요. 기사에 없는 사실은 지어내지 마세요.`, list.String())

	resp, err := s.generator.GenerateContent(ctx, &llm.ContentRequest{
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate news weather: %w", err)
	}

	var payload weatherPayload
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Text)), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse news weather response: %w", err)
	}

	if len(payload.Cards) > 4 {
		payload.Cards = payload.Cards[:4]
	}

	return &models.NewsWeather{Weather: payload.Weather, Cards: payload.Cards}, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence the model
// sometimes wraps JSON output in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
