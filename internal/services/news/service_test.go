package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/finmate/internal/common"
	"github.com/ternarybob/finmate/internal/naver"
	"github.com/ternarybob/finmate/internal/services/llm"
)

// fakeSearchClient serves canned items per query and counts calls.
type fakeSearchClient struct {
	results map[string][]naver.NewsItem
	errs    map[string]error
	calls   int
}

func (f *fakeSearchClient) SearchNews(_ context.Context, query string, _ ...naver.QueryOption) ([]naver.NewsItem, error) {
	f.calls++
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}

// fakeGenerator returns a fixed reply and counts calls.
type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ *llm.ContentRequest) (*llm.ContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ContentResponse{Text: f.reply}, nil
}

func article(title, link string, pub time.Time) naver.NewsItem {
	return naver.NewsItem{Title: title, Link: link, OriginalLink: link, Description: title + " 본문", PubDate: pub}
}

const validReply = `{
	"weather": {"status": "CLOUDY", "line1": "혼조세", "line2": "금리 경계감", "line3": "환율 주시"},
	"cards": [
		{"category": "금리", "title": "금리 동결", "summary": "요약", "insight": "시사점", "url": "https://n.news.naver.com/a"}
	]
}`

func newTestService(t *testing.T, client searchClient, generator llm.Generator, queries []string, ttl string) *Service {
	t.Helper()
	config := &common.NewsConfig{
		Queries:  queries,
		PerQuery: 5,
		TopN:     3,
		CacheTTL: ttl,
	}
	service, err := NewService(client, generator, config, common.GetLogger())
	require.NoError(t, err)
	return service
}

func TestCollect_RanksByScoreThenDate(t *testing.T) {
	now := time.Now()
	shared := article("코스피 급등", "https://news.example.com/shared", now.Add(-2*time.Hour))
	client := &fakeSearchClient{results: map[string][]naver.NewsItem{
		"코스피": {shared, article("오래된 기사", "https://news.example.com/old", now.Add(-3*time.Hour))},
		"증시":  {shared, article("최신 기사", "https://news.example.com/new", now.Add(-time.Hour))},
	}}
	service := newTestService(t, client, &fakeGenerator{reply: validReply}, []string{"코스피", "증시"}, "50m")

	articles, err := service.collect(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 3)

	// The article hit by both queries ranks first despite being older
	assert.Equal(t, "코스피 급등", articles[0].Title)
	assert.Equal(t, 2, articles[0].Score)
	// Remaining articles sort by publication date, newest first
	assert.Equal(t, "최신 기사", articles[1].Title)
	assert.Equal(t, "오래된 기사", articles[2].Title)
}

func TestCollect_TopNLimit(t *testing.T) {
	now := time.Now()
	items := make([]naver.NewsItem, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, article("기사", "https://news.example.com/"+string(rune('a'+i)), now))
	}
	client := &fakeSearchClient{results: map[string][]naver.NewsItem{"코스피": items}}
	service := newTestService(t, client, &fakeGenerator{reply: validReply}, []string{"코스피"}, "50m")

	articles, err := service.collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 3)
}

func TestCollect_QueryFailureIsNonFatal(t *testing.T) {
	now := time.Now()
	client := &fakeSearchClient{
		results: map[string][]naver.NewsItem{"증시": {article("기사", "https://news.example.com/a", now)}},
		errs:    map[string]error{"코스피": errors.New("naver down")},
	}
	service := newTestService(t, client, &fakeGenerator{reply: validReply}, []string{"코스피", "증시"}, "50m")

	articles, err := service.collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestWeather_CachesWithinTTL(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]naver.NewsItem{
		"코스피": {article("기사", "https://news.example.com/a", time.Now())},
	}}
	generator := &fakeGenerator{reply: validReply}
	service := newTestService(t, client, generator, []string{"코스피"}, "50m")

	first, err := service.Weather(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CLOUDY", first.Weather.Status)
	require.Len(t, first.Cards, 1)

	second, err := service.Weather(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, generator.calls, "cached report is served without regeneration")
	assert.Equal(t, 1, client.calls)
}

func TestWeather_ExpiredCacheRefreshes(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]naver.NewsItem{
		"코스피": {article("기사", "https://news.example.com/a", time.Now())},
	}}
	generator := &fakeGenerator{reply: validReply}
	service := newTestService(t, client, generator, []string{"코스피"}, "1ns")

	_, err := service.Weather(context.Background())
	require.NoError(t, err)
	_, err = service.Weather(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, generator.calls)
}

func TestRefresh_StripsCodeFence(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]naver.NewsItem{
		"코스피": {article("기사", "https://news.example.com/a", time.Now())},
	}}
	generator := &fakeGenerator{reply: "```json\n" + validReply + "\n```"}
	service := newTestService(t, client, generator, []string{"코스피"}, "50m")

	report, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CLOUDY", report.Weather.Status)
}

func TestRefresh_InvalidJSON(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]naver.NewsItem{
		"코스피": {article("기사", "https://news.example.com/a", time.Now())},
	}}
	generator := &fakeGenerator{reply: "오늘 시장은 흐립니다."}
	service := newTestService(t, client, generator, []string{"코스피"}, "50m")

	_, err := service.Refresh(context.Background())
	assert.Error(t, err)
}

func TestRefresh_NoArticles(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]naver.NewsItem{}}
	service := newTestService(t, client, &fakeGenerator{reply: validReply}, []string{"코스피"}, "50m")

	_, err := service.Refresh(context.Background())
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}
