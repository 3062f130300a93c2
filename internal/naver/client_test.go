package naver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"highlight tags", "<b>코스피</b> 상승 마감", "코스피 상승 마감"},
		{"entities", "금리 &quot;동결&quot; &amp; 환율 &lt;주목&gt;", `금리 "동결" & 환율 <주목>`},
		{"apostrophes", "&apos;AI&apos; &#39;반도체&#39;", "'AI' '반도체'"},
		{"whitespace", "  증시 전망  ", "증시 전망"},
		{"plain text unchanged", "물가 상승", "물가 상승"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestSearchNews(t *testing.T) {
	var gotID, gotSecret string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Naver-Client-Id")
		gotSecret = r.Header.Get("X-Naver-Client-Secret")
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"total": 2, "start": 1, "display": 2,
			"items": [
				{
					"title": "<b>코스피</b> 2,600 회복",
					"originallink": "https://news.example.com/a",
					"link": "https://n.news.naver.com/a",
					"description": "외국인 순매수에 &quot;강세&quot;",
					"pubDate": "Fri, 17 Jan 2025 09:30:00 +0900"
				},
				{
					"title": "환율 급등",
					"originallink": "https://news.example.com/b",
					"link": "https://n.news.naver.com/b",
					"description": "달러 강세 지속",
					"pubDate": "Fri, 17 Jan 2025 08:00:00 +0900"
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-id", "test-secret", WithBaseURL(server.URL))

	items, err := client.SearchNews(context.Background(), "코스피", WithDisplay(2), WithSort("date"))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "test-id", gotID)
	assert.Equal(t, "test-secret", gotSecret)
	assert.Equal(t, []string{"코스피"}, gotQuery["query"])
	assert.Equal(t, []string{"2"}, gotQuery["display"])
	assert.Equal(t, []string{"date"}, gotQuery["sort"])

	assert.Equal(t, "코스피 2,600 회복", items[0].Title)
	assert.Equal(t, `외국인 순매수에 "강세"`, items[0].Description)
	require.False(t, items[0].PubDate.IsZero())
	assert.Equal(t, 2025, items[0].PubDate.Year())
	assert.True(t, items[0].PubDate.After(items[1].PubDate))
}

func TestSearchNews_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errorMessage": "Not Registered Client ID", "errorCode": "024"}`))
	}))
	defer server.Close()

	client := NewClient("bad-id", "bad-secret", WithBaseURL(server.URL))

	_, err := client.SearchNews(context.Background(), "코스피")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestSearchNews_BadPubDateKeepsItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "start": 1, "display": 1, "items": [
			{"title": "제목", "link": "https://n.news.naver.com/c", "description": "본문", "pubDate": "not a date"}
		]}`))
	}))
	defer server.Close()

	client := NewClient("id", "secret", WithBaseURL(server.URL))

	items, err := client.SearchNews(context.Background(), "증시")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].PubDate.IsZero())
}
