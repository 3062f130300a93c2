package naver

import "time"

// NewsItem is one article from a news search. Title and Description are
// cleaned of the API's highlight markup and HTML entities.
type NewsItem struct {
	Title        string    `json:"title"`
	OriginalLink string    `json:"originallink"`
	Link         string    `json:"link"`
	Description  string    `json:"description"`
	PubDateStr   string    `json:"pubDate"`
	PubDate      time.Time `json:"-"`
}

// newsResponse is the envelope of a news search call.
type newsResponse struct {
	Total   int        `json:"total"`
	Start   int        `json:"start"`
	Display int        `json:"display"`
	Items   []NewsItem `json:"items"`
}
