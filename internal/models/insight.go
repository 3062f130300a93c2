package models

// InsightBlock is one numbered sub-section of an AI commentary section,
// e.g. "1) 기본적(펀더멘탈) 분석" followed by its bullet lines.
type InsightBlock struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// ParsedInsight is the structured form of a raw AI commentary text:
// bullish drivers, bearish drivers and a flat market checklist.
type ParsedInsight struct {
	Long        []InsightBlock `json:"long"`
	Short       []InsightBlock `json:"short"`
	Checkpoints []string       `json:"checkpoints"`
}

// InsightRequest is the payload for per-event commentary generation.
type InsightRequest struct {
	Title       string `json:"title" validate:"required"`
	CompanyName string `json:"companyName"`
	StockCode   string `json:"stockCode"`
	Datetime    string `json:"datetime" validate:"required"`
	Type        string `json:"type"`
}

// InsightResponse carries the raw commentary text back to the client,
// which renders it via the parser.
type InsightResponse struct {
	Insight string `json:"insight"`
}
