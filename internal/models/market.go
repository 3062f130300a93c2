package models

// MacroPoint is one x-axis point of the rate-vs-index chart. Stock is nil
// when no index average exists for that month.
type MacroPoint struct {
	Date  string   `json:"date"`
	Rate  float64  `json:"rate"`
	Stock *float64 `json:"stock"`
}

// MarketIndex is one entry of the market-weather banner: latest value plus
// day-over-day change in percent.
type MarketIndex struct {
	Name   string  `json:"name"`
	Value  string  `json:"value"`
	Change float64 `json:"change"`
}

// MarketWeather is the /api/market-weather response.
type MarketWeather struct {
	Indices []MarketIndex `json:"indices"`
}

// WeatherLines is the AI market summary: an overall status plus three
// headline lines. Status is one of "SUNNY", "CLOUDY" or "STORMY".
type WeatherLines struct {
	Status string `json:"status"`
	Line1  string `json:"line1"`
	Line2  string `json:"line2"`
	Line3  string `json:"line3"`
}

// NewsCard is one AI-curated headline with a short takeaway.
type NewsCard struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Insight  string `json:"insight"`
	URL      string `json:"url"`
}

// NewsWeather is the /api/news-weather response.
type NewsWeather struct {
	Weather WeatherLines `json:"weather"`
	Cards   []NewsCard   `json:"cards"`
}

// MacroInsight is the one-line AI commentary for the macro chart.
type MacroInsight struct {
	Insight string `json:"insight"`
}
