// Package market builds the macro chart and market-weather banner from
// Bank of Korea statistics.
package market

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/ecos"
	"github.com/ternarybob/finmate/internal/models"
	"github.com/ternarybob/finmate/internal/services/llm"
)

// statisticClient is the slice of the ECOS client this service needs.
type statisticClient interface {
	StatisticSearch(ctx context.Context, statCode, cycle, start, end, itemCode string) ([]ecos.StatisticRow, error)
}

// Service answers macro chart and market weather queries.
type Service struct {
	client    statisticClient
	generator llm.Generator
	logger    arbor.ILogger
	months    int
}

// NewService creates a market service. The generator is only used for the
// macro commentary and may be nil in tests that don't exercise it.
func NewService(client statisticClient, generator llm.Generator, months int, logger arbor.ILogger) *Service {
	return &Service{
		client:    client,
		generator: generator,
		logger:    logger,
		months:    months,
	}
}

// MacroPoints joins the policy rate with the monthly KOSPI average over the
// configured window. The window is anchored to the last completed month.
func (s *Service) MacroPoints(ctx context.Context, now time.Time) ([]models.MacroPoint, error) {
	end := now.AddDate(0, -1, 0)
	// Fetch a couple of extra months so late-publishing series still fill
	// the window, then keep the trailing slice.
	start := end.AddDate(0, -(s.months + 1), 0)

	rateRows, err := s.client.StatisticSearch(ctx, ecos.StatPolicyRate, ecos.CyclePolicyRate,
		start.Format("200601"), end.Format("200601"), ecos.ItemPolicyRate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch policy rate: %w", err)
	}

	kospiRows, err := s.client.StatisticSearch(ctx, ecos.StatMarketIndex, ecos.CycleDaily,
		start.Format("20060102"), now.Format("20060102"), ecos.ItemKospi)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch KOSPI series: %w", err)
	}

	kospiMonthly := monthlyAverage(kospiRows)

	points := make([]models.MacroPoint, 0, len(rateRows))
	for _, row := range rateRows {
		rate, err := strconv.ParseFloat(row.DataValue, 64)
		if err != nil {
			continue
		}
		point := models.MacroPoint{
			Date: monthLabel(row.Time),
			Rate: rate,
		}
		if avg, ok := kospiMonthly[row.Time]; ok {
			v := avg
			point.Stock = &v
		}
		points = append(points, point)
	}

	if len(points) > s.months {
		points = points[len(points)-s.months:]
	}

	return points, nil
}

// indexSpec describes one entry of the market-weather banner.
type indexSpec struct {
	name     string
	statCode string
	itemCode string
	isYield  bool
}

var weatherIndices = []indexSpec{
	{name: "코스피", statCode: ecos.StatMarketIndex, itemCode: ecos.ItemKospi},
	{name: "코스닥", statCode: ecos.StatMarketIndex, itemCode: ecos.ItemKosdaq},
	{name: "원/달러 환율", statCode: ecos.StatExchangeRate, itemCode: ecos.ItemUsdKrw},
	{name: "국고채 3년", statCode: ecos.StatBondYield, itemCode: ecos.ItemBond3Y, isYield: true},
}

// MarketWeather returns the latest value and day-over-day change of the four
// headline indices. Yields show point changes, the rest percent changes.
func (s *Service) MarketWeather(ctx context.Context, now time.Time) (*models.MarketWeather, error) {
	start := now.AddDate(0, 0, -14)

	indices := make([]models.MarketIndex, 0, len(weatherIndices))
	for _, spec := range weatherIndices {
		rows, err := s.client.StatisticSearch(ctx, spec.statCode, ecos.CycleDaily,
			start.Format("20060102"), now.Format("20060102"), spec.itemCode)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", spec.name, err)
		}
		if len(rows) < 2 {
			s.logger.Warn().
				Str("index", spec.name).
				Int("rows", len(rows)).
				Msg("Not enough observations for market weather entry")
			continue
		}

		last, err1 := strconv.ParseFloat(rows[len(rows)-1].DataValue, 64)
		prev, err2 := strconv.ParseFloat(rows[len(rows)-2].DataValue, 64)
		if err1 != nil || err2 != nil || prev == 0 {
			continue
		}

		entry := models.MarketIndex{Name: spec.name}
		if spec.isYield {
			entry.Value = fmt.Sprintf("%.2f%%", last)
			entry.Change = math.Round((last-prev)*100) / 100
		} else {
			entry.Value = formatComma(last)
			entry.Change = math.Round((last-prev)/prev*1000) / 10
		}
		indices = append(indices, entry)
	}

	return &models.MarketWeather{Indices: indices}, nil
}

// MacroInsight asks the AI for a short take on the rate-vs-index trend.
func (s *Service) MacroInsight(ctx context.Context, now time.Time) (*models.MacroInsight, error) {
	points, err := s.MacroPoints(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no macro observations available")
	}

	var series strings.Builder
	series.WriteString("기준금리 추이: ")
	for i, p := range points {
		if i > 0 {
			series.WriteString(", ")
		}
		series.WriteString(fmt.Sprintf("%s %.2f%%", p.Date, p.Rate))
	}
	series.WriteString("\n코스피 월평균: ")
	for i, p := range points {
		if i > 0 {
			series.WriteString(", ")
		}
		if p.Stock != nil {
			series.WriteString(fmt.Sprintf("%s %.2f", p.Date, *p.Stock))
		} else {
			series.WriteString(fmt.Sprintf("%s 데이터 없음", p.Date))
		}
	}

	prompt := fmt.Sprintf(`다음은 최근 한국 기준금리와 코스피 월평균 지수 데이터입니다.

%s

이 데이터를 바탕으로 금리와 주가의 관계를 초보 투자자가 이해할 수 있게 2문장 이내로 설명해주세요. 과장 없이 데이터에 근거해서만 답변하세요.`, series.String())

	resp, err := s.generator.GenerateContent(ctx, &llm.ContentRequest{
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate macro insight: %w", err)
	}

	return &models.MacroInsight{Insight: strings.TrimSpace(resp.Text)}, nil
}

// monthlyAverage collapses daily rows into per-month averages keyed by
// "YYYYMM".
func monthlyAverage(rows []ecos.StatisticRow) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, row := range rows {
		if len(row.Time) < 6 {
			continue
		}
		v, err := strconv.ParseFloat(row.DataValue, 64)
		if err != nil {
			continue
		}
		month := row.Time[:6]
		sums[month] += v
		counts[month]++
	}

	averages := make(map[string]float64, len(sums))
	for month, sum := range sums {
		averages[month] = sum / float64(counts[month])
	}
	return averages
}

// monthLabel converts "202401" to the chart label "2024.01".
func monthLabel(yyyymm string) string {
	if len(yyyymm) < 6 {
		return yyyymm
	}
	return yyyymm[:4] + "." + yyyymm[4:6]
}

// formatComma renders a value with thousands separators and two decimals,
// e.g. 2655.281 -> "2,655.28".
func formatComma(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	negative := strings.HasPrefix(intPart, "-")
	if negative {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + "." + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}
