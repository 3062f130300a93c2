// Package insight turns raw AI commentary text into the structured form
// the calendar panel renders, and caches raw responses per event so each
// event costs at most one generation per session.
package insight

import (
	"regexp"
	"strings"

	"github.com/ternarybob/finmate/internal/models"
)

// Section identifies one of the three commentary panels.
type Section string

const (
	SectionLong        Section = "long"
	SectionShort       Section = "short"
	SectionCheckpoints Section = "checkpoints"
)

// SectionMarker binds a literal header prefix in the generated text to a
// section. The marker set is configurable so the parser is not hard-coded
// to one upstream phrasing; order defines header precedence when chunks
// are classified.
type SectionMarker struct {
	Prefix  string
	Section Section
}

// DefaultMarkers matches the prompt format the insight generator emits.
func DefaultMarkers() []SectionMarker {
	return []SectionMarker{
		{Prefix: "🔴 상승 요인", Section: SectionLong},
		{Prefix: "🔵 하락 요인", Section: SectionShort},
		{Prefix: "🟢 시장 체크 포인트", Section: SectionCheckpoints},
	}
}

// Parser splits marker-sectioned commentary text into a ParsedInsight.
type Parser struct {
	markers  []SectionMarker
	headerRe *regexp.Regexp
}

// NewParser builds a parser for the given marker set. A nil or empty set
// falls back to DefaultMarkers.
func NewParser(markers []SectionMarker) *Parser {
	if len(markers) == 0 {
		markers = DefaultMarkers()
	}

	alternatives := make([]string, len(markers))
	for i, m := range markers {
		alternatives[i] = regexp.QuoteMeta(m.Prefix) + `[^\n]*`
	}

	return &Parser{
		markers:  markers,
		headerRe: regexp.MustCompile("(" + strings.Join(alternatives, "|") + ")"),
	}
}

var (
	blockStartRe  = regexp.MustCompile(`(?m)^\d+\)\s`)
	titlePrefixRe = regexp.MustCompile(`^\d+\)\s*`)
	dashPrefixRe  = regexp.MustCompile(`^-+\s*`)
)

// Parse converts raw commentary text into its sectioned form. Blank input
// yields nil. A marker missing from the text leaves that section empty;
// text before the first marker is discarded; a repeated marker overwrites
// the earlier occurrence. Parse never fails: malformed input degrades to
// partially empty output.
func (p *Parser) Parse(text string) *models.ParsedInsight {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}

	result := &models.ParsedInsight{
		Long:        []models.InsightBlock{},
		Short:       []models.InsightBlock{},
		Checkpoints: []string{},
	}

	headers := p.headerRe.FindAllStringIndex(clean, -1)
	for i, h := range headers {
		section, ok := p.classify(clean[h[0]:h[1]])
		if !ok {
			continue
		}

		bodyStart := h[1]
		bodyEnd := len(clean)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		body := strings.TrimSpace(clean[bodyStart:bodyEnd])
		if body == "" {
			continue
		}

		switch section {
		case SectionCheckpoints:
			result.Checkpoints = parseCheckpoints(body)
		case SectionLong:
			result.Long = parseBlocks(body)
		case SectionShort:
			result.Short = parseBlocks(body)
		}
	}

	return result
}

func (p *Parser) classify(header string) (Section, bool) {
	for _, m := range p.markers {
		if strings.HasPrefix(header, m.Prefix) {
			return m.Section, true
		}
	}
	return "", false
}

// parseCheckpoints keeps only dash-bulleted lines, marker stripped.
func parseCheckpoints(body string) []string {
	checkpoints := []string{}
	for _, line := range splitLines(body) {
		if strings.HasPrefix(line, "-") {
			checkpoints = append(checkpoints, stripDash(line))
		}
	}
	return checkpoints
}

// parseBlocks splits a section body at "N) " numbered headings. Each
// block's first line becomes the title; dash lines below it become the
// bullets. A block with no dash lines keeps its remaining non-empty
// lines verbatim so no content is silently dropped.
func parseBlocks(body string) []models.InsightBlock {
	starts := blockStartRe.FindAllStringIndex(body, -1)

	var segments []string
	if len(starts) == 0 {
		segments = []string{body}
	} else {
		if lead := strings.TrimSpace(body[:starts[0][0]]); lead != "" {
			segments = append(segments, lead)
		}
		for i, s := range starts {
			end := len(body)
			if i+1 < len(starts) {
				end = starts[i+1][0]
			}
			segments = append(segments, strings.TrimSpace(body[s[0]:end]))
		}
	}

	blocks := []models.InsightBlock{}
	for _, seg := range segments {
		lines := splitLines(seg)
		if len(lines) == 0 {
			continue
		}

		title := titlePrefixRe.ReplaceAllString(lines[0], "")

		var bullets, fallback []string
		for _, line := range lines[1:] {
			if strings.HasPrefix(line, "-") {
				bullets = append(bullets, stripDash(line))
			} else {
				fallback = append(fallback, line)
			}
		}
		if len(bullets) == 0 {
			bullets = fallback
		}
		if bullets == nil {
			bullets = []string{}
		}

		blocks = append(blocks, models.InsightBlock{Title: strings.TrimSpace(title), Bullets: bullets})
	}
	return blocks
}

func stripDash(line string) string {
	return dashPrefixRe.ReplaceAllString(line, "")
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
