package extractor

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dream-alpha/area51/internal/models"
	"github.com/dream-alpha/area51/internal/util"
)

// Strategy is one extraction method run against a fetched page. Strategies
// yield zero or more raw candidates; an error means the strategy failed but
// never aborts the resolve call.
type Strategy interface {
	Name() string
	Collect(p *Page) ([]models.CandidateSource, error)
}

// Engine runs a fixed, ordered battery of strategies against a page.
// Per-strategy failures are swallowed after logging so that one bad
// strategy cannot suppress candidates from the others.
type Engine struct {
	strategies []Strategy
}

// NewEngine builds an engine from an ordered strategy list.
func NewEngine(strategies ...Strategy) *Engine {
	return &Engine{strategies: strategies}
}

// Collect runs every strategy in order and concatenates their candidates.
// The result is raw: callers pass it through Filter before selection.
func (e *Engine) Collect(p *Page) []models.CandidateSource {
	var candidates []models.CandidateSource
	for _, s := range e.strategies {
		found, err := s.Collect(p)
		if err != nil {
			util.Debugf("strategy %s failed: %v", s.Name(), err)
			continue
		}
		if len(found) > 0 {
			util.Debugf("strategy %s found %d candidates", s.Name(), len(found))
		}
		candidates = append(candidates, found...)
	}
	return candidates
}

// newCandidate normalizes a raw extracted URL, attaches URL-derived
// metadata, and applies the quality fallback chain: URL token first, then
// the strategy default, then adaptive for manifests / 480p for the rest.
func newCandidate(p *Page, raw string, fallback models.Quality) (models.CandidateSource, bool) {
	return buildCandidate(p, raw, models.QualityUnknown, fallback)
}

// newLabeledCandidate is newCandidate for strategies that carry an explicit
// page label. The label takes precedence over URL tokens; a labeled
// single-rendition manifest keeps its label rather than falling back to
// adaptive.
func newLabeledCandidate(p *Page, raw, label string) (models.CandidateSource, bool) {
	return buildCandidate(p, raw, models.ParseQuality(label), models.QualityUnknown)
}

func buildCandidate(p *Page, raw string, labeled, fallback models.Quality) (models.CandidateSource, bool) {
	clean := p.CleanURL(raw)
	if clean == "" {
		return models.CandidateSource{}, false
	}

	meta := MetadataFromURL(clean)

	quality := labeled
	if quality == models.QualityUnknown {
		quality = meta.Quality
	}
	if quality == models.QualityUnknown {
		quality = fallback
	}
	if quality == models.QualityUnknown {
		if meta.Format == models.FormatM3U8 {
			quality = models.QualityAdaptive
		} else {
			quality = models.Quality480
		}
	}

	// A master manifest carries the whole ladder; per-rendition labels and
	// URL tokens are misleading there.
	if meta.Format == models.FormatM3U8 && IsMasterPlaylist(clean) {
		quality = models.QualityAdaptive
	}

	return models.CandidateSource{
		URL:     clean,
		Format:  meta.Format,
		Quality: quality,
	}, true
}

// PatternStrategy scans the raw page text with a single regex whose first
// capture group is the media URL. The quality hint applies when the URL
// itself carries no resolution token.
type PatternStrategy struct {
	Label     string
	Pattern   *regexp.Regexp
	Quality   models.Quality
	FirstOnly bool
}

// Pattern builds a PatternStrategy from a regex source string.
func Pattern(label, expr string, quality models.Quality) *PatternStrategy {
	return &PatternStrategy{Label: label, Pattern: regexp.MustCompile(expr), Quality: quality}
}

// PatternFirst is Pattern limited to the first match on the page.
func PatternFirst(label, expr string, quality models.Quality) *PatternStrategy {
	s := Pattern(label, expr, quality)
	s.FirstOnly = true
	return s
}

func (s *PatternStrategy) Name() string { return s.Label }

func (s *PatternStrategy) Collect(p *Page) ([]models.CandidateSource, error) {
	matches := s.Pattern.FindAllStringSubmatch(p.Body, -1)
	var candidates []models.CandidateSource
	for _, m := range matches {
		if len(m) < 2 || m[1] == "" {
			continue
		}
		raw := m[1]
		if !strings.Contains(raw, "http") && !strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, "/") {
			continue
		}
		if c, ok := newCandidate(p, raw, s.Quality); ok {
			candidates = append(candidates, c)
		}
		if s.FirstOnly {
			break
		}
	}
	return candidates, nil
}

// PairPatternStrategy scans for url/label pairs in inline JSON, the first
// capture group being the URL and the second its quality label.
type PairPatternStrategy struct {
	Label   string
	Pattern *regexp.Regexp
}

// PairPattern builds a PairPatternStrategy from a regex source string.
func PairPattern(label, expr string) *PairPatternStrategy {
	return &PairPatternStrategy{Label: label, Pattern: regexp.MustCompile(expr)}
}

func (s *PairPatternStrategy) Name() string { return s.Label }

func (s *PairPatternStrategy) Collect(p *Page) ([]models.CandidateSource, error) {
	matches := s.Pattern.FindAllStringSubmatch(p.Body, -1)
	var candidates []models.CandidateSource
	for _, m := range matches {
		if len(m) < 3 || m[1] == "" {
			continue
		}
		c, ok := newLabeledCandidate(p, m[1], m[2])
		if !ok {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// JSONLDStrategy reads JSON-LD structured data blocks and extracts their
// contentUrl, the way most of these sites expose the default rendition.
type JSONLDStrategy struct {
	Quality models.Quality
}

// JSONLD builds a JSONLDStrategy with the given fallback quality.
func JSONLD(quality models.Quality) *JSONLDStrategy {
	return &JSONLDStrategy{Quality: quality}
}

func (s *JSONLDStrategy) Name() string { return "json-ld" }

func (s *JSONLDStrategy) Collect(p *Page) ([]models.CandidateSource, error) {
	doc, err := p.Document()
	if err != nil {
		return nil, err
	}

	var candidates []models.CandidateSource
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var data struct {
			ContentURL string `json:"contentUrl"`
		}
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return
		}
		if data.ContentURL == "" {
			return
		}
		if c, ok := newCandidate(p, data.ContentURL, s.Quality); ok {
			candidates = append(candidates, c)
		}
	})
	return candidates, nil
}

// playerSource is the shape of one entry in an inline player config.
type playerSource struct {
	URL     string `json:"url"`
	File    string `json:"file"`
	Label   string `json:"label"`
	Quality string `json:"quality"`
}

func (ps playerSource) mediaURL() string {
	if ps.URL != "" {
		return ps.URL
	}
	return ps.File
}

func (ps playerSource) qualityLabel() string {
	if ps.Quality != "" {
		return ps.Quality
	}
	return ps.Label
}

// PlayerConfigStrategy matches inline player initialization blocks and
// parses the embedded sources list as JSON, falling back to permissive
// repair (quoting bare keys, normalizing quote characters) when strict
// parsing fails. The first pattern that yields sources wins.
type PlayerConfigStrategy struct {
	Label    string
	Patterns []*regexp.Regexp
}

// PlayerConfig builds a PlayerConfigStrategy from regex source strings,
// each with a single capture group around the JSON object or array.
func PlayerConfig(label string, exprs ...string) *PlayerConfigStrategy {
	s := &PlayerConfigStrategy{Label: label}
	for _, expr := range exprs {
		s.Patterns = append(s.Patterns, regexp.MustCompile(expr))
	}
	return s
}

func (s *PlayerConfigStrategy) Name() string { return s.Label }

func (s *PlayerConfigStrategy) Collect(p *Page) ([]models.CandidateSource, error) {
	for _, pattern := range s.Patterns {
		m := pattern.FindStringSubmatch(p.Body)
		if m == nil || len(m) < 2 {
			continue
		}

		sources, err := parsePlayerSources(m[1])
		if err != nil {
			util.Debugf("player config parse failed for %s: %v", s.Label, err)
			continue
		}

		var candidates []models.CandidateSource
		for _, src := range sources {
			raw := src.mediaURL()
			if raw == "" {
				continue
			}
			c, ok := newLabeledCandidate(p, raw, src.qualityLabel())
			if !ok {
				continue
			}
			candidates = append(candidates, c)
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	return nil, nil
}

// parsePlayerSources decodes a player config fragment into its sources
// list. The fragment may be the sources array itself or an object with a
// "sources" field.
func parsePlayerSources(fragment string) ([]playerSource, error) {
	decode := func(data string) ([]playerSource, error) {
		data = strings.TrimSpace(data)
		if strings.HasPrefix(data, "[") {
			var list []playerSource
			if err := json.Unmarshal([]byte(data), &list); err != nil {
				return nil, err
			}
			return list, nil
		}
		var obj struct {
			Sources []playerSource `json:"sources"`
		}
		if err := json.Unmarshal([]byte(data), &obj); err != nil {
			return nil, err
		}
		return obj.Sources, nil
	}

	sources, err := decode(fragment)
	if err == nil {
		return sources, nil
	}
	return decode(repairJSON(fragment))
}

var bareKeyRe = regexp.MustCompile(`([{,]\s*)(\w+)\s*:`)

// repairJSON fixes the two most common defects of inline player JSON:
// unquoted keys and single-quoted strings.
func repairJSON(s string) string {
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	return strings.ReplaceAll(s, "'", `"`)
}

// DOMSourceStrategy walks native <video><source> elements. Quality comes
// from the label or data-res attribute when present; an HLS label maps to
// adaptive.
type DOMSourceStrategy struct{}

// DOMSources builds a DOMSourceStrategy.
func DOMSources() *DOMSourceStrategy { return &DOMSourceStrategy{} }

func (s *DOMSourceStrategy) Name() string { return "dom-sources" }

func (s *DOMSourceStrategy) Collect(p *Page) ([]models.CandidateSource, error) {
	doc, err := p.Document()
	if err != nil {
		return nil, err
	}

	var candidates []models.CandidateSource
	doc.Find("video source").Each(func(_ int, sel *goquery.Selection) {
		src, exists := sel.Attr("src")
		if !exists || src == "" {
			return
		}

		label, _ := sel.Attr("label")
		if label == "" {
			label, _ = sel.Attr("data-res")
		}
		if strings.Contains(strings.ToUpper(label), "HLS") {
			label = string(models.QualityAdaptive)
		}

		c, ok := newLabeledCandidate(p, src, label)
		if !ok {
			return
		}
		candidates = append(candidates, c)
	})
	return candidates, nil
}
