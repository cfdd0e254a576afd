package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dream-alpha/area51/internal/models"
)

func TestPatternStrategy(t *testing.T) {
	body := `
		html5player.setVideoUrlLow('https://cdn.example.com/low.mp4');
		html5player.setVideoUrlHigh('https://cdn.example.com/high.mp4');
	`
	page := NewPage("https://www.example.com/video/1", body)

	s := Pattern("setVideoUrlHigh", `html5player\.setVideoUrlHigh\('([^']+)'\)`, models.Quality720)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/high.mp4", got[0].URL)
	assert.Equal(t, models.Quality720, got[0].Quality)
	assert.Equal(t, models.FormatMP4, got[0].Format)
}

func TestPatternStrategyURLTokenBeatsHint(t *testing.T) {
	body := `video_url: 'https://cdn.example.com/clip-1080p.mp4'`
	page := NewPage("https://www.example.com/video/1", body)

	s := Pattern("video_url", `video_url:\s*'([^']+)'`, models.Quality480)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Quality1080, got[0].Quality,
		"a resolution token in the URL overrides the strategy hint")
}

func TestPatternStrategyFirstOnly(t *testing.T) {
	body := `
		setVideoUrl('https://cdn.example.com/a.mp4');
		setVideoUrl('https://cdn.example.com/b.mp4');
	`
	page := NewPage("https://www.example.com/video/1", body)

	s := PatternFirst("setVideoUrl", `setVideoUrl\('([^']+)'\)`, models.Quality480)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/a.mp4", got[0].URL)
}

func TestPatternStrategySkipsNonURLMatches(t *testing.T) {
	body := `setVideoUrl('not-a-url');`
	page := NewPage("https://www.example.com/video/1", body)

	s := Pattern("setVideoUrl", `setVideoUrl\('([^']+)'\)`, models.Quality480)
	got, err := s.Collect(page)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPairPatternStrategy(t *testing.T) {
	body := `"sources":[{"url":"https:\/\/cdn.example.com\/clip-lo.mp4","label":"480p"},` +
		`{"url":"https:\/\/cdn.example.com\/multi=854x480:480p:,1280x720:720p:\/_TPL_.h264.mp4.m3u8","label":"720p"}]`
	page := NewPage("https://www.example.com/video/1", body)

	s := PairPattern("json-url-label", `"url":"([^"]+)"[^}]*"label":"([^"]+)"`)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "https://cdn.example.com/clip-lo.mp4", got[0].URL)
	assert.Equal(t, models.Quality480, got[0].Quality)

	assert.Equal(t, models.QualityAdaptive, got[1].Quality,
		"a master manifest stays adaptive no matter how the page labels it")
}

func TestPairPatternStrategyLabeledManifestKeepsLabel(t *testing.T) {
	body := `"sources":[{"url":"https:\/\/cdn.example.com\/hls\/low\/index.m3u8","label":"240p"},` +
		`{"url":"https:\/\/cdn.example.com\/clip-hd.mp4","label":"720p"}]`
	page := NewPage("https://www.example.com/video/1", body)

	s := PairPattern("json-url-label", `"url":"([^"]+)"[^}]*"label":"([^"]+)"`)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.Quality240, got[0].Quality,
		"a single-rendition manifest keeps its page label")
	assert.Equal(t, models.Quality720, got[1].Quality)

	best := SelectBestSource(got, models.QualityBest, false, false)
	require.NotNil(t, best)
	assert.Equal(t, "https://cdn.example.com/clip-hd.mp4", best.URL)
}

func TestJSONLDStrategy(t *testing.T) {
	body := `<html><head>
		<script type="application/ld+json">
		{"@type":"VideoObject","contentUrl":"https://cdn.example.com/clip.mp4","name":"x"}
		</script>
	</head><body></body></html>`
	page := NewPage("https://www.example.com/video/1", body)

	s := JSONLD(models.Quality480)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", got[0].URL)
	assert.Equal(t, models.Quality480, got[0].Quality)
}

func TestPlayerConfigStrategyStrictJSON(t *testing.T) {
	body := `window.initPlayer({"sources":[{"url":"https://cdn.example.com/clip-720p.mp4","label":"720p"}]})`
	page := NewPage("https://www.example.com/video/1", body)

	s := PlayerConfig("player-init", `(?s)window\.initPlayer\s*\(\s*(\{.+?\})\s*\)`)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/clip-720p.mp4", got[0].URL)
	assert.Equal(t, models.Quality720, got[0].Quality)
}

func TestPlayerConfigStrategyRepairedJSON(t *testing.T) {
	body := `playerInitConfig = {sources: [{url: 'https://cdn.example.com/clip.mp4', label: '480p'}]};`
	page := NewPage("https://www.example.com/video/1", body)

	s := PlayerConfig("player-init", `(?s)playerInitConfig\s*=\s*(\{.+?\});`)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", got[0].URL)
	assert.Equal(t, models.Quality480, got[0].Quality)
}

func TestPlayerConfigStrategyBareArray(t *testing.T) {
	body := `sources: [{"file":"https://cdn.example.com/clip.m3u8","quality":"hls"}]`
	page := NewPage("https://www.example.com/video/1", body)

	s := PlayerConfig("sources", `(?s)sources\s*:\s*(\[.+?\])`)
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.QualityAdaptive, got[0].Quality)
	assert.Equal(t, models.FormatM3U8, got[0].Format)
}

func TestDOMSourceStrategy(t *testing.T) {
	body := `<html><body><video>
		<source src="https://cdn.example.com/clip.mp4" label="720p">
		<source src="https://cdn.example.com/clip.m3u8" label="HLS">
	</video></body></html>`
	page := NewPage("https://www.example.com/video/1", body)

	s := DOMSources()
	got, err := s.Collect(page)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.Quality720, got[0].Quality)
	assert.Equal(t, models.QualityAdaptive, got[1].Quality)
}

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }
func (failingStrategy) Collect(*Page) ([]models.CandidateSource, error) {
	return nil, errors.New("boom")
}

func TestEngineSwallowsStrategyFailures(t *testing.T) {
	body := `setVideoUrl('https://cdn.example.com/clip.mp4');`
	page := NewPage("https://www.example.com/video/1", body)

	engine := NewEngine(
		failingStrategy{},
		Pattern("setVideoUrl", `setVideoUrl\('([^']+)'\)`, models.Quality480),
	)

	got := engine.Collect(page)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", got[0].URL)
}
