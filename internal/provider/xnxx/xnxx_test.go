package xnxx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dream-alpha/area51/internal/extractor"
	"github.com/dream-alpha/area51/internal/models"
)

func newTestClient(srv *httptest.Server) *Client {
	c := New()
	c.baseURL = srv.URL
	c.client = srv.Client()
	return c
}

func TestMatches(t *testing.T) {
	c := New()
	assert.True(t, c.Matches("https://www.xnxx.com/video-abc123/some_title"))
	assert.True(t, c.Matches("https://XNXX.com/video-abc123/x"))
	assert.False(t, c.Matches("https://www.xvideos.com/video123"))
}

func TestExtractCategoryID(t *testing.T) {
	assert.Equal(t, "amateur", extractCategoryID("/search/amateur"))
	assert.Equal(t, "milf-19", extractCategoryID("https://www.xnxx.com/c/milf-19"))
	assert.Equal(t, "", extractCategoryID("/random/path"))
}

const categoriesPage = `<html><body><script>
var cats = [
	{"label":"Amateur","url":"\/search\/amateur","count":1,"nbvids":54321,"x":1},
	{"label":"Anal","url":"\/search\/anal","count":1,"nbvids":40000,"x":1},
	{"label":"More","url":"\/more","count":1,"nbvids":99999,"x":1},
	{"label":"Tiny","url":"\/search\/tiny","count":1,"nbvids":500,"x":1},
	{"label":"Gay","url":"\/search\/gay","count":1,"nbvids":80000,"x":1}
];
</script></body></html>`

func TestCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(categoriesPage))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	categories, err := c.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, "Amateur", categories[0].Name)
	assert.Equal(t, srv.URL+"/search/amateur", categories[0].URL)
	assert.Equal(t, 54321, categories[0].VideoCount)
	assert.Equal(t, "amateur", categories[0].CategoryID)
	assert.Equal(t, "xnxx", categories[0].Site)

	assert.Equal(t, "Anal", categories[1].Name, "categories sorted alphabetically")
}

const listingPage = `<html><body><div class="mozaique">
	<div class="thumb-block">
		<div class="thumb"><a href="/video-1/a"><img data-src="//img.example.com/1.jpg"></a></div>
		<div class="thumb-under">
			<p><a href="/video-1/a" title="First Video">First Video</a></p>
			<p class="metadata"><span class="right">1.2M views</span></p>
		</div>
	</div>
	<div class="thumb-block">
		<div class="thumb"><a href="/video-2/b"><img src="https://img.example.com/2.jpg"></a></div>
		<div class="thumb-under">
			<p><a href="/video-2/b">Second Video</a></p>
		</div>
	</div>
</div></body></html>`

func TestMediaItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	videos, err := c.MediaItems(context.Background(), models.Category{URL: srv.URL + "/search/amateur"}, 1, 25)
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, "First Video", videos[0].Title)
	assert.Equal(t, srv.URL+"/video-1/a", videos[0].PageURL)
	assert.Equal(t, "https://img.example.com/1.jpg", videos[0].Thumbnail)
	assert.Equal(t, "1.2M", videos[0].Views)

	assert.Equal(t, "Second Video", videos[1].Title, "falls back to link text when title attr is missing")
}

func TestMediaItemsHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	videos, err := c.MediaItems(context.Background(), models.Category{URL: srv.URL + "/search/amateur"}, 1, 1)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestStrategyTableSetters(t *testing.T) {
	body := `
		html5player.setVideoUrlLow('https://cdn.example.com/low.mp4');
		html5player.setVideoUrlHigh('https://cdn.example.com/high.mp4');
		html5player.setVideoHLS('https://cdn.example.com/hls.m3u8');
	`
	page := extractor.NewPage("https://www.xnxx.com/video-1/a", body)
	candidates := extractor.Filter(engine.Collect(page))
	require.Len(t, candidates, 3)

	byURL := map[string]models.Quality{}
	for _, c := range candidates {
		byURL[c.URL] = c.Quality
	}
	assert.Equal(t, models.Quality360, byURL["https://cdn.example.com/low.mp4"])
	assert.Equal(t, models.Quality720, byURL["https://cdn.example.com/high.mp4"])
	assert.Equal(t, models.QualityAdaptive, byURL["https://cdn.example.com/hls.m3u8"])
}

func TestStrategyTableJSONLDFallback(t *testing.T) {
	body := `<html><head><script type="application/ld+json">
		{"@type":"VideoObject","contentUrl":"https://cdn.example.com/clip.mp4"}
	</script></head><body></body></html>`
	page := extractor.NewPage("https://www.xnxx.com/video-1/a", body)

	candidates := extractor.Filter(engine.Collect(page))
	require.Len(t, candidates, 1)
	assert.Equal(t, models.Quality480, candidates[0].Quality)
}
