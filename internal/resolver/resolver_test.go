package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dream-alpha/area51/internal/extractor"
	"github.com/dream-alpha/area51/internal/models"
)

type fakeSession struct {
	body    string
	referer string
	origin  string
}

func (f *fakeSession) FetchWithFallback(_ context.Context, _, _ string) string { return f.body }
func (f *fakeSession) SetReferer(referer string)                               { f.referer = referer }
func (f *fakeSession) SetOrigin(origin string)                                 { f.origin = origin }

func (f *fakeSession) PlayerHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "test-agent",
		"Referer":    f.referer,
	}
}

func (f *fakeSession) Ref() *models.AuthSessionRef {
	return &models.AuthSessionRef{UserAgent: "test-agent"}
}

func testEngine() *extractor.Engine {
	return extractor.NewEngine(
		extractor.Pattern("setVideoUrl", `setVideoUrl\('([^']+)'\)`, models.Quality480),
		extractor.Pattern("hls", `setVideoHLS\('([^']+)'\)`, models.QualityAdaptive),
	)
}

func TestResolveEmptyFetchYieldsNil(t *testing.T) {
	r := New(testEngine(), "https://www.example.com/", "https://www.example.com")
	sess := &fakeSession{body: ""}

	result := r.Resolve(context.Background(), sess, "https://www.example.com/video/1", models.ResolveOptions{})
	assert.Nil(t, result)
}

func TestResolveNoCandidatesYieldsNil(t *testing.T) {
	r := New(testEngine(), "https://www.example.com/", "https://www.example.com")
	sess := &fakeSession{body: "<html><body>nothing to see</body></html>"}

	result := r.Resolve(context.Background(), sess, "https://www.example.com/video/1", models.ResolveOptions{})
	assert.Nil(t, result)
}

func TestResolveProgressive(t *testing.T) {
	r := New(testEngine(), "https://www.example.com/", "https://www.example.com")
	sess := &fakeSession{body: `setVideoUrl('https://cdn.example.com/clip-720p.mp4');`}

	result := r.Resolve(context.Background(), sess, "https://www.example.com/video/1", models.ResolveOptions{
		Quality: models.Quality720,
	})

	require.NotNil(t, result)
	assert.Equal(t, "https://cdn.example.com/clip-720p.mp4", result.ResolvedURL)
	assert.Equal(t, models.Quality720, result.Quality)
	assert.Equal(t, models.RecorderProgressive, result.RecorderKind)
	assert.Equal(t, "https://www.example.com/", result.TransportHeaders["Referer"],
		"resolver pins its referer on the session before fetching")
	require.NotNil(t, result.Session)
	assert.Equal(t, "test-agent", result.Session.UserAgent)
}

func TestResolveSegmented(t *testing.T) {
	r := New(testEngine(), "https://www.example.com/", "https://www.example.com")
	sess := &fakeSession{body: `setVideoHLS('https://cdn.example.com/hls/480p/index.m3u8');`}

	result := r.Resolve(context.Background(), sess, "https://www.example.com/video/1", models.ResolveOptions{})

	require.NotNil(t, result)
	assert.Equal(t, models.RecorderSegmented, result.RecorderKind)
}

func TestResolveExpandsTemplate(t *testing.T) {
	tpl := `https://cdn.example.com/multi=854x480:480p:,1280x720:720p:/_TPL_.h264.mp4.m3u8`
	r := New(testEngine(), "https://www.example.com/", "https://www.example.com")
	sess := &fakeSession{body: `setVideoHLS('` + tpl + `');`}

	result := r.Resolve(context.Background(), sess, "https://www.example.com/video/1", models.ResolveOptions{
		Quality: models.Quality480,
	})

	require.NotNil(t, result)
	assert.Contains(t, result.ResolvedURL, "/480p.h264.mp4.m3u8")
	assert.NotContains(t, result.ResolvedURL, "_TPL_")
	assert.Equal(t, models.RecorderSegmented, result.RecorderKind)
	assert.Equal(t, models.QualityAdaptive, result.Quality,
		"the selected candidate was the master; expansion picks the rendition")
}
