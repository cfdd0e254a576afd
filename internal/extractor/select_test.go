package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dream-alpha/area51/internal/models"
)

func src(url string, q models.Quality) models.CandidateSource {
	return models.CandidateSource{URL: url, Quality: q}
}

func TestSelectBestSourceEmpty(t *testing.T) {
	assert.Nil(t, SelectBestSource(nil, models.Quality720, true, false))
	assert.Nil(t, SelectBestSource([]models.CandidateSource{}, models.QualityBest, true, false))
}

func TestSelectBestSourceExactMatch(t *testing.T) {
	candidates := []models.CandidateSource{
		src("https://cdn.example.com/360.mp4", models.Quality360),
		src("https://cdn.example.com/720.mp4", models.Quality720),
		src("https://cdn.example.com/1080.mp4", models.Quality1080),
	}

	got := SelectBestSource(candidates, models.Quality720, true, false)
	require.NotNil(t, got)
	assert.Equal(t, models.Quality720, got.Quality)
}

func TestSelectBestSourceNearestBelow(t *testing.T) {
	candidates := []models.CandidateSource{
		src("https://cdn.example.com/240.mp4", models.Quality240),
		src("https://cdn.example.com/480.mp4", models.Quality480),
		src("https://cdn.example.com/1080.mp4", models.Quality1080),
	}

	got := SelectBestSource(candidates, models.Quality720, true, false)
	require.NotNil(t, got)
	assert.Equal(t, models.Quality480, got.Quality,
		"closest resolution not exceeding the request")
}

func TestSelectBestSourceNextHigherWhenNothingBelow(t *testing.T) {
	candidates := []models.CandidateSource{
		src("https://cdn.example.com/720.mp4", models.Quality720),
		src("https://cdn.example.com/1080.mp4", models.Quality1080),
	}

	got := SelectBestSource(candidates, models.Quality360, true, false)
	require.NotNil(t, got)
	assert.Equal(t, models.Quality720, got.Quality)
}

func TestSelectBestSourceFixedRequestFallsBackToAdaptive(t *testing.T) {
	candidates := []models.CandidateSource{
		src("https://cdn.example.com/master.m3u8", models.QualityAdaptive),
	}

	got := SelectBestSource(candidates, models.Quality720, true, false)
	require.NotNil(t, got)
	assert.Equal(t, models.QualityAdaptive, got.Quality)
}

func TestSelectBestSourceAdaptiveRequested(t *testing.T) {
	candidates := []models.CandidateSource{
		src("https://cdn.example.com/2160.mp4", models.Quality2160),
		src("https://cdn.example.com/master.m3u8", models.QualityAdaptive),
	}

	got := SelectBestSource(candidates, models.QualityAdaptive, true, false)
	require.NotNil(t, got)
	assert.Equal(t, models.QualityAdaptive, got.Quality)
}

func TestSelectBestSourceBestPicksTopRank(t *testing.T) {
	candidates := []models.CandidateSource{
		src("https://cdn.example.com/480.mp4", models.Quality480),
		src("https://cdn.example.com/1080.mp4", models.Quality1080),
		src("https://cdn.example.com/720.mp4", models.Quality720),
	}

	got := SelectBestSource(candidates, models.QualityBest, true, false)
	require.NotNil(t, got)
	assert.Equal(t, models.Quality1080, got.Quality)
}

func TestSelectBestSourceCodecTieBreak(t *testing.T) {
	candidates := []models.CandidateSource{
		src("https://cdn.example.com/720-av1.mp4", models.Quality720),
		src("https://cdn.example.com/720-h264.mp4", models.Quality720),
	}

	avoidAV1 := SelectBestSource(candidates, models.Quality720, true, false)
	require.NotNil(t, avoidAV1)
	assert.Equal(t, "https://cdn.example.com/720-h264.mp4", avoidAV1.URL)

	preferAV1 := SelectBestSource(candidates, models.Quality720, true, true)
	require.NotNil(t, preferAV1)
	assert.Equal(t, "https://cdn.example.com/720-av1.mp4", preferAV1.URL)
}

func TestSelectBestSourceDeterministicAndNonMutating(t *testing.T) {
	candidates := []models.CandidateSource{
		src("https://cdn.example.com/a-720.mp4", models.Quality720),
		src("https://cdn.example.com/b-720.mp4", models.Quality720),
	}
	snapshot := make([]models.CandidateSource, len(candidates))
	copy(snapshot, candidates)

	first := SelectBestSource(candidates, models.QualityBest, false, false)
	second := SelectBestSource(candidates, models.QualityBest, false, false)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.URL, second.URL)
	assert.Equal(t, "https://cdn.example.com/a-720.mp4", first.URL, "ties keep input order")
	assert.Equal(t, snapshot, candidates, "input must not be mutated")
}
