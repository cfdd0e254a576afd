package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dream-alpha/area51/internal/models"
)

func TestMetadataFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		format  models.Format
		quality models.Quality
	}{
		{
			name:    "mp4 with quality token",
			url:     "https://cdn.example.com/videos/clip-720p.mp4",
			format:  models.FormatMP4,
			quality: models.Quality720,
		},
		{
			name:    "m3u8 manifest",
			url:     "https://cdn.example.com/hls/1080p/index.m3u8?token=abc",
			format:  models.FormatM3U8,
			quality: models.Quality1080,
		},
		{
			name:    "mp4 token without extension",
			url:     "https://cdn.example.com/get_file/mp4/clip",
			format:  models.FormatMP4,
			quality: models.QualityUnknown,
		},
		{
			name:    "no signals at all",
			url:     "https://cdn.example.com/media/abcdef",
			format:  models.FormatUnknown,
			quality: models.QualityUnknown,
		},
		{
			name:    "bogus quality token",
			url:     "https://cdn.example.com/clip-999p.mp4",
			format:  models.FormatMP4,
			quality: models.QualityUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := MetadataFromURL(tt.url)
			assert.Equal(t, tt.format, meta.Format)
			assert.Equal(t, tt.quality, meta.Quality)
		})
	}
}

func TestIsMasterPlaylist(t *testing.T) {
	assert.True(t, IsMasterPlaylist("https://cdn.example.com/multi=256x144:144p:,854x480:480p:/_TPL_.h264.mp4.m3u8"))
	assert.True(t, IsMasterPlaylist("https://cdn.example.com/hls/master.m3u8"))
	assert.True(t, IsMasterPlaylist("https://cdn.example.com/playlist.m3u8?master=1"))
	assert.False(t, IsMasterPlaylist("https://cdn.example.com/hls/480p/index.m3u8"))
	assert.False(t, IsMasterPlaylist("https://cdn.example.com/clip-720p.mp4"))
}
