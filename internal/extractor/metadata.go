// Package extractor implements the shared stream-source extraction engine:
// candidate collection strategies, URL metadata inference, filtering and
// quality selection. Providers describe their site-specific patterns as
// strategy tables and the engine does the rest.
package extractor

import (
	"regexp"
	"strings"

	"github.com/dream-alpha/area51/internal/models"
)

// Metadata is what can be inferred about a media URL from the URL alone.
type Metadata struct {
	Quality models.Quality
	Format  models.Format
}

var qualityTokenRe = regexp.MustCompile(`(?i)(\d{1,4})p`)

// MetadataFromURL infers container format and quality label from the shape
// of a candidate media URL. Absent signals come back empty, never as errors;
// the caller supplies fallbacks.
func MetadataFromURL(rawURL string) Metadata {
	lower := strings.ToLower(rawURL)

	meta := Metadata{Format: models.FormatUnknown}
	switch {
	case strings.Contains(lower, ".m3u8"):
		meta.Format = models.FormatM3U8
	case strings.Contains(lower, ".mp4") || strings.Contains(lower, "mp4"):
		meta.Format = models.FormatMP4
	}

	if m := qualityTokenRe.FindStringSubmatch(lower); m != nil {
		meta.Quality = models.ParseQuality(m[1] + "p")
	}

	return meta
}

// master playlist markers: a manifest URL carrying one of these represents
// the full quality ladder, not a single rendition.
var masterMarkers = []string{"/multi=", "/_tpl_", "/master.m3u8", "master="}

// IsMasterPlaylist reports whether a URL looks like a multi-quality master
// manifest or a quality-template URL.
func IsMasterPlaylist(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, marker := range masterMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
