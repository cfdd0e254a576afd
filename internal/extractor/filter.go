package extractor

import (
	"strings"

	"github.com/dream-alpha/area51/internal/models"
)

// mediaIndicators: at least one must appear in a candidate URL for it to
// count as playable media rather than page furniture.
var mediaIndicators = []string{".mp4", ".m3u8", "video", "stream"}

// skipMarkers flag thumbnails and short promotional clips.
var skipMarkers = []string{"thumb", "preview", "trailer", "sample", "promo", "teaser"}

// Filter drops malformed and non-media candidates and deduplicates by
// exact URL, first occurrence winning. Order is preserved and the
// operation is idempotent. An empty result is not an error; it signals
// "no playable source found".
func Filter(candidates []models.CandidateSource) []models.CandidateSource {
	seen := make(map[string]bool, len(candidates))
	filtered := make([]models.CandidateSource, 0, len(candidates))

	for _, c := range candidates {
		lower := strings.ToLower(c.URL)

		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			continue
		}
		if !containsAny(lower, mediaIndicators) {
			continue
		}
		if containsAny(lower, skipMarkers) {
			continue
		}
		if seen[c.URL] {
			continue
		}

		seen[c.URL] = true
		filtered = append(filtered, c)
	}

	return filtered
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
