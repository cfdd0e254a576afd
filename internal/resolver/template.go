package resolver

import (
	"regexp"
	"strings"

	"github.com/dream-alpha/area51/internal/models"
	"github.com/dream-alpha/area51/internal/util"
)

const templatePlaceholder = "_TPL_"

var (
	multiParamRe  = regexp.MustCompile(`(?i)multi=([^/&]+)`)
	qualityPairRe = regexp.MustCompile(`(\d+x\d+):(\d+p)`)
)

// IsTemplateURL reports whether a URL still carries an un-substituted
// quality placeholder. The placeholder is matched case-sensitively, the
// same way ResolveTemplate substitutes it.
func IsTemplateURL(rawURL string) bool {
	return strings.Contains(rawURL, templatePlaceholder)
}

// templateQualities parses the available quality labels out of a tokenized
// CDN URL's multi= parameter, e.g.
// multi=256x144:144p:,854x480:480p:,1280x720:720p:.
func templateQualities(rawURL string) []models.Quality {
	m := multiParamRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil
	}

	var qualities []models.Quality
	for _, pair := range qualityPairRe.FindAllStringSubmatch(m[1], -1) {
		if q := models.ParseQuality(pair[2]); q != models.QualityUnknown {
			qualities = append(qualities, q)
		}
	}
	return qualities
}

// ResolveTemplate substitutes the quality placeholder in a tokenized URL
// with the ladder entry best matching the requested quality: exact when
// available, else the closest not exceeding the request, else the next
// higher, else the top of the ladder. The input comes back unchanged when
// it is not a template or its ladder cannot be parsed.
func ResolveTemplate(rawURL string, requested models.Quality) string {
	if !IsTemplateURL(rawURL) {
		return rawURL
	}

	ladder := templateQualities(rawURL)
	if len(ladder) == 0 {
		util.Debugf("template URL without parsable ladder: %s", rawURL)
		return rawURL
	}

	chosen := pickLadderQuality(ladder, requested)
	resolved := strings.Replace(rawURL, templatePlaceholder, string(chosen), 1)
	util.Debugf("template resolved to %s", chosen)
	return resolved
}

func pickLadderQuality(ladder []models.Quality, requested models.Quality) models.Quality {
	if !requested.IsFixed() {
		return highestOf(ladder)
	}

	want := requested.Height()
	below, above := models.QualityUnknown, models.QualityUnknown
	for _, q := range ladder {
		switch h := q.Height(); {
		case h == want:
			return q
		case h < want && h > below.Height():
			below = q
		case h > want && (above == models.QualityUnknown || h < above.Height()):
			above = q
		}
	}
	if below != models.QualityUnknown {
		return below
	}
	if above != models.QualityUnknown {
		return above
	}
	return highestOf(ladder)
}

func highestOf(ladder []models.Quality) models.Quality {
	best := ladder[0]
	for _, q := range ladder[1:] {
		if q.Height() > best.Height() {
			best = q
		}
	}
	return best
}
