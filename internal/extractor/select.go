package extractor

import (
	"github.com/dream-alpha/area51/internal/models"
)

// SelectBestSource picks exactly one candidate under the requested quality
// and codec preference, or nil when the list is empty. The function is a
// pure selection over (candidates, requested, preferAV1): deterministic,
// stable with respect to input order, and it never mutates the input.
//
// Policy for a specific requested resolution: exact tag match first, else
// the closest resolution not exceeding the request, else the next higher
// resolution, else an adaptive manifest when no fixed rendition exists.
func SelectBestSource(candidates []models.CandidateSource, requested models.Quality, codecAware, preferAV1 bool) *models.CandidateSource {
	if len(candidates) == 0 {
		return nil
	}

	var pool []models.CandidateSource

	switch {
	case requested == models.QualityAdaptive:
		pool = withQuality(candidates, models.QualityAdaptive)
		if pool == nil {
			pool = topRank(candidates)
		}
	case requested.IsFixed():
		pool = fixedQualityPool(candidates, requested)
		if pool == nil {
			pool = withQuality(candidates, models.QualityAdaptive)
		}
		if pool == nil {
			pool = topRank(candidates)
		}
	default: // "best" or unset
		pool = topRank(candidates)
	}

	winner := pool[0]
	if codecAware && len(pool) > 1 {
		winner = pickByCodec(pool, preferAV1)
	}

	chosen := winner
	return &chosen
}

// fixedQualityPool implements step 3 of the selection policy for a
// concrete requested resolution. Nil means no fixed-resolution candidate
// exists at all.
func fixedQualityPool(candidates []models.CandidateSource, requested models.Quality) []models.CandidateSource {
	if exact := withQuality(candidates, requested); exact != nil {
		return exact
	}

	want := requested.Height()

	// Closest fixed resolution not exceeding the request.
	bestBelow := 0
	for _, c := range candidates {
		if h := c.Quality.Height(); h > 0 && h <= want && h > bestBelow {
			bestBelow = h
		}
	}
	if bestBelow > 0 {
		return withHeight(candidates, bestBelow)
	}

	// Nothing at or below the request: next higher fixed resolution.
	bestAbove := 0
	for _, c := range candidates {
		if h := c.Quality.Height(); h > want && (bestAbove == 0 || h < bestAbove) {
			bestAbove = h
		}
	}
	if bestAbove > 0 {
		return withHeight(candidates, bestAbove)
	}

	return nil
}

// topRank returns all candidates sharing the highest quality rank, in
// first-seen order.
func topRank(candidates []models.CandidateSource) []models.CandidateSource {
	best := 0
	for _, c := range candidates {
		if r := c.Quality.Rank(); r > best {
			best = r
		}
	}
	var pool []models.CandidateSource
	for _, c := range candidates {
		if c.Quality.Rank() == best {
			pool = append(pool, c)
		}
	}
	return pool
}

func withQuality(candidates []models.CandidateSource, q models.Quality) []models.CandidateSource {
	var pool []models.CandidateSource
	for _, c := range candidates {
		if c.Quality == q {
			pool = append(pool, c)
		}
	}
	return pool
}

func withHeight(candidates []models.CandidateSource, height int) []models.CandidateSource {
	var pool []models.CandidateSource
	for _, c := range candidates {
		if c.Quality.Height() == height {
			pool = append(pool, c)
		}
	}
	return pool
}

// pickByCodec breaks a quality tie: AV1 when the caller prefers it,
// otherwise a non-AV1 rendition for broader playback compatibility. Ties
// remaining after the codec preference keep first-seen order.
func pickByCodec(pool []models.CandidateSource, preferAV1 bool) models.CandidateSource {
	for _, c := range pool {
		if c.IsAV1() == preferAV1 {
			return c
		}
	}
	return pool[0]
}
