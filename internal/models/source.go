package models

import "strings"

// Format is the container format inferred for a candidate URL.
type Format string

const (
	FormatMP4     Format = "mp4"
	FormatM3U8    Format = "m3u8"
	FormatUnknown Format = "unknown"
)

// CandidateSource is one extracted, not-yet-chosen playable URL with its
// inferred quality and container format. Candidates live only for the
// duration of a single resolve call.
type CandidateSource struct {
	URL     string
	Format  Format
	Quality Quality
	Codec   string
}

// IsAV1 reports whether the candidate advertises the AV1 codec, either in
// its codec metadata or in the URL itself.
func (c CandidateSource) IsAV1() bool {
	if strings.EqualFold(c.Codec, "av1") || strings.EqualFold(c.Codec, "av01") {
		return true
	}
	u := strings.ToLower(c.URL)
	return strings.Contains(u, "av1") || strings.Contains(u, "av01")
}

// RecorderKind classifies how a resolved URL must be consumed.
type RecorderKind string

const (
	// RecorderProgressive is a single progressive file download.
	RecorderProgressive RecorderKind = "progressive"
	// RecorderSegmented is a segmented manifest (HLS).
	RecorderSegmented RecorderKind = "segmented"
	// RecorderTemplated is a tokenized URL that still needs template
	// substitution before use.
	RecorderTemplated RecorderKind = "templated"
)

// ResolutionResult is the outcome of resolving a video page URL. Ownership
// passes to the caller; the result holds no reference back to the page or
// the provider that produced it.
type ResolutionResult struct {
	ResolvedURL      string
	Quality          Quality
	RecorderKind     RecorderKind
	TransportHeaders map[string]string
	Session          *AuthSessionRef
}

// AuthSessionRef is an opaque handle to the authenticated transport session
// the result was resolved with. The player/recorder reuses it for the
// subsequent media requests.
type AuthSessionRef struct {
	Cookies   string
	UserAgent string
}

// ResolveOptions carries the caller's preferences for one resolve call.
type ResolveOptions struct {
	Quality   Quality
	PreferAV1 bool
}
