// Package models contains data structures for media content
package models

import "strings"

// Quality is a video quality tag. Fixed resolutions are "144p" through
// "2160p"; "adaptive" marks an HLS/DASH master manifest whose rendition is
// chosen by the player at runtime.
type Quality string

const (
	Quality144      Quality = "144p"
	Quality240      Quality = "240p"
	Quality360      Quality = "360p"
	Quality480      Quality = "480p"
	Quality720      Quality = "720p"
	Quality1080     Quality = "1080p"
	Quality1440     Quality = "1440p"
	Quality2160     Quality = "2160p"
	QualityAdaptive Quality = "adaptive"
	QualityUnknown  Quality = ""

	// QualityBest requests the highest-ranked source available.
	QualityBest Quality = "best"
)

// qualityRank orders tags for selection. Adaptive ranks above every fixed
// resolution because a master manifest carries the whole ladder.
var qualityRank = map[Quality]int{
	QualityAdaptive: 10,
	Quality2160:     9,
	Quality1440:     8,
	Quality1080:     7,
	Quality720:      6,
	Quality480:      5,
	Quality360:      4,
	Quality240:      3,
	Quality144:      2,
	QualityUnknown:  1,
}

// Rank returns the numeric rank of q; higher is better. Unrecognized tags
// rank as unknown.
func (q Quality) Rank() int {
	if r, ok := qualityRank[q.normalize()]; ok {
		return r
	}
	return qualityRank[QualityUnknown]
}

// Height returns the pixel height of a fixed-resolution tag, or 0 for
// adaptive/unknown tags.
func (q Quality) Height() int {
	switch q.normalize() {
	case Quality144:
		return 144
	case Quality240:
		return 240
	case Quality360:
		return 360
	case Quality480:
		return 480
	case Quality720:
		return 720
	case Quality1080:
		return 1080
	case Quality1440:
		return 1440
	case Quality2160:
		return 2160
	}
	return 0
}

// IsFixed reports whether q names a concrete resolution rather than an
// adaptive manifest or an unknown tag.
func (q Quality) IsFixed() bool {
	return q.Height() > 0
}

// IsBest reports whether q requests the highest available quality.
func (q Quality) IsBest() bool {
	n := q.normalize()
	return n == QualityBest || n == QualityUnknown
}

func (q Quality) normalize() Quality {
	s := strings.ToLower(strings.TrimSpace(string(q)))
	switch s {
	case "", "unknown":
		return QualityUnknown
	case "auto", "hls", "adaptive":
		return QualityAdaptive
	case "best", "max":
		return QualityBest
	}
	return Quality(s)
}

// ParseQuality normalizes a user- or site-supplied quality label into a
// Quality tag. Bare heights like "720" gain the trailing "p".
func ParseQuality(s string) Quality {
	q := Quality(s).normalize()
	if q == QualityUnknown || q == QualityAdaptive || q == QualityBest {
		return q
	}
	if !strings.HasSuffix(string(q), "p") {
		q += "p"
	}
	if _, ok := qualityRank[q]; ok {
		return q
	}
	return QualityUnknown
}
