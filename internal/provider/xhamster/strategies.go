package xhamster

import (
	"github.com/dream-alpha/area51/internal/extractor"
	"github.com/dream-alpha/area51/internal/models"
)

// engine is the xHamster strategy table. The JSON url/label pairs embedded
// in the page are the primary source, the player init config covers newer
// site versions, and the raw CDN scans are the last resort.
var engine = extractor.NewEngine(
	extractor.PairPattern("json-url-label", `"url":"([^"]+)"[^}]*"label":"([^"]+)"`),
	extractor.PlayerConfig("player-init",
		`(?s)window\.initPlayer\s*\(\s*(\{.+?\})\s*\)`,
		`(?s)initPlayer\s*\(\s*(\{.+?\})\s*\)`,
		`(?s)playerInitConfig\s*=\s*(\{.+?\});`,
		`(?s)sources\s*:\s*(\[.+?\])`,
	),
	extractor.Pattern("direct-mp4", `(?i)(https?://video[^\s"<>]*\.mp4[^\s"<>]*)`, models.Quality480),
	extractor.Pattern("hls-scan", `(?i)(https?://[^\s"<>]*\.m3u8[^\s"<>]*)`, models.QualityAdaptive),
)
