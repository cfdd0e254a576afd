package xnxx

import (
	"github.com/dream-alpha/area51/internal/extractor"
	"github.com/dream-alpha/area51/internal/models"
)

// engine is the XNXX strategy table. The html5player setter names encode
// the quality; the generic key:value scans and the structured strategies
// catch player variants that drop the setters.
var engine = extractor.NewEngine(
	extractor.Pattern("setVideoUrlLow", `(?i)html5player\.setVideoUrlLow\(["']([^"']+)["']`, models.Quality360),
	extractor.Pattern("setVideoUrlHigh", `(?i)html5player\.setVideoUrlHigh\(["']([^"']+)["']`, models.Quality720),
	extractor.Pattern("setVideoHLS", `(?i)html5player\.setVideoHLS\(["']([^"']+)["']`, models.QualityAdaptive),
	extractor.Pattern("setVideoUrl1080p", `(?i)html5player\.setVideoUrl1080p\(["']([^"']+)["']`, models.Quality1080),
	extractor.Pattern("setVideoUrl720p", `(?i)html5player\.setVideoUrl720p\(["']([^"']+)["']`, models.Quality720),
	extractor.Pattern("setVideoUrl480p", `(?i)html5player\.setVideoUrl480p\(["']([^"']+)["']`, models.Quality480),
	extractor.Pattern("setVideoUrl360p", `(?i)html5player\.setVideoUrl360p\(["']([^"']+)["']`, models.Quality360),
	extractor.Pattern("setVideoUrl240p", `(?i)html5player\.setVideoUrl240p\(["']([^"']+)["']`, models.Quality240),

	extractor.Pattern("setVideoUrl", `(?i)setVideoUrl\(["']([^"']+)["']`, models.QualityUnknown),
	extractor.Pattern("video_url", `(?i)video_url["']?\s*[:=]\s*["']([^"']+)["']`, models.QualityUnknown),
	extractor.Pattern("json-url-mp4", `(?i)["']url["']?\s*:\s*["']([^"']+\.mp4[^"']*)["']`, models.QualityUnknown),
	extractor.Pattern("json-file-mp4", `(?i)["']file["']?\s*:\s*["']([^"']+\.mp4[^"']*)["']`, models.QualityUnknown),
	extractor.Pattern("json-hls", `(?i)["']hls["']?\s*[:=]\s*["']([^"']+\.m3u8[^"']*)["']`, models.QualityAdaptive),
	extractor.Pattern("json-url-m3u8", `(?i)["']url["']?\s*[:=]\s*["']([^"']+\.m3u8[^"']*)["']`, models.QualityAdaptive),

	extractor.JSONLD(models.Quality480),
	extractor.DOMSources(),
)
