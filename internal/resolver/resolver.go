// Package resolver turns a video page URL into a single playable stream
// URL plus the transport headers the player needs. It orchestrates the
// extraction engine, the candidate filter and the quality ranker; failure
// at any stage yields a nil result, never a panic or an error to the
// caller.
package resolver

import (
	"context"
	"strings"

	"github.com/dream-alpha/area51/internal/extractor"
	"github.com/dream-alpha/area51/internal/models"
	"github.com/dream-alpha/area51/internal/util"
)

// Fetcher supplies raw page text for a URL. An empty return means the
// fetch failed; retry behavior lives behind this interface, not in the
// resolver.
type Fetcher interface {
	FetchWithFallback(ctx context.Context, pageURL, referer string) string
}

// Session is the transport context a resolve call runs against. It is
// satisfied by *session.AuthSession; tests substitute fakes.
type Session interface {
	Fetcher
	SetReferer(referer string)
	SetOrigin(origin string)
	PlayerHeaders() map[string]string
	Ref() *models.AuthSessionRef
}

// Resolver resolves video pages of one site using that site's strategy
// table. A Resolver is stateless across calls; all per-call state lives in
// the session passed to Resolve.
type Resolver struct {
	engine  *extractor.Engine
	referer string
	origin  string
}

// New builds a resolver around a strategy engine. referer and origin are
// the values the site's CDN expects on media requests.
func New(engine *extractor.Engine, referer, origin string) *Resolver {
	return &Resolver{engine: engine, referer: referer, origin: origin}
}

// Resolve fetches the page, collects and filters candidates, selects the
// best source, expands template URLs and assembles the final result. A nil
// return means no playable source was found or the page could not be
// fetched; the caller decides user-visible messaging.
func (r *Resolver) Resolve(ctx context.Context, sess Session, pageURL string, opts models.ResolveOptions) *models.ResolutionResult {
	util.Infof("resolving %s", pageURL)

	sess.SetReferer(r.referer)
	sess.SetOrigin(r.origin)

	body := sess.FetchWithFallback(ctx, pageURL, r.referer)
	if body == "" {
		util.Errorf("failed to fetch page content for %s", pageURL)
		return nil
	}

	page := extractor.NewPage(pageURL, body)
	candidates := extractor.Filter(r.engine.Collect(page))
	if len(candidates) == 0 {
		util.Errorf("no video sources found in %s", pageURL)
		return nil
	}

	if util.IsDebug {
		for _, c := range candidates {
			util.Debugf("candidate %s/%s: %s", c.Quality, c.Format, c.URL)
		}
	}

	best := extractor.SelectBestSource(candidates, opts.Quality, true, opts.PreferAV1)
	if best == nil {
		return nil
	}
	util.Infof("selected quality %s (requested: %s)", best.Quality, opts.Quality)

	resolvedURL := best.URL
	if IsTemplateURL(resolvedURL) {
		if expanded := ResolveTemplate(resolvedURL, opts.Quality); expanded != resolvedURL {
			resolvedURL = expanded
		}
	}

	return &models.ResolutionResult{
		ResolvedURL:      resolvedURL,
		Quality:          best.Quality,
		RecorderKind:     recorderKind(resolvedURL),
		TransportHeaders: sess.PlayerHeaders(),
		Session:          sess.Ref(),
	}
}

// recorderKind classifies how the resolved URL must be consumed: a URL
// still carrying a template placeholder needs substitution first, a
// manifest is fetched segment-wise, anything else is a plain progressive
// download.
func recorderKind(resolvedURL string) models.RecorderKind {
	switch {
	case IsTemplateURL(resolvedURL):
		return models.RecorderTemplated
	case strings.Contains(strings.ToLower(resolvedURL), ".m3u8"):
		return models.RecorderSegmented
	default:
		return models.RecorderProgressive
	}
}
