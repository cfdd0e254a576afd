// Package session owns the authenticated transport used for page fetches
// and for the downstream player. Each resolve call gets its own session so
// header state never leaks between concurrent resolutions.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/dream-alpha/area51/internal/models"
	"github.com/dream-alpha/area51/internal/util"
)

const (
	// BrowserUserAgent mirrors a current desktop Firefox; several of the
	// CDNs refuse obviously non-browser agents.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0"
)

// AuthSession is a per-call transport context: cookie jar, sticky headers
// and the header-profile fallback used to get past hotlink protection.
type AuthSession struct {
	client    *http.Client
	userAgent string
	referer   string
	origin    string

	// Method records which header profile last succeeded, for logging.
	Method string
}

// New creates a session with a fresh cookie jar on the shared pooled
// transport.
func New() *AuthSession {
	jar, _ := cookiejar.New(nil)
	base := util.GetSharedClient()
	return &AuthSession{
		client: &http.Client{
			Transport: base.Transport,
			Timeout:   base.Timeout,
			Jar:       jar,
		},
		userAgent: BrowserUserAgent,
	}
}

// SetReferer pins the Referer header attached to subsequent requests and
// to the player header set.
func (s *AuthSession) SetReferer(referer string) { s.referer = referer }

// SetOrigin pins the Origin header attached to the player header set.
func (s *AuthSession) SetOrigin(origin string) { s.origin = origin }

// profiles, tried in order by FetchWithFallback. The plain profile exists
// because a few CDN mirrors reject requests carrying an Origin header.
var profiles = []string{"browser", "scraping", "plain"}

// FetchWithFallback fetches a page, trying each header profile until one
// yields a non-empty body. Failure surfaces as an empty string, never as
// an error; retry and backoff beyond the profile ladder belong to the
// caller's collaborators, not here.
func (s *AuthSession) FetchWithFallback(ctx context.Context, pageURL, referer string) string {
	if referer != "" {
		s.referer = referer
	}

	for _, profile := range profiles {
		body, err := s.fetch(ctx, pageURL, profile)
		if err != nil {
			util.Debugf("fetch (%s) failed for %s: %v", profile, pageURL, err)
			continue
		}
		if body != "" {
			s.Method = profile
			return body
		}
	}

	util.Warnf("all fetch methods failed for %s", pageURL)
	return ""
}

// Get fetches a URL with the named header profile, returning an error on
// any transport or HTTP failure. Listing scrapers use this directly.
func (s *AuthSession) Get(ctx context.Context, rawURL, profile string) (string, error) {
	return s.fetch(ctx, rawURL, profile)
}

func (s *AuthSession) fetch(ctx context.Context, rawURL, profile string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	s.decorateRequest(req, profile)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), nil
}

func (s *AuthSession) decorateRequest(req *http.Request, profile string) {
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	switch profile {
	case "browser":
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
		req.Header.Set("Sec-Fetch-Dest", "document")
		req.Header.Set("Sec-Fetch-Mode", "navigate")
		req.Header.Set("Sec-Fetch-Site", "same-origin")
		if s.referer != "" {
			req.Header.Set("Referer", s.referer)
		}
		if s.origin != "" {
			req.Header.Set("Origin", s.origin)
		}
	case "scraping":
		req.Header.Set("Accept", "text/html,*/*;q=0.8")
		if s.referer != "" {
			req.Header.Set("Referer", s.referer)
		}
	default:
		req.Header.Set("Accept", "*/*")
	}
}

// PlayerHeaders renders the header set a downstream player or recorder
// needs to fetch the resolved media URL past CDN hotlink protection.
func (s *AuthSession) PlayerHeaders() map[string]string {
	headers := map[string]string{
		"User-Agent": s.userAgent,
	}
	if s.referer != "" {
		headers["Referer"] = s.referer
	}
	if s.origin != "" {
		headers["Origin"] = s.origin
	}
	if cookie := s.cookieHeader(); cookie != "" {
		headers["Cookie"] = cookie
	}
	return headers
}

// Ref returns the opaque session handle attached to resolution results.
func (s *AuthSession) Ref() *models.AuthSessionRef {
	return &models.AuthSessionRef{
		Cookies:   s.cookieHeader(),
		UserAgent: s.userAgent,
	}
}

// cookieHeader flattens the jar's cookies for the current referer host
// into a single Cookie header value.
func (s *AuthSession) cookieHeader() string {
	if s.client.Jar == nil || s.referer == "" {
		return ""
	}
	u, err := url.Parse(s.referer)
	if err != nil {
		return ""
	}

	var parts []string
	for _, c := range s.client.Jar.Cookies(u) {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}
