// Package xnxx implements the XNXX site provider: category discovery from
// the main page's inline category JSON, thumb-block video listings, and
// stream resolution through the shared extraction engine.
package xnxx

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/dream-alpha/area51/internal/models"
	"github.com/dream-alpha/area51/internal/provider"
	"github.com/dream-alpha/area51/internal/resolver"
	"github.com/dream-alpha/area51/internal/session"
	"github.com/dream-alpha/area51/internal/util"
)

const (
	Base      = "https://www.xnxx.com"
	UserAgent = session.BrowserUserAgent
)

func init() {
	provider.Register(New())
}

// Client handles interactions with xnxx.com
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	resolver  *resolver.Resolver
}

// New creates a new XNXX client
func New() *Client {
	return &Client{
		client:    util.GetFastClient(),
		baseURL:   Base,
		userAgent: UserAgent,
		resolver:  resolver.New(engine, Base+"/", Base),
	}
}

func (c *Client) Name() string    { return "xnxx" }
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Matches(pageURL string) bool {
	return strings.Contains(strings.ToLower(pageURL), "xnxx.com")
}

// categoryEntryRe matches the inline category JSON entries on the main
// page: {"label":"Name","url":"/search/name",...,"nbvids":12345,...}
var categoryEntryRe = regexp.MustCompile(`\{"label":"([^"]+)","url":"([^"]+)"[^}]*"nbvids":(\d+)[^}]*\}`)

// Navigation noise and categories without free content, excluded by label.
var (
	skipLabels = map[string]bool{
		"more": true, "preview": true, "suggestions": true, "porn games": true,
		"sex stories": true, "photos": true, "best of": true,
	}
	premiumOnlyLabels = map[string]bool{
		"shemale": true, "gay porn": true, "gay": true, "trans": true, "transgender": true,
	}
)

// minCategoryVideos filters out near-empty categories.
const minCategoryVideos = 1000

// Categories scrapes the category list from the main page's inline JSON.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	html, err := c.fetchCached(ctx, c.baseURL+"/")
	if err != nil {
		return nil, errors.Wrap(err, "fetching xnxx main page")
	}

	var categories []models.Category
	for _, m := range categoryEntryRe.FindAllStringSubmatch(html, -1) {
		label, href, nbvids := m[1], m[2], m[3]

		name := util.SanitizeTitle(strings.ReplaceAll(label, `\/`, "/"))
		cleanURL := strings.ReplaceAll(href, `\/`, "/")

		count, _ := strconv.Atoi(nbvids)
		lower := strings.ToLower(name)

		if len(name) < 2 || len(name) >= 40 {
			continue
		}
		if skipLabels[lower] || premiumOnlyLabels[lower] {
			continue
		}
		if strings.ContainsAny(name, `<>\`) {
			continue
		}
		if count <= minCategoryVideos {
			continue
		}

		categories = append(categories, models.Category{
			Name:       name,
			URL:        c.resolveURL(cleanURL),
			VideoCount: count,
			Site:       c.Name(),
			CategoryID: extractCategoryID(cleanURL),
		})
		if len(categories) >= provider.MaxCategories {
			break
		}
	}

	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})

	util.Infof("found %d xnxx categories", len(categories))
	return categories, nil
}

var categoryIDRes = []*regexp.Regexp{
	regexp.MustCompile(`/search/([^/?]+)`),
	regexp.MustCompile(`/c/([^/?]+)`),
}

func extractCategoryID(rawURL string) string {
	for _, re := range categoryIDRes {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// listing selectors, in preference order; the site has shipped several
// thumb-block variants.
var listingSelectors = []string{
	".mozaique .thumb-block",
	".thumb-block",
	"div[class*='thumb']",
	".video-block",
	"div[class*='video']",
}

// MediaItems lists videos from a category page.
func (c *Client) MediaItems(ctx context.Context, category models.Category, page, limit int) ([]models.Video, error) {
	pageURL := category.URL
	if page > 1 {
		pageURL = strings.TrimRight(pageURL, "/") + "/" + strconv.Itoa(page-1)
	}
	if limit <= 0 || limit > provider.MaxVideos {
		limit = provider.MaxVideos
	}

	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, errors.Wrap(err, "fetching xnxx category page")
	}

	var containers *goquery.Selection
	for _, sel := range listingSelectors {
		containers = doc.Find(sel)
		if containers.Length() > 0 {
			break
		}
	}
	if containers == nil || containers.Length() == 0 {
		util.Warnf("no video containers found on %s", pageURL)
		return nil, nil
	}
	util.Debugf("found %d containers on xnxx page", containers.Length())

	var videos []models.Video
	containers.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		titleLink := s.Find(".thumb-under p a").First()
		href, exists := titleLink.Attr("href")
		if !exists || href == "" {
			return true
		}
		href = c.resolveURL(href)

		title, _ := titleLink.Attr("title")
		if title == "" {
			title = strings.TrimSpace(titleLink.Text())
		}
		if title == "" {
			return true
		}

		img := s.Find(".thumb img").First()
		thumbnail, _ := img.Attr("data-src")
		if thumbnail == "" {
			thumbnail, _ = img.Attr("src")
		}
		if strings.HasPrefix(thumbnail, "//") {
			thumbnail = "https:" + thumbnail
		}

		views := "0"
		if viewsText := strings.TrimSpace(s.Find(".metadata .right").First().Text()); viewsText != "" {
			views = strings.Fields(viewsText)[0]
		}

		videos = append(videos, models.Video{
			Title:      util.SanitizeTitle(title),
			URL:        href,
			PageURL:    href,
			Thumbnail:  thumbnail,
			Views:      views,
			ProviderID: c.Name(),
		})
		return len(videos) < limit
	})

	util.Infof("found %d videos from xnxx", len(videos))
	return videos, nil
}

// Resolve extracts and selects the best stream source for a video page.
func (c *Client) Resolve(ctx context.Context, pageURL string, opts models.ResolveOptions) *models.ResolutionResult {
	return c.resolver.Resolve(ctx, session.New(), pageURL, opts)
}

func (c *Client) fetchCached(ctx context.Context, rawURL string) (string, error) {
	cache := util.GetCategoryCache()
	if data, ok := cache.Get(rawURL); ok {
		return string(data), nil
	}

	html, err := c.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	cache.Set(rawURL, []byte(html))
	return html, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	c.decorateRequest(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "making request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("server returned: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading response")
	}
	return string(data), nil
}

func (c *Client) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	c.decorateRequest(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "making request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("server returned: %s", resp.Status)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func (c *Client) decorateRequest(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", c.baseURL+"/")
}

func (c *Client) resolveURL(ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
