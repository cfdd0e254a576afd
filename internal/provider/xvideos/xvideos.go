// Package xvideos implements the XVideos site provider.
package xvideos

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/dream-alpha/area51/internal/extractor"
	"github.com/dream-alpha/area51/internal/models"
	"github.com/dream-alpha/area51/internal/provider"
	"github.com/dream-alpha/area51/internal/resolver"
	"github.com/dream-alpha/area51/internal/session"
	"github.com/dream-alpha/area51/internal/util"
)

const Base = "https://www.xvideos.com"

func init() {
	provider.Register(New())
}

// engine is the XVideos strategy table: the html5player setters are the
// authoritative source, JSON-LD is the fallback for pages that inline the
// default rendition only.
var engine = extractor.NewEngine(
	extractor.PatternFirst("setVideoHLS", `html5player\.setVideoHLS\('([^']+)'\)`, models.QualityAdaptive),
	extractor.PatternFirst("setVideoUrlLow", `html5player\.setVideoUrlLow\('([^']+)'\)`, models.Quality360),
	extractor.PatternFirst("setVideoUrlHigh", `html5player\.setVideoUrlHigh\('([^']+)'\)`, models.Quality720),
	extractor.JSONLD(models.Quality720),
)

// Client handles interactions with xvideos.com
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	resolver  *resolver.Resolver
}

// New creates a new XVideos client
func New() *Client {
	return &Client{
		client:    util.GetFastClient(),
		baseURL:   Base,
		userAgent: session.BrowserUserAgent,
		resolver:  resolver.New(engine, Base+"/", Base),
	}
}

func (c *Client) Name() string    { return "xvideos" }
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Matches(pageURL string) bool {
	return strings.Contains(strings.ToLower(pageURL), "xvideos.com")
}

// categoryLinkRes match category anchors on the main page, used when the
// categories page carries no JSON-LD item list.
var categoryLinkRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<a[^>]*href="(/c/[^"]+)"[^>]*>([^<]+)</a>`),
	regexp.MustCompile(`(?i)<a[^>]*href="([^"]*categories/[^"]*)"[^>]*>([^<]+)</a>`),
}

// Categories lists categories, preferring the JSON-LD item list on the
// categories/tags pages and falling back to scanning nav links.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category

	for _, path := range []string{"categories", "tags"} {
		html, err := c.fetchCached(ctx, c.baseURL+"/"+path)
		if err != nil {
			util.Debugf("xvideos %s page fetch failed: %v", path, err)
			continue
		}
		categories = parseJSONLDCategories(html, c.Name())
		if len(categories) > 0 {
			break
		}
	}

	if len(categories) == 0 {
		html, err := c.fetchCached(ctx, c.baseURL+"/")
		if err != nil {
			return nil, errors.Wrap(err, "fetching xvideos main page")
		}

		seen := make(map[string]bool)
		for _, re := range categoryLinkRes {
			for _, m := range re.FindAllStringSubmatch(html, -1) {
				href, name := m[1], util.SanitizeTitle(m[2])
				if href == "" || len(name) < 2 || seen[name] {
					continue
				}
				seen[name] = true
				categories = append(categories, models.Category{
					Name: name,
					URL:  c.resolveURL(href),
					Site: c.Name(),
				})
			}
		}
	}

	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	if len(categories) > provider.MaxCategories {
		categories = categories[:provider.MaxCategories]
	}

	util.Infof("xvideos categories loaded: %d", len(categories))
	return categories, nil
}

var jsonLDRe = regexp.MustCompile(`(?s)<script type="application/ld\+json"[^>]*>(.*?)</script>`)

func parseJSONLDCategories(html, site string) []models.Category {
	m := jsonLDRe.FindStringSubmatch(html)
	if m == nil {
		return nil
	}

	var data struct {
		ItemList []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"itemList"`
	}
	if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
		return nil
	}

	var categories []models.Category
	for _, item := range data.ItemList {
		name := util.SanitizeTitle(item.Name)
		if name == "" || item.URL == "" {
			continue
		}
		categories = append(categories, models.Category{
			Name: name,
			URL:  item.URL,
			Site: site,
		})
	}
	return categories
}

// MediaItems lists videos from a category page. XVideos shares the
// mozaique thumb-block layout with its sister site.
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
		return nil, errors.Wrap(err, "fetching xvideos category page")
	}

	var videos []models.Video
	doc.Find(".mozaique .thumb-block").EachWithBreak(func(_ int, s *goquery.Selection) bool {
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

		duration := strings.TrimSpace(s.Find(".duration").First().Text())

		videos = append(videos, models.Video{
			Title:      util.SanitizeTitle(title),
			URL:        href,
			PageURL:    href,
			Thumbnail:  thumbnail,
			Duration:   duration,
			ProviderID: c.Name(),
		})
		return len(videos) < limit
	})

	util.Infof("found %d videos from xvideos", len(videos))
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
	cache.Set(rawURL, data)
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
