// Package xhamster implements the xHamster site provider.
package xhamster

import (
	"context"
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

const Base = "https://xhamster.com"

// groupCategoryLimit caps how many categories are taken from each group
// header on the categories page.
const groupCategoryLimit = 8

func init() {
	provider.Register(New())
}

// Client handles interactions with xhamster.com
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	resolver  *resolver.Resolver
}

// New creates a new xHamster client
func New() *Client {
	return &Client{
		client:    util.GetFastClient(),
		baseURL:   Base,
		userAgent: session.BrowserUserAgent,
		resolver:  resolver.New(engine, Base+"/", Base),
	}
}

func (c *Client) Name() string    { return "xhamster" }
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Matches(pageURL string) bool {
	return strings.Contains(strings.ToLower(pageURL), "xhamster.com")
}

// Categories scrapes the categories page. Category groups are headed by h2
// elements with the actual links in the following sibling section. The main
// navigation listings are always included first.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	doc, err := c.fetchDocument(ctx, c.baseURL+"/categories")
	if err != nil {
		return nil, errors.Wrap(err, "fetching xhamster categories page")
	}

	seenURLs := make(map[string]bool)
	seenNames := make(map[string]bool)
	var categories []models.Category

	add := func(name, href string) bool {
		name = util.SanitizeTitle(name)
		if name == "" || href == "" {
			return false
		}
		href = c.resolveURL(href)
		if strings.Contains(href, "/photos/") || strings.Contains(strings.ToLower(name), "photo") {
			return false
		}
		normURL := strings.ToLower(strings.TrimRight(href, "/"))
		normName := strings.Join(strings.Fields(strings.ToLower(name)), " ")
		if seenURLs[normURL] || seenNames[normName] {
			return false
		}
		seenURLs[normURL] = true
		seenNames[normName] = true
		categories = append(categories, models.Category{
			Name:       name,
			URL:        href,
			Site:       c.Name(),
			CategoryID: extractCategoryID(href),
		})
		return true
	}

	add("Featured", c.baseURL+"/")
	add("Most Viewed", c.baseURL+"/most-viewed")
	add("Top Rated", c.baseURL+"/best")
	add("Newest", c.baseURL+"/newest")

	doc.Find("h2").Each(func(_ int, header *goquery.Selection) {
		groupName := strings.TrimSpace(header.Text())
		if len(groupName) < 3 {
			return
		}
		added := 0
		header.NextAll().First().Find(`a[href*="/categories/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			if add(strings.TrimSpace(link.Text()), href) {
				added++
			}
			return added < groupCategoryLimit
		})
	})

	// Group scraping can come up short when the page layout shifts, fall
	// back to every category link on the page.
	if len(categories) < 40 {
		maxCategories := 2 * provider.PageEntries
		doc.Find(`a[href*="/categories/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			add(strings.TrimSpace(link.Text()), href)
			return len(categories) < maxCategories
		})
	}

	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	if len(categories) > provider.MaxCategories {
		categories = categories[:provider.MaxCategories]
	}

	util.Infof("xhamster categories loaded: %d", len(categories))
	return categories, nil
}

var categoryIDRes = []*regexp.Regexp{
	regexp.MustCompile(`/categories/([^/?]+)`),
	regexp.MustCompile(`/c/([^/?]+)`),
	regexp.MustCompile(`category=([^&]+)`),
}

func extractCategoryID(rawURL string) string {
	for _, re := range categoryIDRes {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// videoIDRe identifies the numeric video ID, used to catch the same video
// listed under different URLs.
var videoIDRe = regexp.MustCompile(`/videos/[^/?]+-(\d+)`)

var listingSelectors = []string{
	".thumb-list__item",
	".video-thumb",
	"article.thumb",
	`a[href*="/videos/"]`,
}

var skipKeywords = []string{"preview", "trailer", "sample", "promo", "teaser", "clip"}

// MediaItems walks category pages until limit videos are collected or the
// site runs out of pages. xHamster paginates as <category>/<page>.
func (c *Client) MediaItems(ctx context.Context, category models.Category, page, limit int) ([]models.Video, error) {
	if limit <= 0 || limit > provider.MaxVideos {
		limit = provider.MaxVideos
	}
	if page < 1 {
		page = 1
	}

	seenIDs := make(map[string]bool)
	var videos []models.Video

	for current := page; len(videos) < limit; current++ {
		pageURL := strings.TrimRight(category.URL, "/")
		if current > 1 {
			pageURL += "/" + strconv.Itoa(current)
		}

		found, err := c.scrapeListing(ctx, pageURL, seenIDs, limit-len(videos))
		if err != nil {
			if len(videos) > 0 {
				util.Debugf("xhamster page %d fetch failed, keeping %d videos: %v", current, len(videos), err)
				break
			}
			return nil, errors.Wrap(err, "fetching xhamster category page")
		}
		if len(found) == 0 {
			break
		}
		videos = append(videos, found...)
	}

	sort.Slice(videos, func(i, j int) bool {
		return strings.ToLower(videos[i].Title) < strings.ToLower(videos[j].Title)
	})

	util.Infof("found %d videos from xhamster", len(videos))
	return videos, nil
}

func (c *Client) scrapeListing(ctx context.Context, pageURL string, seenIDs map[string]bool, limit int) ([]models.Video, error) {
	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var videos []models.Video
	for _, selector := range listingSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if v, ok := c.parseThumb(s); ok {
				id := videoID(v.URL)
				if id != "" && seenIDs[id] {
					return true
				}
				if id != "" {
					seenIDs[id] = true
				}
				videos = append(videos, v)
			}
			return len(videos) < limit
		})
		if len(videos) > 0 {
			break
		}
	}
	return videos, nil
}

func (c *Client) parseThumb(s *goquery.Selection) (models.Video, bool) {
	link := s.Find(`a[href*="/videos/"]`).First()
	if link.Length() == 0 {
		if href, ok := s.Attr("href"); ok && strings.Contains(href, "/videos/") {
			link = s
		} else {
			return models.Video{}, false
		}
	}
	href, _ := link.Attr("href")
	if href == "" {
		return models.Video{}, false
	}
	href = c.resolveURL(href)

	title := firstNonGeneric(
		attrOf(link, "title"),
		attrOf(s.Find("img").First(), "alt"),
		s.Find(".video-thumb-info a").First().Text(),
		link.Text(),
	)
	if title == "" {
		title = "xHamster Video " + videoID(href)
	}
	title = util.SanitizeTitle(title)

	img := s.Find("img").First()
	thumbnail, _ := img.Attr("data-src")
	if thumbnail == "" {
		thumbnail, _ = img.Attr("src")
	}

	duration := strings.TrimSpace(s.Find(`[class*="duration"]`).First().Text())
	if tooShort(duration) {
		util.Debugf("skipping short video: %s (%s)", title, duration)
		return models.Video{}, false
	}

	lower := strings.ToLower(href + " " + title)
	for _, kw := range skipKeywords {
		if strings.Contains(lower, kw) {
			util.Debugf("skipping preview/trailer video: %s", title)
			return models.Video{}, false
		}
	}

	return models.Video{
		Title:      title,
		URL:        href,
		PageURL:    href,
		Thumbnail:  thumbnail,
		Duration:   duration,
		ProviderID: c.Name(),
	}, true
}

func firstNonGeneric(candidates ...string) string {
	for _, cand := range candidates {
		cand = strings.TrimSpace(cand)
		if len(cand) <= 5 {
			continue
		}
		switch strings.ToLower(cand) {
		case "video", "watch", "click", "unknown video", "untitled":
			continue
		}
		return cand
	}
	return ""
}

func attrOf(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

func videoID(rawURL string) string {
	if m := videoIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// tooShort reports whether a MM:SS or HH:MM:SS duration is under two
// minutes. Unparsable durations are kept.
func tooShort(duration string) bool {
	if duration == "" {
		return false
	}
	parts := strings.Split(duration, ":")
	switch len(parts) {
	case 2:
		minutes, err := strconv.Atoi(parts[0])
		return err == nil && minutes < 2
	case 3:
		hours, err1 := strconv.Atoi(parts[0])
		minutes, err2 := strconv.Atoi(parts[1])
		return err1 == nil && err2 == nil && hours == 0 && minutes < 2
	}
	return false
}

// Resolve extracts and selects the best stream source for a video page.
// The CDN validates the Referer header, so the session headers carried in
// the result are required for playback.
func (c *Client) Resolve(ctx context.Context, pageURL string, opts models.ResolveOptions) *models.ResolutionResult {
	return c.resolver.Resolve(ctx, session.New(), pageURL, opts)
}

func (c *Client) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", c.baseURL+"/")

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
