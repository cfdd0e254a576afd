// Package provider defines the site-provider contract and the registry the
// CLI dispatches through. Each supported site lives in its own subpackage
// and registers itself at init time.
package provider

import (
	"context"
	"strings"
	"sync"

	"github.com/dream-alpha/area51/internal/models"
)

const (
	// MaxCategories caps how many categories a provider returns.
	MaxCategories = 100
	// MaxVideos caps how many videos a listing call accumulates across
	// pages.
	MaxVideos = 100
	// PageEntries is the nominal number of entries per listing page.
	PageEntries = 25
)

// Provider is one supported site: category discovery, video listing and
// page-to-stream resolution.
type Provider interface {
	// Name is the short provider id used on the command line.
	Name() string
	// BaseURL is the site's canonical base URL.
	BaseURL() string
	// Matches reports whether this provider handles the given page URL.
	Matches(pageURL string) bool

	// Categories lists the site's browsable categories.
	Categories(ctx context.Context) ([]models.Category, error)
	// MediaItems lists videos in a category, starting at the given page,
	// returning at most limit entries.
	MediaItems(ctx context.Context, category models.Category, page, limit int) ([]models.Video, error)
	// Resolve turns a video page URL into a playable stream. A nil result
	// means no source was found; resolution never returns an error.
	Resolve(ctx context.Context, pageURL string, opts models.ResolveOptions) *models.ResolutionResult
}

var (
	mu       sync.RWMutex
	registry []Provider
)

// Register adds a provider to the registry. Called from provider package
// init functions.
func Register(p Provider) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, p)
}

// All returns the registered providers in registration order.
func All() []Provider {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Provider(nil), registry...)
}

// Lookup finds a provider by name, case-insensitively. Nil when unknown.
func Lookup(name string) Provider {
	mu.RLock()
	defer mu.RUnlock()
	for _, p := range registry {
		if strings.EqualFold(p.Name(), name) {
			return p
		}
	}
	return nil
}

// ForURL finds the provider that handles the given page URL. Nil when no
// provider matches.
func ForURL(pageURL string) Provider {
	mu.RLock()
	defer mu.RUnlock()
	for _, p := range registry {
		if p.Matches(pageURL) {
			return p
		}
	}
	return nil
}
