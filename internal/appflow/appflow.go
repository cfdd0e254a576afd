// Package appflow drives the interactive browse/resolve flow.
package appflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/pkg/errors"

	"github.com/dream-alpha/area51/internal/history"
	"github.com/dream-alpha/area51/internal/models"
	"github.com/dream-alpha/area51/internal/provider"
	"github.com/dream-alpha/area51/internal/util"
)

// SelectSite picks a provider, either by name or interactively when name
// is empty.
func SelectSite(name string) provider.Provider {
	if name != "" {
		p := provider.Lookup(name)
		if p == nil {
			log.Fatalf("unknown site %q", name)
		}
		return p
	}

	providers := provider.All()
	if len(providers) == 0 {
		log.Fatalln("no sites registered")
	}
	if len(providers) == 1 {
		return providers[0]
	}

	options := make([]huh.Option[string], 0, len(providers))
	for _, p := range providers {
		options = append(options, huh.NewOption(p.Name(), p.Name()))
	}

	var choice string
	menu := huh.NewSelect[string]().
		Title("Sites").
		Description("Choose a site to browse:").
		Options(options...).
		Value(&choice)
	if err := menu.Run(); err != nil {
		log.Fatalln("Error showing site menu:", util.ErrorHandler(err))
	}

	return provider.Lookup(choice)
}

// FetchCategories loads the category list for a provider.
func FetchCategories(ctx context.Context, p provider.Provider) []models.Category {
	start := time.Now()

	categories, err := p.Categories(ctx)
	if err != nil {
		log.Fatalln("Failed to fetch categories:", util.ErrorHandler(err))
	}
	if len(categories) == 0 {
		log.Fatalln("The selected site returned no categories.")
	}

	util.Debugf("[PERF] FetchCategories completed in %v", time.Since(start))
	return categories
}

// SelectCategory picks a category, either by name or interactively.
func SelectCategory(categories []models.Category, name string) models.Category {
	if name != "" {
		for _, c := range categories {
			if c.Name == name {
				return c
			}
		}
		log.Fatalf("unknown category %q", name)
	}

	options := make([]huh.Option[int], 0, len(categories))
	for i, c := range categories {
		label := c.Name
		if c.VideoCount > 0 {
			label = fmt.Sprintf("%s (%d)", c.Name, c.VideoCount)
		}
		options = append(options, huh.NewOption(label, i))
	}

	var idx int
	menu := huh.NewSelect[int]().
		Title("Categories").
		Description("Choose a category:").
		Options(options...).
		Value(&idx)
	if err := menu.Run(); err != nil {
		log.Fatalln("Error showing category menu:", util.ErrorHandler(err))
	}

	return categories[idx]
}

// FetchVideos loads the video listing for a category.
func FetchVideos(ctx context.Context, p provider.Provider, category models.Category, limit int) []models.Video {
	start := time.Now()

	videos, err := p.MediaItems(ctx, category, 1, limit)
	if err != nil {
		log.Fatalln("Failed to fetch videos:", util.ErrorHandler(err))
	}
	if len(videos) == 0 {
		log.Fatalln("The selected category has no videos on the server.")
	}

	util.Debugf("[PERF] FetchVideos completed in %v", time.Since(start))
	return videos
}

// SelectVideo picks a video from the listing with the fuzzy finder.
func SelectVideo(videos []models.Video) (*models.Video, error) {
	if len(videos) == 0 {
		return nil, errors.New("no videos provided")
	}

	idx, err := fuzzyfinder.Find(
		videos,
		func(i int) string {
			return videos[i].Title
		},
		fuzzyfinder.WithPromptString("Select video: "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			v := videos[i]
			return fmt.Sprintf("%s\n\nDuration: %s\nViews: %s\n%s",
				v.Title, v.Duration, v.Views, v.PageURL)
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select video with go-fuzzyfinder")
	}
	if idx < 0 || idx >= len(videos) {
		return nil, errors.New("invalid index returned by fuzzyfinder")
	}

	return &videos[idx], nil
}

// Resolve turns a video page URL into a playable stream and records it in
// the history store when one is available.
func Resolve(ctx context.Context, p provider.Provider, video *models.Video, opts models.ResolveOptions, store *history.Store) *models.ResolutionResult {
	start := time.Now()

	result := p.Resolve(ctx, video.PageURL, opts)
	if result == nil {
		log.Fatalln("Failed to resolve a playable stream for:", video.Title)
	}

	util.Debugf("[PERF] Resolve completed in %v", time.Since(start))

	if err := store.Record(history.Entry{
		PageURL:     video.PageURL,
		Site:        p.Name(),
		Title:       video.Title,
		ResolvedURL: result.ResolvedURL,
		Quality:     string(result.Quality),
		RecorderID:  string(result.RecorderKind),
	}); err != nil && !errors.Is(err, history.ErrStoreNotInited) {
		util.Debugf("history record failed: %v", err)
	}

	return result
}

// PrintResult writes the resolved stream and its playback headers to
// stdout, one header per line, so output is easy to paste into a player
// or recorder command.
func PrintResult(video *models.Video, result *models.ResolutionResult) {
	fmt.Println()
	fmt.Println("Title:   ", video.Title)
	fmt.Println("Quality: ", result.Quality)
	fmt.Println("Recorder:", result.RecorderKind)
	fmt.Println("Stream:  ", result.ResolvedURL)
	for k, v := range result.TransportHeaders {
		fmt.Printf("Header:   %s: %s\n", k, v)
	}
}
