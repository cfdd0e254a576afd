package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dream-alpha/area51/internal/appflow"
	"github.com/dream-alpha/area51/internal/config"
	"github.com/dream-alpha/area51/internal/history"
	"github.com/dream-alpha/area51/internal/models"
	"github.com/dream-alpha/area51/internal/provider"
	"github.com/dream-alpha/area51/internal/util"
	"github.com/dream-alpha/area51/internal/version"

	_ "github.com/dream-alpha/area51/internal/provider/xhamster"
	_ "github.com/dream-alpha/area51/internal/provider/xnxx"
	_ "github.com/dream-alpha/area51/internal/provider/xvideos"
)

func main() {
	startAll := time.Now()

	versionFlag := flag.Bool("version", false, "show version information")
	debugFlag := flag.Bool("debug", false, "enable debug mode")
	helpFlag := flag.Bool("help", false, "show help message")
	altHelpFlag := flag.Bool("h", false, "show help message")
	siteFlag := flag.String("site", "", "site to browse (xnxx, xvideos, xhamster)")
	listFlag := flag.Bool("list-categories", false, "print categories for the site and exit")
	categoryFlag := flag.String("category", "", "category name to browse")
	qualityFlag := flag.String("quality", "", "preferred quality (144p-2160p, adaptive, best)")
	av1Flag := flag.Bool("av1", false, "prefer AV1 sources when qualities tie")
	resolveFlag := flag.Bool("resolve", false, "prompt for a video page URL and resolve it")

	flag.Parse()

	if *versionFlag || version.HasVersionArg() {
		version.ShowVersion()
		return
	}

	if *helpFlag || *altHelpFlag {
		util.Helper()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(util.ErrorHandler(err))
	}

	util.SetDebugMode(*debugFlag || cfg.Debug)
	util.InitLogger()
	if util.IsDebug {
		log.Println("--- Debug mode is enabled ---")
	}

	quality := cfg.ResolveQuality()
	if *qualityFlag != "" {
		quality = models.ParseQuality(*qualityFlag)
		if quality == models.QualityUnknown {
			log.Fatalf("unsupported quality %q", *qualityFlag)
		}
	}
	opts := models.ResolveOptions{
		Quality:   quality,
		PreferAV1: *av1Flag || cfg.PreferAV1,
	}

	var store *history.Store
	if cfg.History {
		if path, err := config.HistoryPath(); err == nil {
			store = history.Open(path)
			defer func() { _ = store.Close() }()
		}
	}

	ctx := context.Background()

	// A page URL on the command line resolves directly, skipping the
	// browse flow.
	if pageURL := flag.Arg(0); pageURL != "" {
		resolveDirect(ctx, pageURL, opts, store)
		return
	}
	if *resolveFlag {
		pageURL, err := util.GetPageURL()
		if err != nil {
			log.Fatalln(util.ErrorHandler(err))
		}
		resolveDirect(ctx, pageURL, opts, store)
		return
	}

	site := *siteFlag
	if site == "" {
		site = cfg.Site
	}
	p := appflow.SelectSite(site)

	categories := appflow.FetchCategories(ctx, p)
	if *listFlag {
		for _, c := range categories {
			if c.VideoCount > 0 {
				fmt.Printf("%s (%d)\n", c.Name, c.VideoCount)
			} else {
				fmt.Println(c.Name)
			}
		}
		return
	}

	category := appflow.SelectCategory(categories, *categoryFlag)
	videos := appflow.FetchVideos(ctx, p, category, cfg.MaxVideos)

	if util.IsDebug {
		log.Printf("[PERF] Full boot in %v", time.Since(startAll))
	}

	video, err := appflow.SelectVideo(videos)
	if err != nil {
		log.Fatalln(util.ErrorHandler(err))
	}

	result := appflow.Resolve(ctx, p, video, opts, store)
	appflow.PrintResult(video, result)
}

func resolveDirect(ctx context.Context, pageURL string, opts models.ResolveOptions, store *history.Store) {
	p := provider.ForURL(pageURL)
	if p == nil {
		log.Fatalf("no site matches URL %q", pageURL)
	}

	video := &models.Video{Title: pageURL, URL: pageURL, PageURL: pageURL, ProviderID: p.Name()}
	result := appflow.Resolve(ctx, p, video, opts, store)
	appflow.PrintResult(video, result)
}
