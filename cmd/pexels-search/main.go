package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/handiism/pexels-search/internal/config"
	"github.com/handiism/pexels-search/internal/download"
	"github.com/handiism/pexels-search/internal/export"
	"github.com/handiism/pexels-search/internal/http"
	ioutils "github.com/handiism/pexels-search/internal/io"
	"github.com/handiism/pexels-search/internal/logging"
	"github.com/handiism/pexels-search/internal/model"
	"github.com/handiism/pexels-search/internal/pexels"
	"github.com/handiism/pexels-search/internal/search"
)

func main() {
	// Command line flags
	var (
		queryFlag    = flag.String("query", "", "Search query")
		curatedFlag  = flag.Bool("curated", false, "List curated photos instead of searching")
		groupedFlag  = flag.Bool("grouped", false, "Group photo URLs by photographer")
		exportFlag   = flag.String("export", "", "Export the grouping as md, json or txt")
		outputFlag   = flag.String("output", "", "Write the export to this file, or into this directory, instead of stdout")
		downloadFlag = flag.String("download", "", "Download the results into this directory")
		configFlag   = flag.String("config", config.DefaultPath(), "Path to config file (.toml or .json)")
		perPageFlag  = flag.Int("per-page", 0, "Results per page, 1-80 (overrides config)")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	query := *queryFlag
	if query == "" && flag.NArg() > 0 {
		query = strings.Join(flag.Args(), " ")
	}

	if strings.TrimSpace(query) == "" && !*curatedFlag {
		fmt.Println("Pexels Search - Find free stock photos")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  pexels-search -query <text> [options]")
		fmt.Println("  pexels-search <text> [options]")
		fmt.Println("  pexels-search -curated [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: pexels-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *perPageFlag > 0 {
		settings.PerPage = *perPageFlag
	}
	if *downloadFlag != "" {
		settings.DownloadsPath = filepath.Join(*downloadFlag, "{photographer}")
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}

	format, err := export.ParseFormat(*exportFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, settings.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := pexels.NewClient(settings.ToPexelsConfig(), logger, settings.HTTPOptions()...)

	var searcher search.Searcher = api
	if *curatedFlag {
		query = "curated"
		searcher = search.SearcherFunc(func(ctx context.Context, _ string) ([]model.Photo, error) {
			return api.Curated(ctx)
		})
	}

	controller := search.NewController(searcher, logger)
	defer controller.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
		controller.Close()
	}()

	controller.SubmitQuery(query)
	controller.Wait()

	state := controller.Snapshot()
	if ctx.Err() != nil {
		os.Exit(130)
	}
	if state.LastError != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", state.LastError)
		os.Exit(1)
	}

	switch {
	case *exportFlag != "":
		content, err := export.NewExporter(format).Export(state.Query, controller.Groups())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		if *outputFlag == "" {
			fmt.Print(content)
			break
		}
		path := *outputFlag
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, format.FileName(state.Query))
		}
		if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		logger.Info("export written", "path", path, "photographers", len(controller.Groups()))

	case *groupedFlag:
		printGroups(controller.Groups())

	default:
		printPhotos(state)
	}

	if *downloadFlag != "" {
		os.Exit(runDownload(ctx, settings, state.Results, *verboseFlag))
	}
}

func printPhotos(state search.State) {
	if len(state.Results) == 0 {
		fmt.Printf("No photos found for %q\n", state.Query)
		return
	}
	for _, photo := range state.Results {
		heart := " "
		if state.Liked(photo) {
			heart = "♥"
		}
		fmt.Printf("%s %-10s %-24s %s\n", heart, photo.ID, photo.Photographer, photo.PhotoURL)
	}
}

func printGroups(groups []model.PhotographerGroup) {
	for _, group := range groups {
		fmt.Printf("%s (%d)\n", group.Name, len(group.PhotoURLs))
		for _, url := range group.PhotoURLs {
			fmt.Printf("  %s\n", url)
		}
	}
}

// runDownload saves photos and returns the process exit code.
func runDownload(ctx context.Context, settings *config.Settings, photos []model.Photo, verbose bool) int {
	client := http.NewClient(append(settings.HTTPOptions(), http.WithTimeout(0))...)
	manager := download.NewManager(settings.ToDownloadConfig(), client, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Fprintln(os.Stderr, prefix+event.Message)
	})

	if err := manager.Download(ctx, photos); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Download cancelled.")
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		return 1
	}

	received, filesReceived, filesTotal := manager.GetProgress()
	fmt.Fprintf(os.Stderr, "Complete! Downloaded %d/%d files (%.2f MB)\n", filesReceived, filesTotal, float64(received)/1024/1024)
	return 0
}
