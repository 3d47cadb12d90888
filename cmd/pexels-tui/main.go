package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/pexels-search/internal/config"
	"github.com/handiism/pexels-search/internal/logging"
	"github.com/handiism/pexels-search/internal/tui"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "Path to config file (.toml or .json)")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs only go to a file.
	logger, closeLog, err := logging.NewFile(settings.LogFile, settings.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := tui.Run(settings, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
