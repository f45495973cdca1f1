// Command monitor checks the court's YouTube channel for new uploads.
//
// Usage:
//
//	monitor              Check for new videos
//	monitor -init        Initialize state with current videos (no downloads)
//	monitor -list 10     List the 10 most recent videos
//	monitor -all         Report all recent videos (ignore seen state, for backfill)
//	monitor -json        Output JSON for piping into the process command
//
// Exit status is 0 when new videos were found and 1 when none were, so a
// scheduler can chain the processing stage on success.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"courtcast/internal/config"
	"courtcast/internal/monitor"
	"courtcast/internal/youtube"
)

func main() {
	initMode := flag.Bool("init", false, "initialize state with current videos (won't trigger downloads)")
	listCount := flag.Int64("list", 0, "list the N most recent videos")
	allMode := flag.Bool("all", false, "report all recent videos regardless of seen state (for backfill)")
	jsonOut := flag.Bool("json", false, "output as JSON (for piping to the process command)")
	flag.Parse()

	opts, err := buildOptions(*initMode, *listCount, *allMode, *jsonOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}

	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: YOUTUBE_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "\nTo get an API key:")
		fmt.Fprintln(os.Stderr, "1. Go to https://console.cloud.google.com/")
		fmt.Fprintln(os.Stderr, "2. Create a project (or select existing)")
		fmt.Fprintln(os.Stderr, "3. Enable 'YouTube Data API v3'")
		fmt.Fprintln(os.Stderr, "4. Create credentials -> API Key")
		fmt.Fprintln(os.Stderr, "5. export YOUTUBE_API_KEY='your-key-here'")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lister, err := youtube.NewAPILister(ctx, cfg.APIKey, cfg.UploadsPlaylist())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	lister.RetryConfig = cfg.RetryConfig()

	m := monitor.New(cfg, lister, os.Stdout)
	code, err := m.Run(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(code)
}

// buildOptions maps the flag surface onto a discovery mode, rejecting
// conflicting combinations.
func buildOptions(initMode bool, listCount int64, allMode, jsonOut bool) (monitor.Options, error) {
	modes := 0
	opts := monitor.Options{Mode: monitor.ModeCheck, JSON: jsonOut}

	if initMode {
		modes++
		opts.Mode = monitor.ModeInit
	}
	if listCount > 0 {
		modes++
		opts.Mode = monitor.ModeList
		opts.ListCount = listCount
	}
	if allMode {
		modes++
		opts.Mode = monitor.ModeAll
	}
	if modes > 1 {
		return monitor.Options{}, fmt.Errorf("-init, -list and -all are mutually exclusive")
	}
	if opts.Mode == monitor.ModeInit && jsonOut {
		return monitor.Options{}, fmt.Errorf("-json has no effect with -init")
	}
	return opts, nil
}
