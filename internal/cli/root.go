package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd builds the hintprobe command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hintprobe <url>",
		Short:   "Measure whether a page's resource hints make it faster",
		Version: version,
		Long: `hintprobe loads a page repeatedly in isolated headless browser sessions,
once as published and once with its resource hints (dns-prefetch, preconnect,
prefetch, preload) neutralized, and compares DNS, TCP and time-to-first-byte
of every hinted resource as well as domContentLoaded and load.

Examples:
  hintprobe https://example.com
  hintprobe https://example.com --runs 10 --format json -o report.json
  hintprobe https://example.com --hints preconnect,preload --threshold 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runProbe,
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Configuration file (YAML or JSON)")
	flags.IntP("runs", "n", 0, "Trials per variant (default 5)")
	flags.Float64("threshold", 0, "Delta in ms below which a difference is negligible (default 5)")
	flags.Int("concurrency", 0, "Isolated sessions of one variant run at the same time (default 1)")
	flags.Duration("interval", 0, "Minimum spacing between trial starts")
	flags.DurationP("timeout", "t", 0, "Per-trial page load timeout (default 60s)")
	flags.StringSlice("hints", nil, "Hint types to measure (dns-prefetch, preconnect, prefetch, preload)")
	flags.StringP("format", "f", "", "Output format: text, json, yaml, html (default text)")
	flags.StringP("output", "o", "", "Write the report to a file instead of stdout")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Debug logging and latency distribution")
	flags.BoolP("quiet", "q", false, "Only log errors")
	flags.String("chrome-path", "", "Chrome or Chromium executable")
	flags.Bool("no-sandbox", false, "Run the browser without its sandbox")
	flags.Bool("headful", false, "Show the browser window")

	return cmd
}

// Execute runs the root command and prints any error to stderr.
// This is called by main.main().
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
