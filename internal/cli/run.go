package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hintprobe/internal/config"
	"github.com/wesleyorama2/hintprobe/internal/experiment"
	"github.com/wesleyorama2/hintprobe/internal/fetch"
	"github.com/wesleyorama2/hintprobe/internal/output"
	"github.com/wesleyorama2/hintprobe/internal/render"
	"github.com/wesleyorama2/hintprobe/internal/report"
)

// Swapped out by tests.
var (
	newFetcher = func(cfg *config.Config, logger *slog.Logger) experiment.Fetcher {
		opts := []fetch.ClientOption{
			fetch.WithTimeout(time.Duration(cfg.Fetch.Timeout)),
			fetch.WithLogger(logger),
		}
		if cfg.Fetch.UserAgent != "" {
			opts = append(opts, fetch.WithUserAgent(cfg.Fetch.UserAgent))
		}
		for k, v := range cfg.Fetch.Headers {
			opts = append(opts, fetch.WithHeader(k, v))
		}
		return fetch.NewClient(opts...)
	}

	newLauncher = func(cfg *config.Config, logger *slog.Logger) experiment.Launcher {
		chromeOpts := render.ChromeOptions{
			Headless:     cfg.IsHeadless(),
			ExecPath:     cfg.Browser.ExecPath,
			NoSandbox:    cfg.Browser.NoSandbox,
			UserAgent:    cfg.Browser.UserAgent,
			WindowWidth:  cfg.Browser.WindowWidth,
			WindowHeight: cfg.Browser.WindowHeight,
			Logger:       logger,
		}
		return func(ctx context.Context) (render.Renderer, error) {
			r, err := render.NewChromeRenderer(ctx, chromeOpts)
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	}

	createFile = func(path string) (io.WriteCloser, error) {
		return os.Create(path)
	}
)

// runProbe is the root command's entry point.
func runProbe(cmd *cobra.Command, args []string) error {
	target, err := normalizeURL(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	types, err := cfg.HintTypes()
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	logger := newLogger(cmd.ErrOrStderr(), verbose, quiet)

	exp, err := experiment.New(
		newFetcher(cfg, logger),
		newLauncher(cfg, logger),
		experiment.Options{
			Runs:        cfg.RunsValue(),
			LoadTimeout: time.Duration(cfg.Browser.LoadTimeout),
			Concurrency: cfg.Concurrency,
			Interval:    time.Duration(cfg.Interval),
			Types:       types,
		},
		logger,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	logger.Info("experiment started",
		slog.String("url", target),
		slog.Int("runs", cfg.RunsValue()),
		slog.Int("concurrency", cfg.Concurrency),
	)

	results, err := exp.Run(ctx, target)
	if err != nil {
		return err
	}

	rep, err := report.Build(target, cfg.RunsValue(), started, time.Since(started), results)
	if err != nil {
		return err
	}
	logger.Info("experiment completed",
		slog.String("url", target),
		slog.String("duration", rep.Duration),
		slog.Int("resources", len(rep.Resources)),
	)

	return writeReport(cmd, cfg, format, verbose, rep)
}

// loadConfig reads the optional config file, then applies flag overrides and defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := &config.Config{}
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("runs") {
		runs, _ := flags.GetInt("runs")
		cfg.Runs = &runs
	}
	if cfg.Runs != nil && *cfg.Runs < 1 {
		return nil, experiment.ErrNoTrials
	}
	if flags.Changed("threshold") {
		threshold, _ := flags.GetFloat64("threshold")
		cfg.Threshold = &threshold
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("interval") {
		interval, _ := flags.GetDuration("interval")
		cfg.Interval = config.Duration(interval)
	}
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		cfg.Browser.LoadTimeout = config.Duration(timeout)
	}
	if flags.Changed("hints") {
		cfg.Hints, _ = flags.GetStringSlice("hints")
	}
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("output") {
		cfg.Output.Path, _ = flags.GetString("output")
	}
	if flags.Changed("no-color") {
		cfg.Output.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("chrome-path") {
		cfg.Browser.ExecPath, _ = flags.GetString("chrome-path")
	}
	if flags.Changed("no-sandbox") {
		cfg.Browser.NoSandbox, _ = flags.GetBool("no-sandbox")
	}
	if flags.Changed("headful") {
		headful, _ := flags.GetBool("headful")
		headless := !headful
		cfg.Browser.Headless = &headless
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// writeReport renders rep to stdout or to the configured file.
func writeReport(cmd *cobra.Command, cfg *config.Config, format report.Format, verbose bool, rep *report.Report) error {
	if cfg.Output.Path == "" {
		return renderReport(cmd.OutOrStdout(), cfg, format, verbose, rep)
	}

	f, err := createFile(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := renderReport(f, cfg, format, verbose, rep); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", cfg.Output.Path)
	return nil
}

func renderReport(w io.Writer, cfg *config.Config, format report.Format, verbose bool, rep *report.Report) error {
	var err error
	if format == report.FormatText {
		reporter := output.NewReporter(output.ReporterConfig{
			Writer:    w,
			Threshold: cfg.ThresholdValue(),
			Verbose:   verbose,
			Colors:    output.SchemeFor(w, cfg.Output.NoColor),
		})
		err = reporter.Print(rep.URL, rep.Runs, &rep.Summary, rep.Distribution)
	} else {
		err = report.Encode(w, rep, format, report.HTMLOptions{Threshold: cfg.ThresholdValue()})
	}
	return err
}

// newLogger builds the stderr logger: Info by default, Debug when verbose,
// Error only when quiet.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// normalizeURL adds a scheme when missing and rejects anything but http(s).
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return u.String(), nil
}
