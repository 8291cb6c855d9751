package render

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the browser process.
type ChromeOptions struct {
	Headless     bool
	ExecPath     string
	NoSandbox    bool
	UserAgent    string
	WindowWidth  int
	WindowHeight int
	Logger       *slog.Logger
}

// ChromeRenderer is a Renderer backed by a headless Chrome driven over CDP.
//
// Sessions are separate browser contexts (incognito-like): each has its own
// cookie jar, cache and storage. The browser process itself is shared.
type ChromeRenderer struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	logger        *slog.Logger
}

// NewChromeRenderer starts a browser and returns a renderer for it.
func NewChromeRenderer(ctx context.Context, opts ChromeOptions) (*ChromeRenderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-background-networking", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run on a fresh context launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug("browser started", slog.Bool("headless", opts.Headless))

	return &ChromeRenderer{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		logger:        logger,
	}, nil
}

// NewSession implements Renderer.
func (r *ChromeRenderer) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(r.browserCtx, chromedp.WithNewBrowserContext())
	s := &chromeSession{ctx: tabCtx, cancel: cancel, logger: r.logger}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if paused, ok := ev.(*fetch.EventRequestPaused); ok {
			go s.handlePaused(paused)
		}
	})

	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetCacheDisabled(true),
		fetch.Enable().WithPatterns([]*fetch.RequestPattern{{
			URLPattern:   "*",
			ResourceType: network.ResourceTypeDocument,
			RequestStage: fetch.RequestStageRequest,
		}}),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open browser context: %w", err)
	}

	return s, nil
}

// Close implements Renderer.
func (r *ChromeRenderer) Close() error {
	err := chromedp.Cancel(r.browserCtx)
	r.browserCancel()
	r.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to stop browser: %w", err)
	}
	return nil
}

// chromeSession is one browser context with one tab.
//
// Document requests are intercepted: the first one after Load starts is
// fulfilled with the variant body, so both variants navigate to the real URL
// and keep its origin, base for relative URLs and navigation timing.
type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu          sync.Mutex
	body        string
	contentType string
	served      bool
}

// Load implements Session.
func (s *chromeSession) Load(ctx context.Context, content Content, wait WaitPolicy) error {
	s.mu.Lock()
	s.body = content.HTML
	s.contentType = content.GetContentType()
	s.served = false
	s.mu.Unlock()

	loadCtx, cancel := context.WithTimeout(s.ctx, wait.GetTimeout())
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(loadCtx, chromedp.Navigate(content.URL)); err != nil {
		if errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %s", ErrLoadTimeout, wait.GetTimeout(), content.URL)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to load %s: %w", content.URL, err)
	}
	return nil
}

// Evaluate implements Session.
func (s *chromeSession) Evaluate(ctx context.Context, spec ExtractorSpec) ([]byte, error) {
	script, err := spec.Script()
	if err != nil {
		return nil, err
	}

	evalCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var payload []byte
	err = chromedp.Run(evalCtx, chromedp.Evaluate(script, &payload, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
	if err != nil {
		return nil, fmt.Errorf("extractor failed: %w", err)
	}
	return payload, nil
}

// Close implements Session. Cancelling the tab context closes the target
// and disposes its browser context.
func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close browser context: %w", err)
	}
	return nil
}

func (s *chromeSession) handlePaused(ev *fetch.EventRequestPaused) {
	c := chromedp.FromContext(s.ctx)
	if c == nil || c.Target == nil {
		return
	}
	execCtx := cdp.WithExecutor(s.ctx, c.Target)

	s.mu.Lock()
	fulfill := !s.served
	body, contentType := s.body, s.contentType
	s.served = true
	s.mu.Unlock()

	var err error
	if fulfill {
		err = fetch.FulfillRequest(ev.RequestID, 200).
			WithResponseHeaders([]*fetch.HeaderEntry{
				{Name: "Content-Type", Value: contentType},
				{Name: "Cache-Control", Value: "no-store"},
			}).
			WithBody(base64.StdEncoding.EncodeToString([]byte(body))).
			Do(execCtx)
	} else {
		err = fetch.ContinueRequest(ev.RequestID).Do(execCtx)
	}
	if err != nil && s.ctx.Err() == nil {
		s.logger.Warn("request interception failed",
			slog.String("url", ev.Request.URL),
			slog.String("error", err.Error()),
		)
	}
}
