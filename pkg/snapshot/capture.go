package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"tether/pkg/scene"
)

type captureConfig struct {
	width, height int
	headless      bool
	timeout       time.Duration
	waitSelector  string
	selector      string
	reference     string
	floating      string
	userAgent     string
	scene         SceneOptions
	log           *zap.Logger
}

// Option configures Capture.
type Option func(*captureConfig)

// WithViewport sets the browser window size.
func WithViewport(width, height int) Option {
	return func(c *captureConfig) { c.width, c.height = width, height }
}

// WithHeadless runs the browser without a window.
func WithHeadless(on bool) Option {
	return func(c *captureConfig) { c.headless = on }
}

// WithTimeout bounds the whole capture.
func WithTimeout(d time.Duration) Option {
	return func(c *captureConfig) { c.timeout = d }
}

// WithWaitSelector waits for a matching element to be ready before recording.
func WithWaitSelector(sel string) Option {
	return func(c *captureConfig) { c.waitSelector = sel }
}

// WithSelector picks the recorded elements.
func WithSelector(sel string) Option {
	return func(c *captureConfig) { c.selector = sel }
}

// WithPair records a positioning request between the first matches of two
// selectors.
func WithPair(reference, floating string) Option {
	return func(c *captureConfig) { c.reference, c.floating = reference, floating }
}

// WithPlacement sets the placement and strategy of the recorded request.
func WithPlacement(placement, strategy string) Option {
	return func(c *captureConfig) { c.scene = SceneOptions{Placement: placement, Strategy: strategy} }
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(c *captureConfig) { c.userAgent = ua }
}

// WithLogger logs navigation steps and browser messages.
func WithLogger(l *zap.Logger) Option {
	return func(c *captureConfig) {
		if l != nil {
			c.log = l
		}
	}
}

func defaultCaptureConfig() captureConfig {
	return captureConfig{
		width:        1024,
		height:       768,
		headless:     true,
		timeout:      30 * time.Second,
		waitSelector: "body",
		selector:     "body *",
		log:          zap.NewNop(),
	}
}

// Capture loads url in Chrome and records it as a scene.
func Capture(ctx context.Context, url string, opts ...Option) (*scene.Scene, error) {
	cfg := defaultCaptureConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log.With(zap.String("url", url))

	expr, err := collectorCall(cfg.selector, cfg.reference, cfg.floating)
	if err != nil {
		return nil, err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(cfg.width, cfg.height),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	sugar := log.Sugar()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Warnf),
	)
	defer cancelTask()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, cfg.timeout)
	defer cancelTimeout()

	var raw []byte
	tasks := chromedp.Tasks{
		emulation.SetDeviceMetricsOverride(int64(cfg.width), int64(cfg.height), 1, false),
	}
	if cfg.userAgent != "" {
		tasks = append(tasks, emulation.SetUserAgentOverride(cfg.userAgent))
	}
	tasks = append(tasks,
		chromedp.ActionFunc(func(context.Context) error {
			log.Debug("Navigating.")
			return nil
		}),
		chromedp.Navigate(url),
		chromedp.WaitReady(cfg.waitSelector, chromedp.ByQuery),
		chromedp.ActionFunc(func(context.Context) error {
			log.Debug("Page ready, collecting elements.", zap.String("selector", cfg.selector))
			return nil
		}),
		chromedp.Evaluate(expr, &raw),
	)
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return nil, fmt.Errorf("capture %s: %w", url, err)
	}

	page, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	log.Info("Captured page.", zap.Int("elements", len(page.Nodes)), zap.String("title", page.Title))
	return page.Scene(cfg.scene)
}
