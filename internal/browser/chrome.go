package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	pwaerrors "github.com/gujord/pwa-validator/internal/errors"
)

// Chrome drives a headless Chrome instance through the DevTools protocol.
type Chrome struct {
	ctx           context.Context
	cancel        context.CancelFunc
	allocCancel   context.CancelFunc
	scriptTimeout time.Duration
}

// NewChrome launches Chrome and opens one tab. It fails when no Chrome
// binary can be started.
func NewChrome(ctx context.Context, opts Options) (*Chrome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", true))
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Insecure {
		allocOpts = append(allocOpts, chromedp.Flag("ignore-certificate-errors", true))
	}

	// The session outlives ctx; Close tears it down.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	c := &Chrome{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel, scriptTimeout: opts.ScriptTimeout}
	if c.scriptTimeout <= 0 {
		c.scriptTimeout = 5 * time.Second
	}
	// The first Run allocates the browser and must use the tab context
	// itself: a derived context would kill Chrome when it is cancelled.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return c, nil
}

// Navigate loads rawURL in the tab and waits for the load event.
func (c *Chrome) Navigate(ctx context.Context, rawURL string) error {
	if err := c.run(ctx, 0, chromedp.Navigate(rawURL)); err != nil {
		return pwaerrors.New("navigate", pwaerrors.ErrAutomation, err)
	}
	return nil
}

// Evaluate runs script in the page, awaiting promise results for at most
// the configured script timeout.
func (c *Chrome) Evaluate(ctx context.Context, script string) (any, error) {
	var res any
	awaitPromise := func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}
	if err := c.run(ctx, c.scriptTimeout, chromedp.Evaluate(script, &res, awaitPromise)); err != nil {
		return nil, pwaerrors.New("evaluate", pwaerrors.ErrAutomation, err)
	}
	return res, nil
}

// Close shuts the browser down.
func (c *Chrome) Close() error {
	err := chromedp.Cancel(c.ctx)
	c.cancel()
	c.allocCancel()
	return err
}

// run executes actions on the tab, bounded by the caller's ctx and, when
// non-zero, by timeout.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	if timeout > 0 {
		var tcancel context.CancelFunc
		runCtx, tcancel = context.WithTimeout(runCtx, timeout)
		defer tcancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}
