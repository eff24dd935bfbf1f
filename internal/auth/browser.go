package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"linkedin-scraper/internal/models"
)

// ErrBrowserClosed is returned by driver calls made after Close
var ErrBrowserClosed = errors.New("browser is closed")

// Driver is the browser automation surface used by the scraper. Selectors
// are CSS queries.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// WaitReady blocks until sel is present in the DOM or ctx is done.
	WaitReady(ctx context.Context, sel string) error
	SendKeys(ctx context.Context, sel, text string) error
	Click(ctx context.Context, sel string) error
	Text(ctx context.Context, sel string) (string, error)
	Location(ctx context.Context) (string, error)
	OuterHTML(ctx context.Context) (string, error)
	// Alive reports whether the browser process is still running.
	Alive() bool
	Close() error
}

// BrowserManager drives one Chrome process through chromedp
type BrowserManager struct {
	browserCtx context.Context
	cancel     context.CancelFunc
	process    *os.Process

	mu     sync.Mutex
	closed bool
}

var _ Driver = (*BrowserManager)(nil)

// NewBrowserManager launches Chrome configured per cfg. The browser lives
// until Close is called; ctx only bounds the launch itself.
func NewBrowserManager(ctx context.Context, cfg models.Config) (*BrowserManager, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	// The browser must outlive the launch context.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	combinedCancel := func() {
		browserCancel()
		allocCancel()
	}

	launched := make(chan error, 1)
	go func() {
		launched <- chromedp.Run(browserCtx, network.Enable())
	}()

	select {
	case err := <-launched:
		if err != nil {
			combinedCancel()
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
	case <-ctx.Done():
		combinedCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", ctx.Err())
	}

	bm := &BrowserManager{
		browserCtx: browserCtx,
		cancel:     combinedCancel,
	}
	if c := chromedp.FromContext(browserCtx); c != nil && c.Browser != nil {
		bm.process = c.Browser.Process()
	}
	return bm, nil
}

// run executes actions on the browser tab, bounded by ctx
func (bm *BrowserManager) run(ctx context.Context, actions ...chromedp.Action) error {
	bm.mu.Lock()
	closed := bm.closed
	bm.mu.Unlock()
	if closed {
		return ErrBrowserClosed
	}

	runCtx, cancel := context.WithCancel(bm.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (bm *BrowserManager) Navigate(ctx context.Context, url string) error {
	return bm.run(ctx, chromedp.Navigate(url))
}

func (bm *BrowserManager) WaitReady(ctx context.Context, sel string) error {
	return bm.run(ctx, chromedp.WaitReady(sel, chromedp.ByQuery))
}

func (bm *BrowserManager) SendKeys(ctx context.Context, sel, text string) error {
	return bm.run(ctx, chromedp.SendKeys(sel, text, chromedp.ByQuery))
}

func (bm *BrowserManager) Click(ctx context.Context, sel string) error {
	return bm.run(ctx, chromedp.Click(sel, chromedp.ByQuery))
}

func (bm *BrowserManager) Text(ctx context.Context, sel string) (string, error) {
	var text string
	err := bm.run(ctx, chromedp.Text(sel, &text, chromedp.ByQuery))
	return text, err
}

func (bm *BrowserManager) Location(ctx context.Context) (string, error) {
	var url string
	err := bm.run(ctx, chromedp.Location(&url))
	return url, err
}

func (bm *BrowserManager) OuterHTML(ctx context.Context) (string, error) {
	var html string
	err := bm.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Alive reports whether the Chrome process still exists
func (bm *BrowserManager) Alive() bool {
	if bm.process == nil {
		return false
	}
	return bm.process.Signal(syscall.Signal(0)) == nil
}

// Close shuts the browser down and waits for the process to exit. Calling
// it more than once is a no-op.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed {
		return nil
	}
	bm.closed = true

	err := chromedp.Cancel(bm.browserCtx)
	bm.cancel()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}
