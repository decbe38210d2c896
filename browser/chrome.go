package browser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/dszqbsm/itdashboard/proxy"
	"go.uber.org/zap"
)

// Chrome drives a local Chrome through the DevTools protocol.
type Chrome struct {
	options
	parent context.Context
	ctx    context.Context
	cancel []context.CancelFunc
	closed bool
}

func newChrome(parent context.Context, o options) *Chrome {
	return &Chrome{options: o, parent: parent}
}

func (c *Chrome) start() error {
	if c.closed {
		return ErrClosed
	}
	if c.ctx != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.userAgent))
	}
	server, err := proxy.Server(c.proxy)
	if err != nil {
		return fmt.Errorf("pick proxy: %w", err)
	}
	if server != "" {
		c.logger.Info("browser proxy", zap.String("server", server))
		opts = append(opts, chromedp.ProxyServer(server))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(c.parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	c.cancel = []context.CancelFunc{cancelCtx, cancelAlloc}
	c.ctx = ctx

	// the first Run without a deadline launches the browser
	if err := chromedp.Run(ctx); err != nil {
		c.release()
		return fmt.Errorf("launch chrome: %w", err)
	}
	c.logger.Info("browser launched", zap.Bool("headless", c.headless))

	if c.downloadDir != "" {
		return c.applyDownloadDir()
	}
	return nil
}

func (c *Chrome) applyDownloadDir() error {
	dir, err := filepath.Abs(c.downloadDir)
	if err != nil {
		return err
	}
	return chromedp.Run(c.ctx, cdpbrowser.
		SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
		WithDownloadPath(dir).
		WithEventsEnabled(true))
}

// run executes actions under timeout and maps a deadline to ErrTimeout.
func (c *Chrome) run(timeout time.Duration, actions ...chromedp.Action) error {
	if err := c.start(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()
	err := chromedp.Run(ctx, actions...)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	return err
}

func (c *Chrome) SetDownloadDir(dir string) error {
	c.downloadDir = dir
	if c.ctx == nil {
		return nil
	}
	return c.applyDownloadDir()
}

func (c *Chrome) Open(url string) error {
	if err := c.start(); err != nil {
		return err
	}
	return c.Navigate(url)
}

func (c *Chrome) Navigate(url string) error {
	if err := c.start(); err != nil {
		return err
	}
	if err := c.limit.Wait(c.ctx); err != nil {
		return err
	}
	c.logger.Debug("navigate", zap.String("url", url))
	if err := c.run(c.timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (c *Chrome) Click(xpath string) error {
	if err := c.run(c.timeout, chromedp.Click(xpath, chromedp.BySearch, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %s: %w", xpath, err)
	}
	return nil
}

func (c *Chrome) ClickLink(partial string) error {
	return c.Click(PartialLinkXPath(partial))
}

const selectScript = `(function() {
	const el = document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el || el.options.length < %d) { return false; }
	el.selectedIndex = %d;
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
})()`

func (c *Chrome) Select(xpath string, option int) error {
	n, err := c.Count(fmt.Sprintf("%s/option[%d]", xpath, option))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("select %s option %d: %w", xpath, option, ErrNotFound)
	}
	var ok bool
	if err := c.run(c.timeout, chromedp.Evaluate(fmt.Sprintf(selectScript, xpath, option, option-1), &ok)); err != nil {
		return fmt.Errorf("select %s option %d: %w", xpath, option, err)
	}
	if !ok {
		return fmt.Errorf("select %s option %d: %w", xpath, option, ErrNotFound)
	}
	return nil
}

func (c *Chrome) Text(xpath string) (string, error) {
	var text string
	if err := c.run(c.timeout, chromedp.Text(xpath, &text, chromedp.BySearch)); err != nil {
		return "", fmt.Errorf("text %s: %w", xpath, err)
	}
	return text, nil
}

// Attribute reads the DOM property, so href comes back absolute.
func (c *Chrome) Attribute(xpath, name string) (string, error) {
	var value string
	if err := c.run(c.timeout, chromedp.JavascriptAttribute(xpath, name, &value, chromedp.BySearch)); err != nil {
		return "", fmt.Errorf("attribute %s of %s: %w", name, xpath, err)
	}
	return value, nil
}

func (c *Chrome) Count(xpath string) (int, error) {
	var nodes []*cdp.Node
	if err := c.run(c.timeout, chromedp.Nodes(xpath, &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return 0, fmt.Errorf("count %s: %w", xpath, err)
	}
	return len(nodes), nil
}

func (c *Chrome) WaitVisible(xpath string, timeout time.Duration) error {
	if err := c.run(timeout, chromedp.WaitVisible(xpath, chromedp.BySearch)); err != nil {
		return fmt.Errorf("wait visible %s: %w", xpath, err)
	}
	return nil
}

func (c *Chrome) WaitAbsent(xpath string, timeout time.Duration) error {
	if err := c.run(timeout, chromedp.WaitNotPresent(xpath, chromedp.BySearch)); err != nil {
		return fmt.Errorf("wait absent %s: %w", xpath, err)
	}
	return nil
}

func (c *Chrome) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.ctx == nil {
		return nil
	}
	err := chromedp.Cancel(c.ctx)
	c.release()
	c.logger.Info("browser closed")
	return err
}

func (c *Chrome) release() {
	for _, cancel := range c.cancel {
		cancel()
	}
	c.cancel = nil
	c.ctx = nil
}
