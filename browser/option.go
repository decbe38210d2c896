package browser

import (
	"net/http"
	"time"

	"github.com/dszqbsm/itdashboard/limiter"
	"github.com/dszqbsm/itdashboard/proxy"
	"go.uber.org/zap"
)

type options struct {
	logger      *zap.Logger
	timeout     time.Duration // default for calls without an explicit timeout
	headless    bool
	userAgent   string
	downloadDir string
	proxy       proxy.ProxyFunc
	limit       limiter.RateLimiter
	pages       map[string]string // snapshot: url -> local html/pdf file
	client      *http.Client      // snapshot: fetches urls missing from pages
}

var defaultOptions = options{
	logger:   zap.NewNop(),
	timeout:  10 * time.Second,
	headless: true,
	limit:    limiter.New(),
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.timeout = timeout
	}
}

func WithHeadless(headless bool) Option {
	return func(opts *options) {
		opts.headless = headless
	}
}

func WithUserAgent(ua string) Option {
	return func(opts *options) {
		opts.userAgent = ua
	}
}

func WithDownloadDir(dir string) Option {
	return func(opts *options) {
		opts.downloadDir = dir
	}
}

func WithProxy(p proxy.ProxyFunc) Option {
	return func(opts *options) {
		opts.proxy = p
	}
}

// WithLimiter throttles Open and Navigate.
func WithLimiter(l limiter.RateLimiter) Option {
	return func(opts *options) {
		opts.limit = l
	}
}

// WithPages maps urls to saved files for the snapshot browser.
func WithPages(pages map[string]string) Option {
	return func(opts *options) {
		opts.pages = pages
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(opts *options) {
		opts.client = c
	}
}
