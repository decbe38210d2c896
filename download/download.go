package download

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dszqbsm/itdashboard/browser"
	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/dszqbsm/itdashboard/workspace"
	"go.uber.org/zap"
)

// Verifier checks a downloaded file against the row it was downloaded for.
type Verifier interface {
	Check(path string, row *dashboard.Investment) bool
}

type options struct {
	logger              *zap.Logger
	dir                 string
	businessCaseTimeout time.Duration
	fileTimeout         time.Duration
	pollInterval        time.Duration
}

var defaultOptions = options{
	logger:              zap.NewNop(),
	dir:                 "output",
	businessCaseTimeout: 30 * time.Second,
	fileTimeout:         60 * time.Second,
	pollInterval:        200 * time.Millisecond,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithDir is where the browser saves downloads.
func WithDir(dir string) Option {
	return func(opts *options) {
		opts.dir = dir
	}
}

func WithBusinessCaseTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.businessCaseTimeout = d
	}
}

func WithFileTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.fileTimeout = d
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(opts *options) {
		opts.pollInterval = d
	}
}

// Downloader fetches the business case PDF of every linked investment row.
type Downloader struct {
	browser  browser.Browser
	verifier Verifier
	options
}

func New(b browser.Browser, v Verifier, opts ...Option) *Downloader {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Downloader{browser: b, verifier: v, options: options}
}

// Links reads the detail link of every row that has one. It must run while
// the expanded investment table is the current page.
func (d *Downloader) Links(rows []*dashboard.Investment) ([]dashboard.DownloadLink, error) {
	var links []dashboard.DownloadLink
	for i, row := range rows {
		r := i + 1
		n, err := d.browser.Count(dashboard.RowLink(r))
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		href, err := d.browser.Attribute(dashboard.RowLink(r), "href")
		if err != nil {
			return nil, err
		}
		links = append(links, dashboard.DownloadLink{Href: href, Row: r, UII: row.UII()})
	}
	d.logger.Info("business case links", zap.Int("rows", len(rows)), zap.Int("links", len(links)))
	return links, nil
}

// Path is where the business case of uii lands.
func (d *Downloader) Path(uii string) string {
	return filepath.Join(d.dir, uii+".pdf")
}

// Download visits each link in row order, clicks the business case PDF and
// waits for <dir>/<UII>.pdf before checking it. A link whose page or file
// does not show up in time stops the run.
func (d *Downloader) Download(ctx context.Context, links []dashboard.DownloadLink, rows []*dashboard.Investment) ([]string, error) {
	files := make([]string, 0, len(links))
	for _, link := range links {
		if link.Row < 1 || link.Row > len(rows) {
			return files, fmt.Errorf("link %s: row %d out of range", link.Href, link.Row)
		}
		path, err := d.one(ctx, link)
		if err != nil {
			return files, err
		}
		files = append(files, path)
		d.verifier.Check(path, rows[link.Row-1])
	}
	return files, nil
}

func (d *Downloader) one(ctx context.Context, link dashboard.DownloadLink) (string, error) {
	if err := d.browser.Navigate(link.Href); err != nil {
		return "", err
	}
	if err := d.browser.WaitVisible(dashboard.BusinessCaseLink, d.businessCaseTimeout); err != nil {
		return "", fmt.Errorf("business case of %s: %w", link.UII, err)
	}
	if err := d.browser.Click(dashboard.BusinessCaseLink); err != nil {
		return "", err
	}
	path := d.Path(link.UII)
	if err := workspace.WaitUntilCreated(ctx, path, d.fileTimeout, d.pollInterval); err != nil {
		return "", err
	}
	d.logger.Info("business case downloaded", zap.String("uii", link.UII), zap.String("file", path))
	return path, nil
}
