package engine

import (
	"github.com/dszqbsm/itdashboard/browser"
	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/dszqbsm/itdashboard/download"
	"github.com/dszqbsm/itdashboard/storage/xlsxstorage"
	"github.com/dszqbsm/itdashboard/workspace"
	"go.uber.org/zap"
)

// 函数式选项，用于修改引擎配置
type Option func(opts *options)

// 引擎配置选项
type options struct {
	Logger     *zap.Logger
	LandingURL string
	Agency     string // 要采集投资表的机构
	OutputDir  string
	Browser    browser.Browser
	Cleaner    *workspace.Cleaner
	Scraper    *dashboard.Scraper
	Workbook   *xlsxstorage.Workbook
	Downloader *download.Downloader
	Mirror     Mirror // 可选，为nil时不做镜像
}

var defaultOptions = options{
	Logger:     zap.NewNop(),
	LandingURL: "https://itdashboard.gov/",
	Agency:     "Department of Commerce",
	OutputDir:  "output",
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

func WithLandingURL(url string) Option {
	return func(opts *options) {
		opts.LandingURL = url
	}
}

func WithAgency(agency string) Option {
	return func(opts *options) {
		opts.Agency = agency
	}
}

func WithOutputDir(dir string) Option {
	return func(opts *options) {
		opts.OutputDir = dir
	}
}

func WithBrowser(b browser.Browser) Option {
	return func(opts *options) {
		opts.Browser = b
	}
}

func WithCleaner(c *workspace.Cleaner) Option {
	return func(opts *options) {
		opts.Cleaner = c
	}
}

func WithScraper(s *dashboard.Scraper) Option {
	return func(opts *options) {
		opts.Scraper = s
	}
}

func WithWorkbook(w *xlsxstorage.Workbook) Option {
	return func(opts *options) {
		opts.Workbook = w
	}
}

func WithDownloader(d *download.Downloader) Option {
	return func(opts *options) {
		opts.Downloader = d
	}
}

func WithMirror(m Mirror) Option {
	return func(opts *options) {
		opts.Mirror = m
	}
}
