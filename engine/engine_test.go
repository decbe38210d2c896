package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dszqbsm/itdashboard/browser"
	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/dszqbsm/itdashboard/dashboard/dashboardtest"
	"github.com/dszqbsm/itdashboard/download"
	"github.com/dszqbsm/itdashboard/pdfcheck"
	"github.com/dszqbsm/itdashboard/storage/xlsxstorage"
	"github.com/dszqbsm/itdashboard/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const label = "Total FY2021 Spending:"

var site = dashboardtest.Site{
	Label: label,
	Tiles: []dashboardtest.Tile{
		{Name: "Department of Agriculture", Spending: "$2.8B", Category: "view"},
		{Name: "Department of Commerce", Spending: "$3.1B", Category: "view"},
	},
	Agency: "Department of Commerce",
	Table: dashboardtest.Table{
		Headers: []string{"UII", "Bureau", "Investment Title"},
		Rows: [][]string{
			{"006-000001", "NOAA", "Weather Service"},
			{"006-000002", "Census", "Decennial Census"},
			{"006-000003", "USPTO", "Patent System"},
		},
		Linked: []bool{true, false, true},
	},
}

// titles is what the business case of each UII says about itself.
type titles map[string]string

func (t titles) Pages(path string) ([]string, error) {
	uii := strings.TrimSuffix(filepath.Base(path), ".pdf")
	page := fmt.Sprintf("Section A: Overview\n1. Name of this Investment: %s\n2. Unique Investment Identifier (UII): %s\nSection B: Detail",
		t[uii], uii)
	return []string{"cover", page}, nil
}

type mirror struct {
	saved  map[string]int
	closed bool
}

func (m *mirror) Save(table string, rows ...*dashboard.Investment) error {
	if m.saved == nil {
		m.saved = make(map[string]int)
	}
	m.saved[table] += len(rows)
	return nil
}

func (m *mirror) Close() error {
	m.closed = true
	return nil
}

func newCrawler(t *testing.T, agency string, pdfTitles titles, m Mirror) (*Crawler, browser.Browser, string, *observer.ObservedLogs) {
	t.Helper()
	pages := dashboardtest.Write(t, t.TempDir(), site)
	out := filepath.Join(t.TempDir(), "output")
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	b := browser.New(context.Background(), browser.SnapshotType, browser.WithPages(pages), browser.WithLogger(logger))
	checker := pdfcheck.New(pdfcheck.WithLogger(logger), pdfcheck.WithExtractor(pdfTitles))
	opts := []Option{
		WithLogger(logger),
		WithLandingURL(dashboardtest.BaseURL),
		WithAgency(agency),
		WithOutputDir(out),
		WithBrowser(b),
		WithCleaner(workspace.NewCleaner(workspace.WithLogger(logger))),
		WithScraper(dashboard.NewScraper(b, dashboard.WithLogger(logger), dashboard.WithSpendingLabel(label))),
		WithWorkbook(xlsxstorage.New(xlsxstorage.WithPath(filepath.Join(out, "collected_data.xlsx")), xlsxstorage.WithSpendingLabel(label))),
		WithDownloader(download.New(b, checker, download.WithDir(out),
			download.WithFileTimeout(time.Second), download.WithPollInterval(time.Millisecond))),
	}
	if m != nil {
		opts = append(opts, WithMirror(m))
	}
	return NewEngine(opts...), b, out, logs
}

func TestRun(t *testing.T) {
	m := &mirror{}
	e, b, out, logs := newCrawler(t, "Department of Commerce",
		titles{"006-000001": "Weather Service", "006-000003": "Patent System"}, m)

	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.pdf"), []byte("old"), 0o644))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, 2, res.Agencies)
	assert.Equal(t, 3, res.Investments)
	assert.Equal(t, 2, res.Links)
	assert.Equal(t, []string{
		filepath.Join(out, "006-000001.pdf"),
		filepath.Join(out, "006-000003.pdf"),
	}, res.Files)
	assert.NoFileExists(t, filepath.Join(out, "stale.pdf"))
	assert.Zero(t, logs.Len())

	f, err := excelize.OpenFile(filepath.Join(out, "collected_data.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{xlsxstorage.AgenciesSheet, "Department of Commerce"}, f.GetSheetList())
	agencies, err := f.GetRows(xlsxstorage.AgenciesSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", label},
		{"Department of Agriculture", "$2.8B"},
		{"Department of Commerce", "$3.1B"},
	}, agencies)
	investments, err := f.GetRows("Department of Commerce")
	require.NoError(t, err)
	assert.Len(t, investments, 4)
	assert.Equal(t, []string{"UII", "Bureau", "Investment Title"}, investments[0])

	assert.Equal(t, map[string]int{"Department of Commerce": 3}, m.saved)
	assert.True(t, m.closed)
	assert.ErrorIs(t, b.Navigate(dashboardtest.BaseURL), browser.ErrClosed)
}

func TestRunLogsMismatchAndContinues(t *testing.T) {
	e, _, out, logs := newCrawler(t, "Department of Commerce",
		titles{"006-000001": "Something Else", "006-000003": "Patent System"}, nil)

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "A file named 006-000001.pdf does not match its table entry", entries[0].Message)
	assert.FileExists(t, filepath.Join(out, "006-000003.pdf"))
}

func TestRunUnknownAgency(t *testing.T) {
	m := &mirror{}
	e, b, out, _ := newCrawler(t, "Department of Nothing", titles{}, m)

	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, browser.ErrNotFound)
	assert.FileExists(t, filepath.Join(out, "collected_data.xlsx"))
	assert.Nil(t, m.saved)
	assert.True(t, m.closed)
	assert.ErrorIs(t, b.Navigate(dashboardtest.BaseURL), browser.ErrClosed)
}

func TestRunMissingStage(t *testing.T) {
	_, err := NewEngine().Run(context.Background())
	assert.Error(t, err)
}
