package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/dszqbsm/itdashboard/browser"
	"go.uber.org/zap"
)

type options struct {
	logger            *zap.Logger
	spendingLabel     string
	tilesTimeout      time.Duration
	lengthTimeout     time.Duration
	paginationTimeout time.Duration
}

var defaultOptions = options{
	logger:            zap.NewNop(),
	spendingLabel:     "Total FY2021 Spending:",
	tilesTimeout:      10 * time.Second,
	lengthTimeout:     15 * time.Second,
	paginationTimeout: 30 * time.Second,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithSpendingLabel sets the tile label stripped before parsing, e.g.
// "Total FY2021 Spending:".
func WithSpendingLabel(label string) Option {
	return func(opts *options) {
		opts.spendingLabel = label
	}
}

func WithTilesTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.tilesTimeout = d
	}
}

func WithLengthTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.lengthTimeout = d
	}
}

func WithPaginationTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.paginationTimeout = d
	}
}

// Scraper reads the dashboard pages through a browser session it does not own.
type Scraper struct {
	browser browser.Browser
	options
}

func NewScraper(b browser.Browser, opts ...Option) *Scraper {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Scraper{browser: b, options: options}
}

// Agencies opens the landing page, follows the dive-in link and parses the
// agency tiles.
func (s *Scraper) Agencies(landingURL string) ([]AgencySummary, error) {
	if err := s.browser.Open(landingURL); err != nil {
		return nil, err
	}
	if err := s.browser.Click(DiveInLink); err != nil {
		return nil, err
	}
	if err := s.browser.WaitVisible(AgencyTiles, s.tilesTimeout); err != nil {
		return nil, err
	}
	text, err := s.browser.Text(AgencyTilesText)
	if err != nil {
		return nil, err
	}
	agencies := ParseAgencyTiles(text, s.spendingLabel)
	s.logger.Info("agency tiles parsed", zap.Int("count", len(agencies)))
	return agencies, nil
}

/*
ParseAgencyTiles turns the tiles text into records.

The text is a newline separated run of name, label, spending and a third
token per tile. The label lines are removed, then every group of three tokens
gives one record from its first two; the third is dropped. A trailing group
with a single token gives a record without spending.
*/
func ParseAgencyTiles(text, label string) []AgencySummary {
	clean := strings.ReplaceAll(text, label+"\n", "")
	if strings.TrimSpace(clean) == "" {
		return nil
	}
	tokens := strings.Split(clean, "\n")

	agencies := make([]AgencySummary, 0, (len(tokens)+2)/3)
	for i := 0; i < len(tokens); i += 3 {
		a := AgencySummary{Name: tokens[i]}
		if i+1 < len(tokens) {
			a.TotalSpending = tokens[i+1]
		}
		agencies = append(agencies, a)
	}
	return agencies
}

// Investments opens the agency page, expands its table to a single page and
// reads every row keyed by the header texts.
func (s *Scraper) Investments(agency string) ([]*Investment, error) {
	if err := s.browser.ClickLink(agency); err != nil {
		return nil, err
	}
	if err := s.browser.WaitVisible(LengthSelect, s.lengthTimeout); err != nil {
		return nil, err
	}
	if err := s.browser.Select(LengthSelect, LengthAllOption); err != nil {
		return nil, err
	}
	if err := s.browser.WaitAbsent(PaginateNext, s.paginationTimeout); err != nil {
		return nil, err
	}

	rowCount, err := s.browser.Count(InvestmentRows)
	if err != nil {
		return nil, err
	}
	colCount, err := s.browser.Count(FirstRowCells())
	if err != nil {
		return nil, err
	}
	s.logger.Info("investment table expanded",
		zap.String("agency", agency), zap.Int("rows", rowCount), zap.Int("cols", colCount))

	headers := make([]string, 0, colCount)
	for c := 1; c <= colCount; c++ {
		h, err := s.browser.Text(HeaderCell(c))
		if err != nil {
			return nil, fmt.Errorf("header %d: %w", c, err)
		}
		headers = append(headers, h)
	}

	rows := make([]*Investment, 0, rowCount)
	for r := 1; r <= rowCount; r++ {
		row := NewInvestment()
		for c, h := range headers {
			v, err := s.browser.Text(Cell(r, c+1))
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c+1, err)
			}
			row.Set(h, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
