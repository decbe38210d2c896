package xlsxstorage

// Writes the scraped tables into one workbook: the agency tiles on
// "Agencies" and one investment sheet per agency. A failure half way leaves
// whatever was saved before it; there is no rollback.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const AgenciesSheet = "Agencies"

type options struct {
	logger        *zap.Logger
	path          string
	spendingLabel string
}

var defaultOptions = options{
	logger:        zap.NewNop(),
	path:          filepath.Join("output", "collected_data.xlsx"),
	spendingLabel: "Total FY2021 Spending:",
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithPath(path string) Option {
	return func(opts *options) {
		opts.path = path
	}
}

// WithSpendingLabel sets the second header of the Agencies sheet.
func WithSpendingLabel(label string) Option {
	return func(opts *options) {
		opts.spendingLabel = label
	}
}

type Workbook struct {
	options
}

func New(opts ...Option) *Workbook {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Workbook{options: options}
}

func (w *Workbook) Path() string {
	return w.path
}

// SaveAgencies creates a new workbook, replacing any file at the path.
func (w *Workbook) SaveAgencies(agencies []dashboard.AgencySummary) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), AgenciesSheet); err != nil {
		return err
	}
	if err := setRow(f, AgenciesSheet, 1, []string{"Name", w.spendingLabel}); err != nil {
		return err
	}
	for i, a := range agencies {
		if err := setRow(f, AgenciesSheet, i+2, []string{a.Name, a.TotalSpending}); err != nil {
			return err
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	w.logger.Info("agencies saved", zap.String("path", w.path), zap.Int("rows", len(agencies)))
	return nil
}

// SaveInvestments adds the sheet SheetName(agency) to the existing workbook.
// Row 1 holds the columns of all rows in first-seen order.
func (w *Workbook) SaveInvestments(agency string, rows []*dashboard.Investment) error {
	sheet := SheetName(agency)
	if sheet != agency {
		w.logger.Warn("sheet name shortened", zap.String("agency", agency), zap.String("sheet", sheet))
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.path, err)
	}
	defer f.Close()

	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	cols := dashboard.Columns(rows)
	if err := setRow(f, sheet, 1, cols); err != nil {
		return err
	}
	for i, r := range rows {
		values := make([]string, len(cols))
		for j, c := range cols {
			values[j] = r.Get(c)
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	w.logger.Info("investments saved",
		zap.String("path", w.path), zap.String("sheet", sheet), zap.Int("rows", len(rows)))
	return nil
}

// maxSheetName is the longest sheet name Excel accepts, in characters.
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")",
)

// SheetName makes an agency name usable as a sheet name: the characters Excel
// forbids are replaced, leading and trailing apostrophes dropped and the
// result cut to 31 characters.
func SheetName(agency string) string {
	name := strings.Trim(sheetNameReplacer.Replace(agency), "' ")
	if r := []rune(name); len(r) > maxSheetName {
		name = strings.TrimRight(string(r[:maxSheetName]), "' ")
	}
	if name == "" {
		return "Investments"
	}
	return name
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
