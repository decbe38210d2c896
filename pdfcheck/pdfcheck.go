package pdfcheck

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	sectionStart = "Section A"
	sectionEnd   = "Section B"
	uiiMarker    = "(UII):"
	titleMarker  = "Name of this Investment:"
	titleEnd     = "2. Unique "
)

var ErrNoSection = errors.New("pdfcheck: section A not found")

// TextExtractor returns the plain text of every page, in page order.
type TextExtractor interface {
	Pages(path string) ([]string, error)
}

// PDFExtractor reads text with github.com/ledongthuc/pdf.
type PDFExtractor struct{}

// The library panics on some malformed content streams; that is reported as
// an error.
func (PDFExtractor) Pages(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("read %s: %v", path, r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages = make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// Fields are the Section A values a business case repeats from its table row.
type Fields struct {
	UII   string
	Title string
}

/*
ExtractFields reads the fields from the text between "Section A" and
"Section B" (or the end of the text when there is no Section B).

Each value is the part after the first ": " following its marker and before
the next ": ". The UII is cut at the first blank. The title ends at
"2. Unique ", has its newlines removed and surrounding blanks trimmed.
*/
func ExtractFields(text string) (Fields, error) {
	start := strings.Index(text, sectionStart)
	if start < 0 {
		return Fields{}, ErrNoSection
	}
	section := text[start:]
	if end := strings.Index(section, sectionEnd); end >= 0 {
		section = section[:end]
	}
	section = strings.TrimSpace(section)

	var f Fields
	if i := strings.Index(section, uiiMarker); i >= 0 {
		if parts := strings.Fields(secondToken(section[i:])); len(parts) > 0 {
			f.UII = parts[0]
		}
	}
	if i := strings.Index(section, titleMarker); i >= 0 {
		seg := section[i:]
		if j := strings.Index(seg, titleEnd); j >= 0 {
			seg = seg[:j]
		}
		f.Title = strings.TrimSpace(strings.ReplaceAll(secondToken(seg), "\n", ""))
	}
	return f, nil
}

func secondToken(s string) string {
	parts := strings.Split(s, ": ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

type options struct {
	logger    *zap.Logger
	extractor TextExtractor
	page      int // 0-based page holding Section A
}

var defaultOptions = options{
	logger:    zap.NewNop(),
	extractor: PDFExtractor{},
	page:      1,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithExtractor(e TextExtractor) Option {
	return func(opts *options) {
		opts.extractor = e
	}
}

func WithPage(page int) Option {
	return func(opts *options) {
		opts.page = page
	}
}

// Checker compares downloaded business cases with their table rows. It never
// fails the caller: every problem becomes one error log entry.
type Checker struct {
	options
}

func New(opts ...Option) *Checker {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Checker{options: options}
}

// Check reports whether the file at path agrees with row on UII and title.
func (c *Checker) Check(path string, row *dashboard.Investment) bool {
	name := filepath.Base(path)
	fields, err := c.fields(path)
	if err != nil {
		c.logger.Error("cannot read business case",
			zap.String("file", name), zap.String("uii", row.UII()), zap.Error(err))
		return false
	}
	if fields.UII != row.UII() || fields.Title != row.Title() {
		c.logger.Error(fmt.Sprintf("A file named %s does not match its table entry", name),
			zap.String("file", name),
			zap.String("pdfUII", fields.UII), zap.String("tableUII", row.UII()),
			zap.String("pdfTitle", fields.Title), zap.String("tableTitle", row.Title()))
		return false
	}
	c.logger.Debug("business case matches", zap.String("file", name))
	return true
}

func (c *Checker) fields(path string) (Fields, error) {
	pages, err := c.extractor.Pages(path)
	if err != nil {
		return Fields{}, err
	}
	if c.page >= len(pages) {
		return Fields{}, fmt.Errorf("page %d requested, document has %d", c.page+1, len(pages))
	}
	return ExtractFields(pages[c.page])
}
