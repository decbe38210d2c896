package check

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/dszqbsm/itdashboard/log"
	"github.com/dszqbsm/itdashboard/pdfcheck"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var CheckCmd = &cobra.Command{
	Use:   "check <pdf>",
	Short: "compare a business case PDF with a UII and title.",
	Long:  "compare a business case PDF with a UII and title. The UII defaults to the file name without .pdf.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Check(args[0], uii, title, page)
	},
}

var (
	uii   string
	title string
	page  int
)

func init() {
	CheckCmd.Flags().StringVar(&uii, "uii", "", "expected UII")
	CheckCmd.Flags().StringVar(&title, "title", "", "expected investment title")
	CheckCmd.Flags().IntVar(&page, "page", 2, "page holding Section A, counted from 1")
}

// Check compares the business case at path with uii and title, reading
// Section A from the given 1-based page.
func Check(path, uii, title string, page int) error {
	if page < 1 {
		return fmt.Errorf("page %d: pages are counted from 1", page)
	}
	if uii == "" {
		uii = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	row := dashboard.NewInvestment()
	row.Set(dashboard.ColumnUII, uii)
	row.Set(dashboard.ColumnTitle, title)

	logger := log.NewLogger(log.NewStderrPlugin(zapcore.InfoLevel))
	defer logger.Sync()
	if !pdfcheck.New(pdfcheck.WithLogger(logger), pdfcheck.WithPage(page-1)).Check(path, row) {
		return fmt.Errorf("%s does not match", path)
	}
	logger.Info("business case matches", zap.String("file", path))
	return nil
}
