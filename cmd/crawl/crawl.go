package crawl

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dszqbsm/itdashboard/browser"
	"github.com/dszqbsm/itdashboard/config"
	"github.com/dszqbsm/itdashboard/dashboard"
	"github.com/dszqbsm/itdashboard/download"
	"github.com/dszqbsm/itdashboard/engine"
	"github.com/dszqbsm/itdashboard/limiter"
	"github.com/dszqbsm/itdashboard/log"
	"github.com/dszqbsm/itdashboard/pdfcheck"
	"github.com/dszqbsm/itdashboard/proxy"
	"github.com/dszqbsm/itdashboard/storage/sqlstorage"
	"github.com/dszqbsm/itdashboard/storage/xlsxstorage"
	"github.com/dszqbsm/itdashboard/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// run子命令，执行一次完整的采集
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "collect the dashboard into the workbook and download business cases.",
	Long:  "collect the dashboard into the workbook and download business cases.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cfgFile)
	},
}

// clean子命令，只清理输出目录中的PDF
var CleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "remove PDFs left in the output directory.",
	Long:  "remove PDFs left in the output directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Clean(cfgFile)
	},
}

// 通过--config标志指定的配置文件路径
var cfgFile string

func init() {
	RunCmd.Flags().StringVar(
		&cfgFile, "config", "config.yaml", "set config file")
	CleanCmd.Flags().StringVar(
		&cfgFile, "config", "config.yaml", "set config file")
}

/*
输入配置文件路径，输出一个error

加载配置、初始化日志、创建浏览器和各个阶段，配置了sqlURL时额外创建SQL镜像（创建失败只记录日志），最后执行引擎
收到中断信号时取消上下文
*/
func Run(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, closer, err := log.NewRunLogger(level, cfg.Output.ErrorLog)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	logger.Info("log init end")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := NewBrowser(ctx, cfg, logger)
	if err != nil {
		logger.Error("create browser failed", zap.Error(err))
		return err
	}

	label := cfg.SpendingLabel()
	checker := pdfcheck.New(pdfcheck.WithLogger(logger.Named("check")))
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithLandingURL(cfg.Site.URL),
		engine.WithAgency(cfg.Site.Agency),
		engine.WithOutputDir(cfg.Output.Dir),
		engine.WithBrowser(b),
		engine.WithCleaner(workspace.NewCleaner(workspace.WithLogger(logger.Named("workspace")))),
		engine.WithScraper(dashboard.NewScraper(b,
			dashboard.WithLogger(logger.Named("dashboard")),
			dashboard.WithSpendingLabel(label),
			dashboard.WithTilesTimeout(cfg.Timeout.Tiles),
			dashboard.WithLengthTimeout(cfg.Timeout.LengthSelector),
			dashboard.WithPaginationTimeout(cfg.Timeout.Pagination),
		)),
		engine.WithWorkbook(xlsxstorage.New(
			xlsxstorage.WithLogger(logger.Named("xlsx")),
			xlsxstorage.WithPath(cfg.Output.Workbook),
			xlsxstorage.WithSpendingLabel(label),
		)),
		engine.WithDownloader(download.New(b, checker,
			download.WithLogger(logger.Named("download")),
			download.WithDir(cfg.Output.Dir),
			download.WithBusinessCaseTimeout(cfg.Timeout.BusinessCase),
			download.WithFileTimeout(cfg.Timeout.Download),
		)),
	}
	if cfg.Storage.SqlURL != "" {
		storage, err := sqlstorage.New(
			sqlstorage.WithSqlURL(cfg.Storage.SqlURL),
			sqlstorage.WithLogger(logger.Named("sqlDB")),
			sqlstorage.WithBatchCount(cfg.Storage.BatchCount),
		)
		if err != nil {
			logger.Error("create sqlstorage failed", zap.Error(err))
		} else {
			opts = append(opts, engine.WithMirror(storage))
		}
	}

	if _, err := engine.NewEngine(opts...).Run(ctx); err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}
	return nil
}

// 按cfg.Browser创建浏览器会话：类型、超时、无头模式、UA、下载目录、限速和代理
func NewBrowser(ctx context.Context, cfg config.Config, logger *zap.Logger) (browser.Browser, error) {
	typ, err := browser.ParseType(cfg.Browser.Type)
	if err != nil {
		return nil, err
	}
	opts := []browser.Option{
		browser.WithLogger(logger.Named("browser")),
		browser.WithTimeout(cfg.Timeout.Default),
		browser.WithHeadless(cfg.Browser.Headless),
		browser.WithUserAgent(cfg.Browser.UserAgent),
		browser.WithDownloadDir(cfg.Output.Dir),
		browser.WithLimiter(limiter.New(cfg.Browser.Limits...)),
		browser.WithPages(cfg.Browser.Pages),
	}
	if len(cfg.Browser.Proxy) > 0 {
		p, err := proxy.RoundRobinProxySwitcher(cfg.Browser.Proxy...)
		if err != nil {
			return nil, err
		}
		logger.Sugar().Info("proxy list: ", cfg.Browser.Proxy)
		opts = append(opts, browser.WithProxy(p))
	}
	return browser.New(ctx, typ, opts...), nil
}

// 只清理输出目录中的PDF，不启动浏览器
func Clean(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := log.NewLogger(log.NewStdoutPlugin(level))
	defer logger.Sync()

	workspace.NewCleaner(workspace.WithLogger(logger)).Clean(cfg.Output.Dir)
	return nil
}
