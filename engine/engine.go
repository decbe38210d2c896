package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/dszqbsm/itdashboard/dashboard"
	"go.uber.org/zap"
)

// 镜像存储接口，每张采集到的投资表都会额外保存一份
type Mirror interface {
	Save(table string, rows ...*dashboard.Investment) error
	Close() error
}

// 采集引擎，在同一个浏览器会话上依次执行各个阶段
type Crawler struct {
	options
}

// 应用配置选项，创建并返回一个采集引擎实例
func NewEngine(opts ...Option) *Crawler {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Crawler{options: options}
}

// 一次运行的统计结果
type Result struct {
	Agencies    int
	Investments int
	Links       int
	Files       []string
	Removed     int // 运行前清理掉的旧PDF数量
}

// 检查必需的阶段是否都已配置
func (e *Crawler) check() error {
	switch {
	case e.Browser == nil:
		return errors.New("engine: no browser")
	case e.Scraper == nil:
		return errors.New("engine: no scraper")
	case e.Workbook == nil:
		return errors.New("engine: no workbook")
	case e.Downloader == nil:
		return errors.New("engine: no downloader")
	}
	return nil
}

/*
输入上下文，输出运行统计和一个error

清理输出目录，将机构卡片和e.Agency的投资表写入工作簿（配置了镜像时同时写入镜像），再逐行下载并校验业务案例PDF
无论从哪个分支返回，浏览器和镜像都会被关闭；镜像写入失败只记录日志，不中断运行
*/
func (e *Crawler) Run(ctx context.Context) (res Result, err error) {
	if err := e.check(); err != nil {
		return res, err
	}
	defer func() {
		if cerr := e.Browser.Close(); cerr != nil {
			e.Logger.Warn("close browser failed", zap.Error(cerr))
		}
		if e.Mirror != nil {
			if cerr := e.Mirror.Close(); cerr != nil {
				e.Logger.Error("close mirror failed", zap.Error(cerr))
			}
		}
	}()

	if e.Cleaner != nil {
		res.Removed = e.Cleaner.Clean(e.OutputDir)
	}
	if err := e.Browser.SetDownloadDir(e.OutputDir); err != nil {
		return res, fmt.Errorf("download dir: %w", err)
	}

	agencies, err := e.Scraper.Agencies(e.LandingURL)
	if err != nil {
		return res, fmt.Errorf("agencies: %w", err)
	}
	res.Agencies = len(agencies)
	if err := e.Workbook.SaveAgencies(agencies); err != nil {
		return res, fmt.Errorf("save agencies: %w", err)
	}

	rows, err := e.Scraper.Investments(e.Agency)
	if err != nil {
		return res, fmt.Errorf("investments of %s: %w", e.Agency, err)
	}
	res.Investments = len(rows)
	if err := e.Workbook.SaveInvestments(e.Agency, rows); err != nil {
		return res, fmt.Errorf("save investments: %w", err)
	}
	if e.Mirror != nil {
		if err := e.Mirror.Save(e.Agency, rows...); err != nil {
			e.Logger.Error("mirror investments failed", zap.String("agency", e.Agency), zap.Error(err))
		}
	}

	links, err := e.Downloader.Links(rows)
	if err != nil {
		return res, fmt.Errorf("links: %w", err)
	}
	res.Links = len(links)
	res.Files, err = e.Downloader.Download(ctx, links, rows)
	if err != nil {
		return res, fmt.Errorf("download: %w", err)
	}

	e.Logger.Info("run finished",
		zap.Int("agencies", res.Agencies),
		zap.Int("investments", res.Investments),
		zap.Int("files", len(res.Files)))
	return res, nil
}
