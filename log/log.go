package log

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 日志插件即zap的日志核心，决定日志写到哪里、以什么级别过滤
type Plugin = zapcore.Core

/*
输入一个日志核心和可选的zap配置选项，输出一个zap日志实例

先应用DefaultOption()的默认选项，再追加调用方传入的选项
*/
func NewLogger(plugin zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

// 使用JSON编码器创建一个写入writer的日志核心，文件日志使用该格式
func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

// 创建一个写入标准输出的日志核心，使用便于阅读的控制台格式
func NewStdoutPlugin(enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(ConsoleEncoder(), zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

// 创建一个写入标准错误输出的日志核心，check子命令使用它，以免与标准输出混在一起
func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(ConsoleEncoder(), zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// Lumberjack logger虽然持有文件但没有暴露Sync方法，因此额外返回一个closer，进程退出前必须close，保证内容全部刷到磁盘
/*
输入日志文件路径和日志级别过滤器，输出一个日志核心、一个io.Closer和一个error

先创建日志文件所在目录，文件以追加方式打开，历次运行的记录都会保留
*/
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, nil, err
	}
	var writer = DefaultLumberjackLogger()
	writer.Filename = filePath
	return NewPlugin(zapcore.AddSync(writer), enabler), writer, nil
}

/*
输入日志级别和错误日志文件路径，输出一次采集运行使用的日志实例、一个io.Closer和一个error

level及以上的日志写到标准输出，Error及以上的日志同时追加到errorLog；errorLog为空时不写文件，返回的closer什么也不做
*/
func NewRunLogger(level zapcore.Level, errorLog string) (*zap.Logger, io.Closer, error) {
	plugins := []Plugin{NewStdoutPlugin(level)}
	var closer io.Closer = nopCloser{}
	if errorLog != "" {
		filePlugin, c, err := NewFilePlugin(errorLog, zapcore.ErrorLevel)
		if err != nil {
			return nil, nil, err
		}
		plugins = append(plugins, filePlugin)
		closer = c
	}
	return NewLogger(zapcore.NewTee(plugins...)), closer, nil
}

// 不持有任何资源的closer
type nopCloser struct{}

func (nopCloser) Close() error { return nil }
