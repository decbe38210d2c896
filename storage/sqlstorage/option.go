package sqlstorage

import (
	"go.uber.org/zap"
)

// 存储配置选项
type options struct {
	logger     *zap.Logger
	sqlURL     string
	BatchCount int // 每条INSERT语句最多插入的行数
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	BatchCount: 50,
}

// 函数式选项，用于修改存储配置
type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithSqlURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.BatchCount = batchCount
	}
}
