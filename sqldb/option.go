package sqldb

import (
	"go.uber.org/zap"
)

// 数据库配置选项
type options struct {
	logger *zap.Logger
	sqlURL string
}

var defaultOptions = options{
	logger: zap.NewNop(),
}

// 函数式选项，用于修改数据库配置
type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// 设置连接地址，格式为go-sql-driver/mysql的DSN
func WithConnURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}
