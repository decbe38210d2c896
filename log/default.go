package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 默认的编码配置：在生产配置的基础上使用大写的日志级别和ISO8601格式的时间
func DefaultEncoderConfig() zapcore.EncoderConfig {
	var encoderConfig = zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return encoderConfig
}

// 默认编码器，每条日志一行JSON，用于写文件
func DefaultEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(DefaultEncoderConfig())
}

// 控制台编码器，用于标准输出和标准错误输出
func ConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(DefaultEncoderConfig())
}

// 默认选项：记录调用位置，只有DPanic及以上级别才记录调用栈
func DefaultOption() []zap.Option {
	var stackTraceLevel zap.LevelEnablerFunc = func(level zapcore.Level) bool {
		return level >= zapcore.DPanicLevel
	}
	return []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(stackTraceLevel),
	}
}

// 默认的日志轮转配置：单个文件达到200MB时轮转，使用本地时间命名，轮转后的文件不压缩
func DefaultLumberjackLogger() *lumberjack.Logger {
	return &lumberjack.Logger{
		MaxSize:   200,
		LocalTime: true,
		Compress:  false,
	}
}
