package logger

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gorm.io/conditions/utils"
)

// ZapLogger logs through zap, traced compiles carry the where clause and its binds as fields
type ZapLogger struct {
	Logger *zap.Logger
	Config
}

// NewZapLogger create a logger writing to logger
func NewZapLogger(logger *zap.Logger, config Config) Interface {
	return &ZapLogger{Logger: logger, Config: config}
}

// LogMode log mode
func (l *ZapLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.Logger.Info(msg, zap.String("file", utils.FileWithLineNum()), zap.Any("data", data))
	}
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.Logger.Warn(msg, zap.String("file", utils.FileWithLineNum()), zap.Any("data", data))
	}
}

func (l *ZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.Logger.Error(msg, zap.String("file", utils.FileWithLineNum()), zap.Any("data", data))
	}
}

// Trace log a compiled where clause
func (l *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, []interface{}), err error) {
	c, ok := traceCompiled(ctx, l.Config, begin, fc, err)
	if !ok {
		return
	}

	fields := []zap.Field{
		zap.String("file", c.File),
		zap.String("duration", c.Duration),
		zap.String("where", c.Where),
		zap.Int("binds", c.Binds),
	}
	if c.Vars != nil {
		fields = append(fields, zap.Any("vars", c.Vars))
	}

	switch c.Level {
	case Error:
		l.Logger.Error(c.message(), append(fields, zap.Error(c.Err))...)
	case Warn:
		l.Logger.Warn(c.message(), append(fields, zap.Duration("slow_threshold", c.Slow))...)
	default:
		l.Logger.Info(c.message(), fields...)
	}
}
