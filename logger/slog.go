//go:build go1.21

package logger

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/conditions/utils"
)

type slogLogger struct {
	Logger *slog.Logger
	Config
}

// NewSlogLogger create a logger writing to logger, Colorful is ignored
func NewSlogLogger(logger *slog.Logger, config Config) Interface {
	return &slogLogger{Logger: logger, Config: config}
}

func (l *slogLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.log(ctx, slog.LevelInfo, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.log(ctx, slog.LevelWarn, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.log(ctx, slog.LevelError, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, []interface{}), err error) {
	c, ok := traceCompiled(ctx, l.Config, begin, fc, err)
	if !ok {
		return
	}

	fields := []slog.Attr{
		slog.String("duration", c.Duration),
		slog.String("where", c.Where),
		slog.Int("binds", c.Binds),
	}
	if c.Vars != nil {
		fields = append(fields, slog.Any("vars", c.Vars))
	}

	level := slog.LevelInfo
	switch c.Level {
	case Error:
		level = slog.LevelError
		fields = append(fields, slog.String("error", c.Err.Error()))
	case Warn:
		level = slog.LevelWarn
		fields = append(fields, slog.Duration("slow_threshold", c.Slow))
	}
	l.log(ctx, level, c.message(), slog.Attr{Key: "trace", Value: slog.GroupValue(fields...)})
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !l.Logger.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, utils.CallerFrame().PC)
	r.Add(args...)
	_ = l.Logger.Handler().Handle(ctx, r)
}
