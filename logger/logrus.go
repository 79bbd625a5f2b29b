package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"gorm.io/conditions/utils"
)

// LogrusLogger logs through logrus
type LogrusLogger struct {
	Logger *logrus.Logger
	Config
}

// NewLogrusLogger create a logger writing to logger
func NewLogrusLogger(logger *logrus.Logger, config Config) Interface {
	return &LogrusLogger{Logger: logger, Config: config}
}

// LogMode log mode
func (l *LogrusLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.entry(ctx, data).Info(msg)
	}
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.entry(ctx, data).Warn(msg)
	}
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.entry(ctx, data).Error(msg)
	}
}

func (l *LogrusLogger) entry(ctx context.Context, data []interface{}) *logrus.Entry {
	entry := logrus.NewEntry(l.Logger)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry.WithFields(logrus.Fields{"file": utils.FileWithLineNum(), "data": data})
}

// Trace log a compiled where clause
func (l *LogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, []interface{}), err error) {
	c, ok := traceCompiled(ctx, l.Config, begin, fc, err)
	if !ok {
		return
	}

	fields := logrus.Fields{
		"file":     c.File,
		"duration": c.Duration,
		"where":    c.Where,
		"binds":    c.Binds,
	}
	if c.Vars != nil {
		fields["vars"] = c.Vars
	}

	entry := logrus.NewEntry(l.Logger)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}

	switch c.Level {
	case Error:
		entry.WithFields(fields).WithError(c.Err).Error(c.message())
	case Warn:
		fields["slow_threshold"] = c.Slow.String()
		entry.WithFields(fields).Warn(c.message())
	default:
		entry.WithFields(fields).Info(c.message())
	}
}
