package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"gorm.io/conditions/utils"
)

// ZerologLogger logs through zerolog
type ZerologLogger struct {
	Logger zerolog.Logger
	Config
}

// NewZerologLogger create a logger writing to logger
func NewZerologLogger(logger zerolog.Logger, config Config) Interface {
	return &ZerologLogger{Logger: logger, Config: config}
}

// LogMode log mode
func (l *ZerologLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *ZerologLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.message(ctx, l.Logger.Info(), msg, data)
	}
}

func (l *ZerologLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.message(ctx, l.Logger.Warn(), msg, data)
	}
}

func (l *ZerologLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.message(ctx, l.Logger.Error(), msg, data)
	}
}

func (l *ZerologLogger) message(ctx context.Context, event *zerolog.Event, msg string, data []interface{}) {
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	event.Str("file", utils.FileWithLineNum()).Interface("data", data).Msg(msg)
}

// Trace log a compiled where clause
func (l *ZerologLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, []interface{}), err error) {
	c, ok := traceCompiled(ctx, l.Config, begin, fc, err)
	if !ok {
		return
	}

	var event *zerolog.Event
	switch c.Level {
	case Error:
		event = l.Logger.Error().Err(c.Err)
	case Warn:
		event = l.Logger.Warn().Dur("slow_threshold", c.Slow)
	default:
		event = l.Logger.Info()
	}
	if ctx != nil {
		event = event.Ctx(ctx)
	}

	event = event.Str("file", c.File).Str("duration", c.Duration).Str("where", c.Where).Int("binds", c.Binds)
	if c.Vars != nil {
		event = event.Interface("vars", c.Vars)
	}
	event.Msg(c.message())
}
