package logger

import (
	"context"
	"fmt"
	"time"

	"gorm.io/conditions/utils"
)

// ParamsFilter drop the bind values when queries are parameterized
func (c Config) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if c.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}

// compiled a traced compile as the structured adapters log it
type compiled struct {
	Level    LogLevel
	File     string
	Duration string
	Where    string
	Binds    int
	Vars     []interface{}
	Slow     time.Duration
	Err      error
}

// traceCompiled resolve the level a compile is logged at, false when config filters it out.
// fc is only called for logged compiles.
func traceCompiled(ctx context.Context, config Config, begin time.Time, fc func() (string, []interface{}), err error) (compiled, bool) {
	if config.LogLevel <= Silent {
		return compiled{}, false
	}

	elapsed := time.Since(begin)
	c := compiled{Duration: fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6)}
	switch {
	case err != nil && config.LogLevel >= Error:
		c.Level, c.Err = Error, err
	case config.SlowThreshold != 0 && elapsed > config.SlowThreshold && config.LogLevel >= Warn:
		c.Level, c.Slow = Warn, config.SlowThreshold
	case config.LogLevel >= Info:
		c.Level = Info
	default:
		return compiled{}, false
	}

	sql, vars := fc()
	c.File = utils.FileWithLineNum()
	c.Where, c.Binds = sql, len(vars)
	_, c.Vars = config.ParamsFilter(ctx, sql, vars...)
	return c, true
}

func (c compiled) message() string {
	if c.Slow > 0 {
		return "slow where compiled"
	}
	return "where compiled"
}
