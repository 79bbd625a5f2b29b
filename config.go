package conditions

import (
	"time"

	"gorm.io/conditions/clause"
	"gorm.io/conditions/logger"
)

// Config compiler config
type Config struct {
	// InClauseLimit max values in one in list, longer lists are split into or'ed in lists
	InClauseLimit int
	// UpperFunction sql function folding case of text compared case insensitively
	UpperFunction string

	// Logger traces every compiled clause
	Logger logger.Interface
	// NowFunc the function to be used when creating a new timestamp
	NowFunc func() time.Time
}

// ConfigOption use functional option for Config.
type ConfigOption func(c *Config)

// WithLogger set logger.
func WithLogger(logger logger.Interface) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithInClauseLimit set in list limit, a negative limit disables splitting.
func WithInClauseLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.InClauseLimit = limit
	}
}

// WithUpperFunction set the function folding case.
func WithUpperFunction(name string) ConfigOption {
	return func(c *Config) {
		c.UpperFunction = name
	}
}

// WithNowFunc set now func.
func WithNowFunc(fn func() time.Time) ConfigOption {
	return func(c *Config) {
		c.NowFunc = fn
	}
}

func (c *Config) apply(opts ...ConfigOption) *Config {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.InClauseLimit == 0 {
		c.InClauseLimit = clause.DefaultInLimit
	} else if c.InClauseLimit < 0 {
		c.InClauseLimit = 0
	}

	if c.UpperFunction == "" {
		c.UpperFunction = "upper"
	}

	if c.Logger == nil {
		c.Logger = logger.Default
	}

	if c.NowFunc == nil {
		c.NowFunc = func() time.Time { return time.Now().Local() }
	}
	return c
}
