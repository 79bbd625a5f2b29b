package conditions

import (
	"time"

	"github.com/jinzhu/now"
)

// WithinDay attribute within the day of t, bounds in the location of t
func WithinDay(attribute string, t time.Time) ColumnCondition {
	n := now.With(t)
	return within(attribute, n.BeginningOfDay(), n.EndOfDay())
}

// WithinMonth attribute within the month of t
func WithinMonth(attribute string, t time.Time) ColumnCondition {
	n := now.With(t)
	return within(attribute, n.BeginningOfMonth(), n.EndOfMonth())
}

// WithinYear attribute within the year of t
func WithinYear(attribute string, t time.Time) ColumnCondition {
	n := now.With(t)
	return within(attribute, n.BeginningOfYear(), n.EndOfYear())
}

// Today attribute within the current day, per the compiler NowFunc
func (compiler *Compiler) Today(attribute string) ColumnCondition {
	return WithinDay(attribute, compiler.NowFunc())
}

func within(attribute string, begin, end time.Time) ColumnCondition {
	return ColumnCondition{attribute: attribute, operator: WithinRange, values: []interface{}{begin, end}, caseSensitive: true}
}
