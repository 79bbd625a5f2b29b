package tests

import (
	"strings"
	"testing"

	"gorm.io/conditions/utils"
)

// CountPlaceholders count ? placeholders outside quoted literals
func CountPlaceholders(sql string) (count int) {
	var quoted bool
	for _, c := range sql {
		switch {
		case c == '\'':
			quoted = !quoted
		case c == '?' && !quoted:
			count++
		}
	}
	return count
}

// AssertAligned placeholders, values and columns must line up one to one
func AssertAligned(t *testing.T, sql string, values []interface{}, columns int) {
	t.Helper()

	if placeholders := CountPlaceholders(sql); placeholders != len(values) || placeholders != columns {
		t.Errorf("%v: %q has %d placeholders, %d values and %d columns",
			utils.FileWithLineNum(), sql, placeholders, len(values), columns)
	}
}

// Placeholders n comma separated placeholders
func Placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
