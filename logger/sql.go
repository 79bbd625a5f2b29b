package logger

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const tmFmt = "2006-01-02 15:04:05.999"

func isPrintable(s []byte) bool {
	for _, r := range s {
		if !unicode.IsPrint(rune(r)) {
			return false
		}
	}
	return true
}

// ExplainSQL inline vars into a where clause for debug output, the result is not meant to be executed.
// numericPlaceholder matches positional placeholders such as $1, nil for ? placeholders.
func ExplainSQL(sql string, numericPlaceholder *regexp.Regexp, escaper string, vars ...interface{}) string {
	values := make([]string, len(vars))
	for idx, v := range vars {
		values[idx] = explainValue(v, escaper)
	}

	if numericPlaceholder == nil {
		var (
			builder strings.Builder
			idx     int
		)
		for _, c := range []byte(sql) {
			if c == '?' && idx < len(values) {
				builder.WriteString(values[idx])
				idx++
				continue
			}
			builder.WriteByte(c)
		}
		return builder.String()
	}

	return numericPlaceholder.ReplaceAllStringFunc(sql, func(placeholder string) string {
		match := numericPlaceholder.FindStringSubmatch(placeholder)
		if len(match) < 2 {
			return placeholder
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n > 0 && n <= len(values) {
			return values[n-1]
		}
		return placeholder
	})
}

func explainValue(v interface{}, escaper string) string {
	if valuer, ok := v.(driver.Valuer); ok {
		v, _ = valuer.Value()
	}

	escape := func(s string) string {
		return escaper + strings.ReplaceAll(s, escaper, "\\"+escaper) + escaper
	}

	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.IsZero() {
			return escape("0000-00-00 00:00:00")
		}
		return escape(v.Format(tmFmt))
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return explainValue(*v, escaper)
	case []byte:
		if isPrintable(v) {
			return escape(string(v))
		}
		return escape("<binary>")
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return escape(v)
	case fmt.Stringer:
		return escape(v.String())
	default:
		return escape(fmt.Sprint(v))
	}
}
