package conditions

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCondition malformed condition, wrapped with a description of the problem
	ErrInvalidCondition = errors.New("invalid condition")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidCondition}, args...)...)
}
