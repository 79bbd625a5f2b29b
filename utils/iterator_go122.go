//go:build !go1.23
// +build !go1.23

package utils

import "reflect"

// ConvertIteratorToSlice iterators need go1.23, the value is returned unchanged
func ConvertIteratorToSlice(v reflect.Value) (reflect.Value, bool) {
	return v, false
}
