//go:build go1.23
// +build go1.23

package utils

import (
	"reflect"
)

// isIteratorSeq checks if the given reflect.Value is an iter.Seq[T]
func isIteratorSeq(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}

	t := v.Type()
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}

	// func(T) bool
	yield := t.In(0)
	return yield.Kind() == reflect.Func && yield.NumIn() == 1 && yield.NumOut() == 1 &&
		yield.Out(0) == reflect.TypeOf(true)
}

// ConvertIteratorToSlice collects the values of an iter.Seq[T] into a []T
func ConvertIteratorToSlice(v reflect.Value) (reflect.Value, bool) {
	if !isIteratorSeq(v) {
		return v, false
	}

	yieldType := v.Type().In(0)
	result := reflect.MakeSlice(reflect.SliceOf(yieldType.In(0)), 0, 0)
	v.Call([]reflect.Value{reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
		result = reflect.Append(result, args[0])
		return []reflect.Value{reflect.ValueOf(true)}
	})})

	return result, true
}
