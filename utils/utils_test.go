package utils

import (
	"reflect"
	"testing"
)

func TestFileWithLineNum(t *testing.T) {
	t.Log("file line with num: ", FileWithLineNum())
}

func TestToStringKey(t *testing.T) {
	cases := []struct {
		values []interface{}
		key    string
	}{
		{[]interface{}{"a"}, "a"},
		{[]interface{}{1, 2}, "1_2"},
		{[]interface{}{uint(1), "b"}, "1_b"},
		{[]interface{}{nil, 3}, "null_3"},
		{[]interface{}{[]byte("x")}, "x"},
	}

	for _, c := range cases {
		if key := ToStringKey(c.values...); key != c.key {
			t.Errorf("%v: expects key %v, got %v", c.values, c.key, key)
		}
	}
}

func TestToValues(t *testing.T) {
	cases := []struct {
		value  interface{}
		values []interface{}
		ok     bool
	}{
		{[]int{1, 2}, []interface{}{1, 2}, true},
		{[2]string{"a", "b"}, []interface{}{"a", "b"}, true},
		{[]interface{}{}, []interface{}{}, true},
		{[]byte("bytes"), nil, false},
		{"scalar", nil, false},
		{nil, nil, false},
	}

	for idx, c := range cases {
		values, ok := ToValues(c.value)
		if ok != c.ok || !reflect.DeepEqual(values, c.values) {
			t.Errorf("case #%v: expects %v %v, got %v %v", idx, c.values, c.ok, values, ok)
		}
	}
}
