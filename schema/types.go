package schema

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

// ValueType the declared value type of an attribute
type ValueType string

const (
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeBool   ValueType = "bool"
	TypeTime   ValueType = "time"
	TypeUUID   ValueType = "uuid"
	TypeBytes  ValueType = "bytes"
	// TypeEntity foreign key attributes, values are keys or entities
	TypeEntity ValueType = "entity"
)

// Validate check value is assignable to the value type, nil is always valid
func (t ValueType) Validate(value interface{}) error {
	if value == nil {
		return nil
	}

	var ok bool
	switch t {
	case TypeString:
		_, ok = value.(string)
	case TypeInt:
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ok = true
		}
	case TypeFloat:
		switch value.(type) {
		case float32, float64:
			ok = true
		}
	case TypeBool:
		_, ok = value.(bool)
	case TypeTime:
		switch value.(type) {
		case time.Time, *time.Time:
			ok = true
		}
	case TypeUUID:
		switch value.(type) {
		case uuid.UUID, *uuid.UUID:
			ok = true
		}
	case TypeBytes:
		_, ok = value.([]byte)
	case TypeEntity:
		switch value.(type) {
		case Key, *Key, *Entity:
			ok = true
		}
	default:
		return fmt.Errorf("%w: unknown value type %q", ErrInvalidValue, t)
	}

	if !ok {
		return fmt.Errorf("%w: %T is not a %s value", ErrInvalidValue, value, t)
	}
	return nil
}

// Parse parse text input into a value of the value type
func (t ValueType) Parse(text string) (interface{}, error) {
	var (
		value interface{}
		err   error
	)

	switch t {
	case TypeString:
		return text, nil
	case TypeInt:
		value, err = strconv.ParseInt(text, 10, 64)
	case TypeFloat:
		value, err = strconv.ParseFloat(text, 64)
	case TypeBool:
		value, err = strconv.ParseBool(text)
	case TypeTime:
		value, err = now.Parse(text)
	case TypeUUID:
		value, err = uuid.Parse(text)
	case TypeBytes:
		return []byte(text), nil
	default:
		return nil, fmt.Errorf("%w: can not parse %s values", ErrInvalidValue, t)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a %s value: %v", ErrInvalidValue, text, t, err)
	}
	return value, nil
}
