package conditions

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"gorm.io/conditions/schema"
)

// condition types of the json envelope
const (
	columnType = "column"
	setType    = "set"
	customType = "custom"
	stringType = "string"
)

type envelope struct {
	Type            string      `json:"type"`
	Attribute       string      `json:"attribute,omitempty"`
	Operator        *Operator   `json:"operator,omitempty"`
	CaseInsensitive bool        `json:"caseInsensitive,omitempty"`
	Conjunction     Conjunction `json:"conjunction,omitempty"`
	Conditions      []*envelope `json:"conditions,omitempty"`
	ID              string      `json:"id,omitempty"`
	Text            string      `json:"text,omitempty"`
	Attributes      []string    `json:"attributes,omitempty"`
	Values          []*value    `json:"values,omitempty"`
}

// value a bind value tagged with its go type, so ints keep their kind and keys their layout
type value struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type key struct {
	EntityType string   `json:"entityType"`
	Attributes []string `json:"attributes"`
	Values     []*value `json:"values"`
}

// Marshal encode condition as json, nil encodes as null
func Marshal(condition Condition) ([]byte, error) {
	e, err := encodeCondition(condition)
	if err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// Unmarshal decode a condition encoded by Marshal
func Unmarshal(data []byte) (Condition, error) {
	var e *envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, invalidf("%v", err)
	}
	return decodeCondition(e)
}

type entityCondition struct {
	EntityType string    `json:"entityType"`
	Condition  *envelope `json:"condition"`
}

// MarshalJSON implements json.Marshaler
func (c EntityCondition) MarshalJSON() ([]byte, error) {
	e, err := encodeCondition(c.Condition)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entityCondition{EntityType: c.EntityType, Condition: e})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *EntityCondition) UnmarshalJSON(data []byte) error {
	var ec entityCondition
	if err := json.Unmarshal(data, &ec); err != nil {
		return invalidf("%v", err)
	}

	condition, err := decodeCondition(ec.Condition)
	if err != nil {
		return err
	}
	*c = EntityCondition{EntityType: ec.EntityType, Condition: condition}
	return nil
}

func encodeCondition(condition Condition) (*envelope, error) {
	switch c := condition.(type) {
	case nil:
		return nil, nil
	case ColumnCondition:
		values, err := encodeValues(c.values)
		if err != nil {
			return nil, invalidf("%s: %w", c.attribute, err)
		}
		operator := c.operator
		return &envelope{Type: columnType, Attribute: c.attribute, Operator: &operator, CaseInsensitive: !c.caseSensitive, Values: values}, nil
	case Set:
		e := &envelope{Type: setType, Conjunction: c.Conjunction(), Conditions: make([]*envelope, len(c.conditions))}
		for idx, child := range c.conditions {
			encoded, err := encodeCondition(child)
			if err != nil {
				return nil, err
			}
			e.Conditions[idx] = encoded
		}
		return e, nil
	case CustomCondition:
		values, err := encodeValues(c.values)
		if err != nil {
			return nil, invalidf("custom condition %s: %w", c.id, err)
		}
		return &envelope{Type: customType, ID: c.id, Attributes: c.attributes, Values: values}, nil
	case StringCondition:
		values, err := encodeValues(c.values)
		if err != nil {
			return nil, invalidf("%q: %w", c.text, err)
		}
		return &envelope{Type: stringType, Text: c.text, Attributes: c.attributes, Values: values}, nil
	}
	return nil, invalidf("unsupported condition %T", condition)
}

func decodeCondition(e *envelope) (Condition, error) {
	if e == nil {
		return nil, nil
	}

	values, err := decodeValues(e.Values)
	if err != nil {
		return nil, err
	}

	switch e.Type {
	case columnType:
		if e.Operator == nil {
			return nil, invalidf("%s: operator required", e.Attribute)
		}
		c := ColumnCondition{attribute: e.Attribute, operator: *e.Operator, values: values, caseSensitive: !e.CaseInsensitive}
		if len(values) == 0 {
			c.values = nil
		}
		return c, nil
	case setType:
		if e.Conjunction != AND && e.Conjunction != OR {
			return nil, invalidf("unknown conjunction %q", e.Conjunction)
		}

		builder := NewSetBuilder(e.Conjunction)
		for _, child := range e.Conditions {
			condition, err := decodeCondition(child)
			if err != nil {
				return nil, err
			}
			builder = builder.Add(condition)
		}
		return builder.Build(), nil
	case customType:
		return Custom(e.ID, e.Attributes, values)
	case stringType:
		return Raw(e.Text, e.Attributes, values)
	}
	return nil, invalidf("unknown condition type %q", e.Type)
}

func encodeValues(values []interface{}) ([]*value, error) {
	if values == nil {
		return nil, nil
	}

	results := make([]*value, len(values))
	for idx, v := range values {
		encoded, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		results[idx] = encoded
	}
	return results, nil
}

func encodeValue(v interface{}) (*value, error) {
	var typ string
	switch rv := v.(type) {
	case nil:
		return &value{Type: "null"}, nil
	case string:
		typ = "string"
	case bool:
		typ = "bool"
	case int:
		typ = "int"
	case int8:
		typ = "int8"
	case int16:
		typ = "int16"
	case int32:
		typ = "int32"
	case int64:
		typ = "int64"
	case uint:
		typ = "uint"
	case uint8:
		typ = "uint8"
	case uint16:
		typ = "uint16"
	case uint32:
		typ = "uint32"
	case uint64:
		typ = "uint64"
	case float32:
		typ = "float32"
	case float64:
		typ = "float64"
	case time.Time:
		typ = "time"
	case *time.Time:
		if rv == nil {
			return &value{Type: "null"}, nil
		}
		return encodeValue(*rv)
	case uuid.UUID:
		typ = "uuid"
	case *uuid.UUID:
		if rv == nil {
			return &value{Type: "null"}, nil
		}
		return encodeValue(*rv)
	case []byte:
		typ = "bytes"
	case schema.Key:
		values, err := encodeValues(rv.Values)
		if err != nil {
			return nil, err
		}
		v = key{EntityType: rv.EntityType, Attributes: rv.Attributes, Values: values}
		typ = "key"
	case *schema.Key:
		if rv == nil {
			return &value{Type: "null"}, nil
		}
		return encodeValue(*rv)
	case *schema.Entity:
		if rv == nil {
			return &value{Type: "null"}, nil
		}
		return encodeValue(rv.Key())
	default:
		return nil, invalidf("can't encode %T values", v)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &value{Type: typ, Value: raw}, nil
}

func decodeValues(values []*value) ([]interface{}, error) {
	if values == nil {
		return nil, nil
	}

	results := make([]interface{}, len(values))
	for idx, v := range values {
		decoded, err := decodeValue(v)
		if err != nil {
			return nil, err
		}
		results[idx] = decoded
	}
	return results, nil
}

func decodeValue(v *value) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch v.Type {
	case "null":
		return nil, nil
	case "string":
		return decodeAs[string](v.Value)
	case "bool":
		return decodeAs[bool](v.Value)
	case "int":
		return decodeAs[int](v.Value)
	case "int8":
		return decodeAs[int8](v.Value)
	case "int16":
		return decodeAs[int16](v.Value)
	case "int32":
		return decodeAs[int32](v.Value)
	case "int64":
		return decodeAs[int64](v.Value)
	case "uint":
		return decodeAs[uint](v.Value)
	case "uint8":
		return decodeAs[uint8](v.Value)
	case "uint16":
		return decodeAs[uint16](v.Value)
	case "uint32":
		return decodeAs[uint32](v.Value)
	case "uint64":
		return decodeAs[uint64](v.Value)
	case "float32":
		return decodeAs[float32](v.Value)
	case "float64":
		return decodeAs[float64](v.Value)
	case "time":
		return decodeAs[time.Time](v.Value)
	case "uuid":
		return decodeAs[uuid.UUID](v.Value)
	case "bytes":
		return decodeAs[[]byte](v.Value)
	case "key":
		var k key
		if err := json.Unmarshal(v.Value, &k); err != nil {
			return nil, invalidf("%v", err)
		}
		values, err := decodeValues(k.Values)
		if err != nil {
			return nil, err
		}
		return schema.Key{EntityType: k.EntityType, Attributes: k.Attributes, Values: values}, nil
	}
	return nil, invalidf("unknown value type %q", v.Type)
}

func decodeAs[T any](raw json.RawMessage) (interface{}, error) {
	var result T
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&result); err != nil {
		return nil, invalidf("%q is not a %T value: %v", raw, result, err)
	}
	return result, nil
}
