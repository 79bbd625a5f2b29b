package conditions

import (
	"fmt"
	"strings"
)

// Operator comparison operator of a column condition
type Operator int

const (
	// Like equal to, or like when a single text value holds a wildcard, in for many values
	Like Operator = iota
	// NotLike negation of Like
	NotLike
	// LessThan less than or equal to, the bound is inclusive
	LessThan
	// GreaterThan greater than or equal to, the bound is inclusive
	GreaterThan
	// WithinRange between two values, both bounds inclusive
	WithinRange
	// OutsideRange not strictly between two values, both bounds inclusive, so the bounds
	// themselves match WithinRange as well
	OutsideRange
)

var operatorNames = [...]string{
	Like:         "like",
	NotLike:      "not_like",
	LessThan:     "less_than",
	GreaterThan:  "greater_than",
	WithinRange:  "within_range",
	OutsideRange: "outside_range",
}

func (op Operator) String() string {
	if op.valid() {
		return operatorNames[op]
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// MarshalText implements encoding.TextMarshaler
func (op Operator) MarshalText() ([]byte, error) {
	if !op.valid() {
		return nil, invalidf("unknown operator %d", int(op))
	}
	return []byte(operatorNames[op]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (op *Operator) UnmarshalText(text []byte) error {
	for idx, name := range operatorNames {
		if name == string(text) {
			*op = Operator(idx)
			return nil
		}
	}
	return invalidf("unknown operator %q", text)
}

func (op Operator) valid() bool {
	return op >= Like && op <= OutsideRange
}

// values number of values the operator needs, -1 for one or more
func (op Operator) values() int {
	switch op {
	case LessThan, GreaterThan:
		return 1
	case WithinRange, OutsideRange:
		return 2
	default:
		return -1
	}
}

// Conjunction joins the conditions of a set
type Conjunction string

const (
	AND Conjunction = "and"
	OR  Conjunction = "or"
)

// Condition a predicate over the attributes of an entity, one of ColumnCondition, Set,
// CustomCondition or StringCondition
type Condition interface {
	fmt.Stringer
	condition()
}

// ColumnCondition compares one attribute against its values. A condition without values
// is a null test.
type ColumnCondition struct {
	attribute     string
	operator      Operator
	values        []interface{}
	caseSensitive bool
}

func (ColumnCondition) condition() {}

// Attribute name of the attribute compared
func (c ColumnCondition) Attribute() string {
	return c.attribute
}

// Operator comparison operator
func (c ColumnCondition) Operator() Operator {
	return c.operator
}

// Values copy of the values compared against
func (c ColumnCondition) Values() []interface{} {
	if c.values == nil {
		return nil
	}
	return append([]interface{}{}, c.values...)
}

// Value the first value, nil for null tests
func (c ColumnCondition) Value() interface{} {
	if len(c.values) == 0 {
		return nil
	}
	return c.values[0]
}

// IsNull whether the condition tests for null
func (c ColumnCondition) IsNull() bool {
	return len(c.values) == 0
}

// CaseSensitive whether text comparison is case sensitive, only applies to string attributes
func (c ColumnCondition) CaseSensitive() bool {
	return c.caseSensitive
}

// CaseInsensitive returns a copy of the condition comparing text ignoring case
func (c ColumnCondition) CaseInsensitive() ColumnCondition {
	c.caseSensitive = false
	return c
}

func (c ColumnCondition) String() string {
	if c.IsNull() {
		return fmt.Sprintf("%s %s null", c.attribute, c.operator)
	}
	return fmt.Sprintf("%s %s %v", c.attribute, c.operator, c.values)
}

// Set conditions joined by a conjunction. Sets are immutable, use SetBuilder to build them
// incrementally.
type Set struct {
	conjunction Conjunction
	conditions  []Condition
}

// Empty the condition matching all rows
var Empty Condition = Set{conjunction: AND}

func (Set) condition() {}

// Conjunction and or or
func (s Set) Conjunction() Conjunction {
	if s.conjunction == "" {
		return AND
	}
	return s.conjunction
}

// Conditions copy of the conditions in the set
func (s Set) Conditions() []Condition {
	return append([]Condition{}, s.conditions...)
}

// Len number of conditions in the set
func (s Set) Len() int {
	return len(s.conditions)
}

func (s Set) String() string {
	items := make([]string, len(s.conditions))
	for idx, c := range s.conditions {
		items[idx] = c.String()
	}
	return "(" + strings.Join(items, " "+string(s.Conjunction())+" ") + ")"
}

// CustomCondition rendered by the condition provider registered under its id on the entity
// definition. The provider output is emitted verbatim and never escaped, providers must
// not build their text from caller input.
type CustomCondition struct {
	id         string
	attributes []string
	values     []interface{}
}

func (CustomCondition) condition() {}

// ID the condition provider id
func (c CustomCondition) ID() string {
	return c.id
}

// Attributes copy of the attributes the values bind to
func (c CustomCondition) Attributes() []string {
	return append([]string{}, c.attributes...)
}

// Values copy of the values
func (c CustomCondition) Values() []interface{} {
	return append([]interface{}{}, c.values...)
}

func (c CustomCondition) String() string {
	return fmt.Sprintf("custom %s %v %v", c.id, c.attributes, c.values)
}

// StringCondition a literal where clause. The text is emitted verbatim and never escaped
// or checked: it must hold one ? placeholder per value, in value order, and must not be
// built from caller input.
type StringCondition struct {
	text       string
	attributes []string
	values     []interface{}
}

func (StringCondition) condition() {}

// Text the clause text
func (c StringCondition) Text() string {
	return c.text
}

// Attributes copy of the attributes the values bind to
func (c StringCondition) Attributes() []string {
	return append([]string{}, c.attributes...)
}

// Values copy of the values
func (c StringCondition) Values() []interface{} {
	return append([]interface{}{}, c.values...)
}

func (c StringCondition) String() string {
	return c.text
}

// IsEmpty whether the condition matches all rows, nil and sets without conditions
func IsEmpty(condition Condition) bool {
	switch c := condition.(type) {
	case nil:
		return true
	case Set:
		return len(c.conditions) == 0
	}
	return false
}
