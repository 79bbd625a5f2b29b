package conditions

import (
	"gorm.io/conditions/schema"
)

// Expand rewrite conditions on foreign key attributes into conditions on the columns backing
// them. Sets are rebuilt with their conjunction and order kept, other conditions are returned
// as is.
func Expand(condition Condition, definition *schema.Definition) (Condition, error) {
	switch c := condition.(type) {
	case ColumnCondition:
		attr := definition.LookUpAttribute(c.attribute)
		if attr == nil || !attr.IsForeignKey() {
			return c, nil
		}

		var value interface{}
		switch len(c.values) {
		case 0:
		case 1:
			value = c.values[0]
		default:
			value = c.values
		}

		expanded, err := ForeignKeyCondition(attr.ForeignKey, c.operator, value)
		if err != nil {
			return nil, err
		}
		return withCaseSensitivity(expanded, c.caseSensitive), nil
	case Set:
		conditions := make([]Condition, len(c.conditions))
		for idx, child := range c.conditions {
			expanded, err := Expand(child, definition)
			if err != nil {
				return nil, err
			}
			conditions[idx] = expanded
		}
		return Set{conjunction: c.conjunction, conditions: conditions}, nil
	}

	return condition, nil
}

func withCaseSensitivity(condition Condition, caseSensitive bool) Condition {
	switch c := condition.(type) {
	case ColumnCondition:
		c.caseSensitive = caseSensitive
		return c
	case Set:
		conditions := make([]Condition, len(c.conditions))
		for idx, child := range c.conditions {
			conditions[idx] = withCaseSensitivity(child, caseSensitive)
		}
		return Set{conjunction: c.conjunction, conditions: conditions}
	}
	return condition
}
