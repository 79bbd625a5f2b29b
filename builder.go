package conditions

import (
	"gorm.io/conditions/schema"
	"gorm.io/conditions/utils"
)

// Column build a condition comparing attribute against value. value may be a single value,
// a slice, array or iterator of values, or nil for a null test. Entities are reduced to their
// primary key.
func Column(attribute string, operator Operator, value interface{}) (ColumnCondition, error) {
	if !operator.valid() {
		return ColumnCondition{}, invalidf("unknown operator %d", int(operator))
	}

	condition := ColumnCondition{attribute: attribute, operator: operator, caseSensitive: true}
	if value == nil {
		return condition, nil
	}

	values, ok := utils.ToValues(value)
	if !ok {
		values = []interface{}{value}
	}
	if len(values) == 0 {
		return ColumnCondition{}, invalidf("%s: no values specified", attribute)
	}

	condition.values = make([]interface{}, len(values))
	for idx, v := range values {
		if entity, ok := v.(*schema.Entity); ok {
			if v = nil; entity != nil {
				v = entity.Key()
			}
		}
		condition.values[idx] = v
	}
	return condition, nil
}

// MustColumn like Column, but panics on error
func MustColumn(attribute string, operator Operator, value interface{}) ColumnCondition {
	condition, err := Column(attribute, operator, value)
	if err != nil {
		panic(err)
	}
	return condition
}

// IsNull attribute is null
func IsNull(attribute string) ColumnCondition {
	return ColumnCondition{attribute: attribute, operator: Like, caseSensitive: true}
}

// IsNotNull attribute is not null
func IsNotNull(attribute string) ColumnCondition {
	return ColumnCondition{attribute: attribute, operator: NotLike, caseSensitive: true}
}

// KeyCondition matches the rows identified by keys, all keys must be of the same entity type
func KeyCondition(keys ...schema.Key) (Condition, error) {
	if len(keys) == 0 {
		return nil, invalidf("no keys specified")
	}

	first := keys[0]
	if len(first.Attributes) == 0 {
		return nil, invalidf("key of %s has no attributes", first.EntityType)
	}

	for _, key := range keys[1:] {
		if key.EntityType != first.EntityType || len(key.Attributes) != len(first.Attributes) {
			return nil, invalidf("keys of %s and %s can't be combined", first.EntityType, key.EntityType)
		}
	}

	if !first.IsComposite() {
		values := make([]interface{}, len(keys))
		for idx, key := range keys {
			values[idx] = key.First()
		}
		return ColumnCondition{attribute: first.Attributes[0], operator: Like, values: values, caseSensitive: true}, nil
	}

	rows := make([][]interface{}, len(keys))
	for idx, key := range keys {
		rows[idx] = key.Values
	}
	return compositeCondition(first.Attributes, Like, rows), nil
}

// ForeignKeyCondition compare the columns of a foreign key against the keys of the referenced
// entities. value may be an entity, a key, nil, a slice of those, or plain values for a
// single column foreign key. An empty slice compares against null.
func ForeignKeyCondition(fk *schema.ForeignKey, operator Operator, value interface{}) (Condition, error) {
	if operator != Like && operator != NotLike {
		return nil, invalidf("%v: operator %v not supported for foreign keys", fk, operator)
	}

	keys, err := foreignKeys(fk, value)
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(fk.References))
	for idx, ref := range fk.References {
		columns[idx] = ref.Column.Name
	}

	if !fk.IsComposite() {
		if len(keys) <= 1 {
			var v interface{}
			if len(keys) == 1 && keys[0] != nil {
				v = keys[0].First()
			}
			return ColumnCondition{attribute: columns[0], operator: operator, values: nullable(v), caseSensitive: true}, nil
		}

		values := make([]interface{}, len(keys))
		for idx, key := range keys {
			if key != nil {
				values[idx] = key.First()
			}
		}
		return ColumnCondition{attribute: columns[0], operator: operator, values: values, caseSensitive: true}, nil
	}

	rows := make([][]interface{}, len(keys))
	for idx, key := range keys {
		row := make([]interface{}, len(columns))
		if key != nil {
			copy(row, key.Values)
		}
		rows[idx] = row
	}
	return compositeCondition(columns, operator, rows), nil
}

// foreignKeys normalize value to keys of the referenced entity, nil for null references
func foreignKeys(fk *schema.ForeignKey, value interface{}) ([]*schema.Key, error) {
	values, ok := utils.ToValues(value)
	if !ok {
		values = []interface{}{value}
	}
	if len(values) == 0 {
		return []*schema.Key{nil}, nil
	}

	keys := make([]*schema.Key, 0, len(values))
	for _, v := range values {
		var key *schema.Key
		switch v := v.(type) {
		case nil:
		case schema.Key:
			key = &v
		case *schema.Key:
			key = v
		case *schema.Entity:
			if v != nil {
				k := v.Key()
				key = &k
			}
		default:
			if fk.IsComposite() {
				return nil, invalidf("%v: %T is not a key of %s", fk, v, fk.ReferencedEntity)
			}
			key = &schema.Key{
				EntityType: fk.ReferencedEntity,
				Attributes: []string{fk.References[0].Referenced.Name},
				Values:     []interface{}{v},
			}
		}

		if key != nil {
			if key.EntityType != fk.ReferencedEntity {
				return nil, invalidf("%v: key of %s given, %s expected", fk, key.EntityType, fk.ReferencedEntity)
			}
			if len(key.Values) != len(fk.References) {
				return nil, invalidf("%v: key %v has %d values, %d expected", fk, key, len(key.Values), len(fk.References))
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// compositeCondition and's one condition per attribute for each row, rows are or'ed
func compositeCondition(attributes []string, operator Operator, rows [][]interface{}) Condition {
	blocks := make([]Condition, len(rows))
	for idx, row := range rows {
		columns := make([]Condition, len(attributes))
		for i, attribute := range attributes {
			columns[i] = ColumnCondition{attribute: attribute, operator: operator, values: nullable(row[i]), caseSensitive: true}
		}
		blocks[idx] = Set{conjunction: AND, conditions: columns}
	}

	if len(blocks) == 1 {
		return blocks[0]
	}
	return Set{conjunction: OR, conditions: blocks}
}

func nullable(value interface{}) []interface{} {
	if value == nil {
		return nil
	}
	return []interface{}{value}
}

// And join conditions with and, nil and empty conditions are ignored
func And(conditions ...Condition) Set {
	return Combine(AND, conditions...)
}

// Or join conditions with or, nil and empty conditions are ignored
func Or(conditions ...Condition) Set {
	return Combine(OR, conditions...)
}

// Combine join conditions with conjunction, nil and empty conditions are ignored
func Combine(conjunction Conjunction, conditions ...Condition) Set {
	return NewSetBuilder(conjunction).Add(conditions...).Build()
}

// SetBuilder builds a Set incrementally, every Add returns a new builder and leaves the
// receiver untouched
type SetBuilder struct {
	conjunction Conjunction
	conditions  []Condition
}

// NewSetBuilder create a set builder
func NewSetBuilder(conjunction Conjunction) SetBuilder {
	if conjunction != OR {
		conjunction = AND
	}
	return SetBuilder{conjunction: conjunction}
}

// Add add conditions, nil and empty conditions are ignored
func (builder SetBuilder) Add(conditions ...Condition) SetBuilder {
	added := make([]Condition, len(builder.conditions), len(builder.conditions)+len(conditions))
	copy(added, builder.conditions)

	for _, condition := range conditions {
		if !IsEmpty(condition) {
			added = append(added, condition)
		}
	}
	return SetBuilder{conjunction: builder.conjunction, conditions: added}
}

// Len number of conditions added
func (builder SetBuilder) Len() int {
	return len(builder.conditions)
}

// Build the set
func (builder SetBuilder) Build() Set {
	return Set{conjunction: builder.conjunction, conditions: append([]Condition{}, builder.conditions...)}
}

// Custom a condition rendered by the provider registered under id, values bind to attributes
// in order
func Custom(id string, attributes []string, values []interface{}) (CustomCondition, error) {
	if len(attributes) != len(values) {
		return CustomCondition{}, invalidf("custom condition %s: %d attributes, %d values", id, len(attributes), len(values))
	}
	return CustomCondition{
		id:         id,
		attributes: append([]string{}, attributes...),
		values:     append([]interface{}{}, values...),
	}, nil
}

// Raw a literal where clause, values bind to attributes in order. The text is not escaped.
func Raw(text string, attributes []string, values []interface{}) (StringCondition, error) {
	if len(attributes) != len(values) {
		return StringCondition{}, invalidf("%q: %d attributes, %d values", text, len(attributes), len(values))
	}
	return StringCondition{
		text:       text,
		attributes: append([]string{}, attributes...),
		values:     append([]interface{}{}, values...),
	}, nil
}

// ParseColumn like Column, with values parsed from text according to the attribute value type
func ParseColumn(definition *schema.Definition, attribute string, operator Operator, texts ...string) (ColumnCondition, error) {
	attr, err := definition.Attribute(attribute)
	if err != nil {
		return ColumnCondition{}, invalidf("%w", err)
	}
	if len(texts) == 0 {
		return Column(attr.Name, operator, nil)
	}

	values := make([]interface{}, len(texts))
	for idx, text := range texts {
		if values[idx], err = attr.Type.Parse(text); err != nil {
			return ColumnCondition{}, invalidf("%v: %w", attr, err)
		}
	}
	return Column(attr.Name, operator, values)
}
