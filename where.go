package conditions

import (
	"strings"

	"gorm.io/conditions/clause"
	"gorm.io/conditions/schema"
)

// WhereCondition a compiled where clause. Values and columns line up one to one with the ?
// placeholders of the clause, left to right.
type WhereCondition struct {
	clause  string
	values  []interface{}
	columns []*schema.Attribute
}

// Clause the where clause text, without the where keyword, empty to match all rows
func (where WhereCondition) Clause() string {
	return where.clause
}

// Values copy of the bind values in placeholder order
func (where WhereCondition) Values() []interface{} {
	return append([]interface{}{}, where.values...)
}

// Columns copy of the attributes the values bind to, nil for values of string conditions
// bound to no attribute
func (where WhereCondition) Columns() []*schema.Attribute {
	return append([]*schema.Attribute{}, where.columns...)
}

// IsEmpty whether the clause matches all rows
func (where WhereCondition) IsEmpty() bool {
	return where.clause == ""
}

// Where the clause prefixed with the where keyword, empty to match all rows
func (where WhereCondition) Where() string {
	if where.clause == "" {
		return ""
	}
	return "where " + where.clause
}

func (where WhereCondition) String() string {
	return where.clause
}

// statement collects a clause and the values bound while building it
type statement struct {
	strings.Builder
	Vars    []interface{}
	Columns []*schema.Attribute
}

func (stmt *statement) AddVar(column clause.Column, value interface{}) {
	attr, _ := column.Source.(*schema.Attribute)
	stmt.Vars = append(stmt.Vars, value)
	stmt.Columns = append(stmt.Columns, attr)
}

func (stmt *statement) build(exprs ...clause.Expression) {
	for _, expr := range exprs {
		if expr == nil {
			continue
		}
		if stmt.Len() > 0 {
			stmt.WriteByte(' ')
		}
		expr.Build(stmt)
	}
}

func (stmt *statement) where() WhereCondition {
	return WhereCondition{clause: stmt.String(), values: stmt.Vars, columns: stmt.Columns}
}

// expression convert condition into a clause expression, nil for conditions rendering nothing
func (compiler *Compiler) expression(condition Condition, definition *schema.Definition) (clause.Expression, error) {
	switch c := condition.(type) {
	case nil:
		return nil, nil
	case ColumnCondition:
		return compiler.columnExpression(c, definition)
	case Set:
		exprs := make([]clause.Expression, 0, len(c.conditions))
		for _, child := range c.conditions {
			expr, err := compiler.expression(child, definition)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}

		if c.Conjunction() == OR {
			return clause.Or(exprs...), nil
		}
		return clause.And(exprs...), nil
	case CustomCondition:
		provider, ok := definition.ConditionProvider(c.id)
		if !ok {
			return nil, invalidf("no condition provider %s registered for %s", c.id, definition.EntityType)
		}

		attributes, columns, err := bindAttributes(definition, c.attributes)
		if err != nil {
			return nil, err
		}
		return rawExpression(provider(attributes, c.Values()), c.values, columns)
	case StringCondition:
		_, columns, err := bindAttributes(definition, c.attributes)
		if err != nil {
			return nil, err
		}
		return rawExpression(c.text, c.values, columns)
	}

	return nil, invalidf("unsupported condition %T", condition)
}

func (compiler *Compiler) columnExpression(c ColumnCondition, definition *schema.Definition) (clause.Expression, error) {
	attr, err := definition.Attribute(c.attribute)
	if err != nil {
		return nil, invalidf("%w", err)
	}

	switch {
	case attr.IsForeignKey():
		return nil, invalidf("foreign key %v must be expanded before compiling", attr)
	case !attr.IsColumn():
		return nil, invalidf("%v is not a column", attr)
	}

	column := attributeColumn(attr)
	if !c.caseSensitive && attr.IsString() {
		column.Fold = compiler.UpperFunction
	}

	if c.IsNull() {
		if c.operator == Like {
			return clause.Eq{Column: column}, nil
		}
		return clause.Neq{Column: column}, nil
	}

	values := make([]interface{}, len(c.values))
	for idx, value := range c.values {
		if values[idx], err = columnValue(attr, value); err != nil {
			return nil, err
		}
	}

	if n := c.operator.values(); n > 0 && len(values) != n {
		return nil, invalidf("%v: %v requires %d values, got %d", attr, c.operator, n, len(values))
	} else if n > 0 {
		for _, value := range values {
			if value == nil {
				return nil, invalidf("%v: %v can't compare with null", attr, c.operator)
			}
		}
	}

	switch c.operator {
	case Like, NotLike:
		var expr clause.Expression
		switch {
		case len(values) > 1:
			expr = clause.IN{Column: column, Values: values, Limit: compiler.InClauseLimit}
		case attr.IsString() && containsWildcard(values[0]):
			expr = clause.Like{Column: column, Value: values[0]}
		default:
			expr = clause.Eq{Column: column, Value: values[0]}
		}

		if c.operator == NotLike {
			return clause.Not(expr), nil
		}
		return expr, nil
	case LessThan:
		return clause.Lte{Column: column, Value: values[0]}, nil
	case GreaterThan:
		return clause.Gte{Column: column, Value: values[0]}, nil
	case WithinRange:
		return clause.Within{Column: column, Lower: values[0], Upper: values[1]}, nil
	case OutsideRange:
		return clause.Outside{Column: column, Lower: values[0], Upper: values[1]}, nil
	}

	return nil, invalidf("%v: unknown operator %d", attr, int(c.operator))
}

// columnValue reduce keys to their value and validate it against the attribute value type
func columnValue(attr *schema.Attribute, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case schema.Key:
		if v.IsComposite() {
			return nil, invalidf("%v: composite key %v can't be compared with a single column", attr, v)
		}
		value = v.First()
	case *schema.Key:
		if v == nil {
			value = nil
			break
		}
		if v.IsComposite() {
			return nil, invalidf("%v: composite key %v can't be compared with a single column", attr, v)
		}
		value = v.First()
	case *schema.Entity:
		if v == nil {
			value = nil
			break
		}
		return columnValue(attr, v.Key())
	}

	if err := attr.Validate(value); err != nil {
		return nil, invalidf("%w", err)
	}
	return value, nil
}

func containsWildcard(value interface{}) bool {
	text, ok := value.(string)
	return ok && strings.ContainsAny(text, "%_")
}

func attributeColumn(attr *schema.Attribute) clause.Column {
	return clause.Column{Name: attr.Expression(), Subquery: attr.IsSubquery(), Source: attr}
}

func bindAttributes(definition *schema.Definition, names []string) ([]*schema.Attribute, []clause.Column, error) {
	attributes := make([]*schema.Attribute, len(names))
	columns := make([]clause.Column, len(names))
	for idx, name := range names {
		attr, err := definition.Attribute(name)
		if err != nil {
			return nil, nil, invalidf("%w", err)
		}
		attributes[idx] = attr
		columns[idx] = attributeColumn(attr)
	}
	return attributes, columns, nil
}

func rawExpression(text string, values []interface{}, columns []clause.Column) (clause.Expression, error) {
	if text == "" {
		if len(values) > 0 {
			return nil, invalidf("empty clause given %d values", len(values))
		}
		return nil, nil
	}
	return clause.Expr{SQL: text, Vars: values, Columns: columns}, nil
}
