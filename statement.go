package conditions

import (
	"context"
	"time"

	"gorm.io/conditions/clause"
	"gorm.io/conditions/schema"
)

// Statement a complete sql statement, Values and Columns line up with the ? placeholders of SQL
type Statement struct {
	SQL     string
	Values  []interface{}
	Columns []*schema.Attribute
}

// Select build the select statement of condition
func (compiler *Compiler) Select(ctx context.Context, condition *SelectCondition, definition *schema.Definition) (Statement, error) {
	return compiler.statement(ctx, condition.EntityCondition, definition, func(stmt *statement, where *statement) error {
		columns, err := selectColumns(condition, definition)
		if err != nil {
			return err
		}

		orderBy, err := condition.orderBy.Clause(definition)
		if err != nil {
			return err
		}

		stmt.WriteString("select ")
		for idx, column := range columns {
			if idx > 0 {
				stmt.WriteString(", ")
			}
			clause.WriteColumn(stmt, column)
		}
		stmt.WriteString(" from ")
		stmt.WriteString(definition.Table)
		stmt.appendWhere(where)

		if len(orderBy.Columns) > 0 {
			stmt.WriteString(" order by ")
			orderBy.Build(stmt)
		}
		stmt.build(condition.LimitClause(), condition.LockingClause())
		return nil
	})
}

// Update build the update statement of condition
func (compiler *Compiler) Update(ctx context.Context, condition *UpdateCondition, definition *schema.Definition) (Statement, error) {
	return compiler.statement(ctx, condition.EntityCondition, definition, func(stmt *statement, where *statement) error {
		set, err := condition.SetClause(definition)
		if err != nil {
			return err
		}
		if len(set) == 0 {
			return invalidf("no attributes to update")
		}

		stmt.WriteString("update ")
		stmt.WriteString(definition.Table)
		stmt.WriteString(" set ")
		set.Build(stmt)
		stmt.appendWhere(where)
		return nil
	})
}

// Delete build the delete statement of condition
func (compiler *Compiler) Delete(ctx context.Context, condition EntityCondition, definition *schema.Definition) (Statement, error) {
	return compiler.statement(ctx, condition, definition, func(stmt *statement, where *statement) error {
		stmt.WriteString("delete from ")
		stmt.WriteString(definition.Table)
		stmt.appendWhere(where)
		return nil
	})
}

func (compiler *Compiler) statement(ctx context.Context, condition EntityCondition, definition *schema.Definition, fc func(stmt, where *statement) error) (result Statement, err error) {
	begin := time.Now()
	defer func() {
		compiler.Logger.Trace(ctx, begin, func() (string, []interface{}) {
			return result.SQL, result.Values
		}, err)
	}()

	if definition == nil {
		return Statement{}, invalidf("no definition for %s", condition.EntityType)
	}
	if condition.EntityType != "" && condition.EntityType != definition.EntityType {
		return Statement{}, invalidf("condition on %s compiled against %s", condition.EntityType, definition.EntityType)
	}

	where, err := compiler.where(condition.Condition, definition)
	if err != nil {
		return Statement{}, err
	}

	stmt := &statement{}
	if err = fc(stmt, where); err != nil {
		return Statement{}, err
	}
	return Statement{SQL: stmt.String(), Values: stmt.Vars, Columns: stmt.Columns}, nil
}

func (stmt *statement) appendWhere(where *statement) {
	if where.Len() == 0 {
		return
	}
	stmt.WriteString(" where ")
	stmt.WriteString(where.String())
	stmt.Vars = append(stmt.Vars, where.Vars...)
	stmt.Columns = append(stmt.Columns, where.Columns...)
}

func selectColumns(condition *SelectCondition, definition *schema.Definition) ([]clause.Column, error) {
	var attributes []*schema.Attribute
	if len(condition.attributes) == 0 {
		for _, attr := range definition.Attributes {
			if attr.IsColumn() {
				attributes = append(attributes, attr)
			}
		}
	} else {
		attributes = append(attributes, definition.PrimaryKey...)
		for _, name := range condition.attributes {
			attr, err := definition.Attribute(name)
			if err != nil {
				return nil, invalidf("%w", err)
			}

			switch {
			case attr.IsForeignKey():
				attributes = append(attributes, attr.ForeignKey.Columns()...)
			case attr.IsColumn():
				attributes = append(attributes, attr)
			default:
				return nil, invalidf("can't select %v, not a column", attr)
			}
		}
	}

	columns := make([]clause.Column, 0, len(attributes))
	seen := make(map[*schema.Attribute]bool, len(attributes))
	for _, attr := range attributes {
		if !seen[attr] {
			seen[attr] = true
			columns = append(columns, attributeColumn(attr))
		}
	}
	return columns, nil
}
