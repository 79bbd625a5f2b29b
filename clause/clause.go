package clause

import "strings"

// Writer write string
type Writer interface {
	WriteByte(byte) error
	WriteString(string) (int, error)
}

// Builder builder interface
type Builder interface {
	Writer
	// AddVar binds value to the placeholder just written, in placeholder order
	AddVar(column Column, value interface{})
}

// Expression expression interface
type Expression interface {
	Build(builder Builder)
}

// NegationExpressionBuilder negation expression builder
type NegationExpressionBuilder interface {
	NegationBuild(builder Builder)
}

// Column a column reference
type Column struct {
	Name string
	// Subquery renders Name wrapped in parentheses
	Subquery bool
	// Fold function applied to the column and every placeholder bound to it, e.g. upper
	Fold string
	// Source reported to the builder with every value bound to the column
	Source interface{}
}

// WriteColumn write column identifier
func WriteColumn(writer Writer, column Column) {
	if column.Fold != "" {
		writer.WriteString(column.Fold)
		writer.WriteByte('(')
	}

	if column.Subquery {
		writer.WriteByte('(')
		writer.WriteString(column.Name)
		writer.WriteByte(')')
	} else {
		writer.WriteString(column.Name)
	}

	if column.Fold != "" {
		writer.WriteByte(')')
	}
}

// AddVar write a placeholder for column and bind value to it
func AddVar(builder Builder, column Column, value interface{}) {
	if column.Fold != "" {
		builder.WriteString(column.Fold)
		builder.WriteString("(?)")
	} else {
		builder.WriteByte('?')
	}
	builder.AddVar(column, value)
}

// Build render expression into a standalone string, dropping bound values
func Build(expr Expression) string {
	var builder discardBuilder
	expr.Build(&builder)
	return builder.String()
}

type discardBuilder struct {
	strings.Builder
}

func (*discardBuilder) AddVar(Column, interface{}) {}
