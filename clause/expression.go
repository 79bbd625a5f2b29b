package clause

// Expr raw expression, SQL is written verbatim and Vars are bound in order.
// Nothing in SQL is escaped or checked against Vars.
type Expr struct {
	SQL     string
	Vars    []interface{}
	Columns []Column
}

// Build build raw expression
func (expr Expr) Build(builder Builder) {
	builder.WriteString(expr.SQL)

	for idx, v := range expr.Vars {
		var column Column
		if idx < len(expr.Columns) {
			column = expr.Columns[idx]
		}
		builder.AddVar(column, v)
	}
}
