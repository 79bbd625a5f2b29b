package clause

func And(exprs ...Expression) Expression {
	exprs = compact(exprs)
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return AndConditions{Exprs: exprs}
}

type AndConditions struct {
	Exprs []Expression
}

func (and AndConditions) Build(builder Builder) {
	buildExprs(and.Exprs, builder, " and ")
}

func Or(exprs ...Expression) Expression {
	exprs = compact(exprs)
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return OrConditions{Exprs: exprs}
}

type OrConditions struct {
	Exprs []Expression
}

func (or OrConditions) Build(builder Builder) {
	buildExprs(or.Exprs, builder, " or ")
}

func Not(exprs ...Expression) Expression {
	exprs = compact(exprs)
	if len(exprs) == 0 {
		return nil
	}
	return NotConditions{Exprs: exprs}
}

type NotConditions struct {
	Exprs []Expression
}

func (not NotConditions) Build(builder Builder) {
	if len(not.Exprs) > 1 {
		builder.WriteByte('(')
	}

	for idx, c := range not.Exprs {
		if idx > 0 {
			builder.WriteString(" and ")
		}

		if negationBuilder, ok := c.(NegationExpressionBuilder); ok {
			negationBuilder.NegationBuild(builder)
		} else {
			builder.WriteString("not (")
			c.Build(builder)
			builder.WriteByte(')')
		}
	}

	if len(not.Exprs) > 1 {
		builder.WriteByte(')')
	}
}

// buildExprs groups more than one expression in parentheses
func buildExprs(exprs []Expression, builder Builder, joinCond string) {
	if len(exprs) > 1 {
		builder.WriteByte('(')
	}

	for idx, expr := range exprs {
		if idx > 0 {
			builder.WriteString(joinCond)
		}
		expr.Build(builder)
	}

	if len(exprs) > 1 {
		builder.WriteByte(')')
	}
}

func compact(exprs []Expression) []Expression {
	results := exprs[:0:0]
	for _, expr := range exprs {
		if expr != nil {
			results = append(results, expr)
		}
	}
	return results
}
