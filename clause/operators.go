package clause

// DefaultInLimit max placeholders in one in list
const DefaultInLimit = 100

// IN Whether a value is within a set of values. Lists longer than Limit are split
// into groups, or'ed together and wrapped in parentheses.
type IN struct {
	Column Column
	Values []interface{}
	Limit  int
}

func (in IN) Build(builder Builder) {
	in.build(builder, " in (", " or ")
}

func (in IN) NegationBuild(builder Builder) {
	in.build(builder, " not in (", " and ")
}

func (in IN) build(builder Builder, prefix, joinCond string) {
	if len(in.Values) == 0 {
		WriteColumn(builder, in.Column)
		builder.WriteString(prefix)
		builder.WriteString("null)")
		return
	}

	chunks := in.chunks()
	if len(chunks) > 1 {
		builder.WriteByte('(')
	}

	for idx, chunk := range chunks {
		if idx > 0 {
			builder.WriteString(joinCond)
		}

		WriteColumn(builder, in.Column)
		builder.WriteString(prefix)
		for i, v := range chunk {
			if i > 0 {
				builder.WriteString(", ")
			}
			AddVar(builder, in.Column, v)
		}
		builder.WriteByte(')')
	}

	if len(chunks) > 1 {
		builder.WriteByte(')')
	}
}

func (in IN) chunks() (chunks [][]interface{}) {
	limit := in.Limit
	if limit <= 0 {
		limit = len(in.Values)
	}

	for start := 0; start < len(in.Values); start += limit {
		end := start + limit
		if end > len(in.Values) {
			end = len(in.Values)
		}
		chunks = append(chunks, in.Values[start:end])
	}
	return chunks
}

// Eq equal to for where, nil values compare with is null
type Eq struct {
	Column Column
	Value  interface{}
}

func (eq Eq) Build(builder Builder) {
	if eq.Value == nil {
		WriteColumn(builder, Column{Name: eq.Column.Name, Subquery: eq.Column.Subquery})
		builder.WriteString(" is null")
		return
	}

	WriteColumn(builder, eq.Column)
	builder.WriteString(" = ")
	AddVar(builder, eq.Column, eq.Value)
}

func (eq Eq) NegationBuild(builder Builder) {
	Neq{eq.Column, eq.Value}.Build(builder)
}

// Neq not equal to for where, nil values compare with is not null
type Neq struct {
	Column Column
	Value  interface{}
}

func (neq Neq) Build(builder Builder) {
	if neq.Value == nil {
		WriteColumn(builder, Column{Name: neq.Column.Name, Subquery: neq.Column.Subquery})
		builder.WriteString(" is not null")
		return
	}

	WriteColumn(builder, neq.Column)
	builder.WriteString(" <> ")
	AddVar(builder, neq.Column, neq.Value)
}

func (neq Neq) NegationBuild(builder Builder) {
	Eq{neq.Column, neq.Value}.Build(builder)
}

// Gte greater than or equal to for where
type Gte struct {
	Column Column
	Value  interface{}
}

func (gte Gte) Build(builder Builder) {
	WriteColumn(builder, gte.Column)
	builder.WriteString(" >= ")
	AddVar(builder, gte.Column, gte.Value)
}

// Lte less than or equal to for where
type Lte struct {
	Column Column
	Value  interface{}
}

func (lte Lte) Build(builder Builder) {
	WriteColumn(builder, lte.Column)
	builder.WriteString(" <= ")
	AddVar(builder, lte.Column, lte.Value)
}

// Like whether string matches a pattern
type Like struct {
	Column Column
	Value  interface{}
}

func (like Like) Build(builder Builder) {
	WriteColumn(builder, like.Column)
	builder.WriteString(" like ")
	AddVar(builder, like.Column, like.Value)
}

func (like Like) NegationBuild(builder Builder) {
	WriteColumn(builder, like.Column)
	builder.WriteString(" not like ")
	AddVar(builder, like.Column, like.Value)
}

// Within inclusive range, (column >= lower and column <= upper)
type Within struct {
	Column       Column
	Lower, Upper interface{}
}

func (within Within) Build(builder Builder) {
	builder.WriteByte('(')
	Gte{within.Column, within.Lower}.Build(builder)
	builder.WriteString(" and ")
	Lte{within.Column, within.Upper}.Build(builder)
	builder.WriteByte(')')
}

// Outside inclusive bounds, (column <= lower or column >= upper), overlaps Within at the bounds
type Outside struct {
	Column       Column
	Lower, Upper interface{}
}

func (outside Outside) Build(builder Builder) {
	builder.WriteByte('(')
	Lte{outside.Column, outside.Lower}.Build(builder)
	builder.WriteString(" or ")
	Gte{outside.Column, outside.Upper}.Build(builder)
	builder.WriteByte(')')
}
