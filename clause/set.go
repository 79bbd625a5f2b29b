package clause

type Set []Assignment

type Assignment struct {
	Column Column
	Value  interface{}
}

func (set Set) Build(builder Builder) {
	for idx, assignment := range set {
		if idx > 0 {
			builder.WriteString(", ")
		}
		WriteColumn(builder, Column{Name: assignment.Column.Name})
		builder.WriteString(" = ")
		AddVar(builder, Column{Name: assignment.Column.Name, Source: assignment.Column.Source}, assignment.Value)
	}
}

