package clause

type OrderByColumn struct {
	Column Column
	Desc   bool
}

type OrderBy struct {
	Columns []OrderByColumn
}

// Build build order by columns, without the order by keyword
func (orderBy OrderBy) Build(builder Builder) {
	for idx, column := range orderBy.Columns {
		if idx > 0 {
			builder.WriteString(", ")
		}

		WriteColumn(builder, column.Column)
		if column.Desc {
			builder.WriteString(" desc")
		}
	}
}

// Contains whether the column is already ordered on
func (orderBy OrderBy) Contains(name string) bool {
	for _, column := range orderBy.Columns {
		if column.Column.Name == name {
			return true
		}
	}
	return false
}
