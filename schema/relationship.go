package schema

// Reference pairs a column attribute of the referencing entity with the key attribute it refers to
type Reference struct {
	Column     *Attribute
	Referenced *Attribute
}

// ForeignKey a relationship backed by one or more columns of the referencing entity
type ForeignKey struct {
	Name             string
	EntityType       string
	ReferencedEntity string
	References       []Reference
	// FetchDepth default number of relationship hops to populate, negative for unlimited
	FetchDepth int
}

// IsComposite whether the foreign key spans more than one column
func (fk *ForeignKey) IsComposite() bool {
	return len(fk.References) > 1
}

// Columns the referencing column attributes in key order
func (fk *ForeignKey) Columns() []*Attribute {
	columns := make([]*Attribute, len(fk.References))
	for idx, ref := range fk.References {
		columns[idx] = ref.Column
	}
	return columns
}

func (fk *ForeignKey) String() string {
	return fk.EntityType + "." + fk.Name
}
