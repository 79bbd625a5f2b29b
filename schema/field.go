package schema

import "fmt"

// Attribute a property of an entity, backed by a column, a subquery or a foreign key
type Attribute struct {
	Name       string
	EntityType string
	Column     string
	Subquery   string
	Type       ValueType
	PrimaryKey bool
	// ForeignKey is set for foreign key attributes, which have no column of their own
	ForeignKey *ForeignKey
}

// IsString whether the attribute holds textual values
func (attr *Attribute) IsString() bool {
	return attr.Type == TypeString
}

// IsForeignKey whether the attribute represents a relationship
func (attr *Attribute) IsForeignKey() bool {
	return attr.ForeignKey != nil
}

// IsSubquery whether the attribute value is computed by a subquery
func (attr *Attribute) IsSubquery() bool {
	return attr.Subquery != ""
}

// IsColumn whether the attribute can be referenced in a where clause
func (attr *Attribute) IsColumn() bool {
	return attr.ForeignKey == nil && (attr.Column != "" || attr.Subquery != "")
}

// Expression the column name, or the subquery text for subquery attributes
func (attr *Attribute) Expression() string {
	if attr.Subquery != "" {
		return attr.Subquery
	}
	return attr.Column
}

// Validate validate value against the attribute value type
func (attr *Attribute) Validate(value interface{}) error {
	if err := attr.Type.Validate(value); err != nil {
		return fmt.Errorf("attribute %v: %w", attr, err)
	}
	return nil
}

func (attr *Attribute) String() string {
	return attr.EntityType + "." + attr.Name
}
