package schema

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/text/cases"
)

var (
	// ErrUnknownEntity entity type not defined in domain
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnknownAttribute attribute not defined for entity
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrInvalidValue value does not match the declared value type
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidDefinition malformed entity model
	ErrInvalidDefinition = errors.New("invalid definition")
)

// DefaultFetchDepth fetch depth of relations defined without one
const DefaultFetchDepth = 1

// ConditionProvider renders the clause text of a custom condition. The returned text is
// emitted verbatim, it must contain one ? placeholder per value, in value order.
type ConditionProvider func(attributes []*Attribute, values []interface{}) string

// Field column backed attribute of a model
type Field struct {
	Name       string
	Column     string
	Subquery   string
	Type       ValueType
	PrimaryKey bool
	// Transient fields hold values only and can't be used in conditions
	Transient bool
}

// Relation foreign key of a model
type Relation struct {
	Name       string
	Referenced string
	// Columns referencing field names, positional against the referenced primary key
	Columns    []string
	FetchDepth *int
}

// Model describes an entity type to be defined in a domain
type Model struct {
	EntityType string
	Table      string
	Fields     []Field
	Relations  []Relation
	Conditions map[string]ConditionProvider
}

// Definition parsed entity model
type Definition struct {
	EntityType         string
	Table              string
	Attributes         []*Attribute
	AttributesByName   map[string]*Attribute
	AttributesByColumn map[string]*Attribute
	PrimaryKey         []*Attribute
	ForeignKeys        []*ForeignKey
	conditionProviders map[string]ConditionProvider
	domain             *Domain
}

func (definition *Definition) String() string {
	return definition.EntityType
}

// Domain returns the domain the definition belongs to
func (definition *Definition) Domain() *Domain {
	return definition.domain
}

// LookUpAttribute find attribute by name or column name, falls back to a case folded match
func (definition *Definition) LookUpAttribute(name string) *Attribute {
	if attr, ok := definition.AttributesByName[name]; ok {
		return attr
	}
	if attr, ok := definition.AttributesByColumn[name]; ok {
		return attr
	}

	folder := cases.Fold()
	folded := folder.String(name)
	for _, attr := range definition.Attributes {
		if folder.String(attr.Name) == folded {
			return attr
		}
	}
	return nil
}

// Attribute find attribute by name, returns ErrUnknownAttribute when not found
func (definition *Definition) Attribute(name string) (*Attribute, error) {
	if attr := definition.LookUpAttribute(name); attr != nil {
		return attr, nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, definition.EntityType, name)
}

// ForeignKey find foreign key by attribute name
func (definition *Definition) ForeignKey(name string) (*ForeignKey, error) {
	attr, err := definition.Attribute(name)
	if err != nil {
		return nil, err
	}
	if attr.ForeignKey == nil {
		return nil, fmt.Errorf("%w: %v is not a foreign key", ErrUnknownAttribute, attr)
	}
	return attr.ForeignKey, nil
}

// ConditionProvider find custom condition provider by id
func (definition *Definition) ConditionProvider(id string) (ConditionProvider, bool) {
	provider, ok := definition.conditionProviders[id]
	return provider, ok
}

// Key build a primary key from values in key order
func (definition *Definition) Key(values ...interface{}) (Key, error) {
	if len(values) != len(definition.PrimaryKey) {
		return Key{}, fmt.Errorf("%w: %s has %d key attributes, got %d values",
			ErrInvalidValue, definition.EntityType, len(definition.PrimaryKey), len(values))
	}

	key := Key{
		EntityType: definition.EntityType,
		Attributes: make([]string, len(values)),
		Values:     make([]interface{}, len(values)),
	}
	for idx, attr := range definition.PrimaryKey {
		if err := attr.Validate(values[idx]); err != nil {
			return Key{}, err
		}
		key.Attributes[idx] = attr.Name
		key.Values[idx] = values[idx]
	}
	return key, nil
}

// MustKey like Key, but panics on error
func (definition *Definition) MustKey(values ...interface{}) Key {
	key, err := definition.Key(values...)
	if err != nil {
		panic(err)
	}
	return key
}

// NewEntity create an empty entity instance
func (definition *Definition) NewEntity() *Entity {
	return &Entity{definition: definition, values: map[string]interface{}{}}
}

// Domain a named registry of entity definitions, safe for concurrent use
type Domain struct {
	Name           string
	NamingStrategy Namer

	mu          sync.RWMutex
	definitions map[string]*Definition
}

// NewDomain create a domain, uses NamingStrategy{} when namer is nil
func NewDomain(name string, namer Namer) *Domain {
	if namer == nil {
		namer = NamingStrategy{}
	}
	return &Domain{Name: name, NamingStrategy: namer, definitions: map[string]*Definition{}}
}

// Definition find definition by entity type
func (domain *Domain) Definition(entityType string) (*Definition, error) {
	domain.mu.RLock()
	defer domain.mu.RUnlock()

	if definition, ok := domain.definitions[entityType]; ok {
		return definition, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
}

// Define parse model and register the definition, relations may only reference
// entities already defined or the entity itself
func (domain *Domain) Define(model Model) (*Definition, error) {
	domain.mu.Lock()
	defer domain.mu.Unlock()

	if model.EntityType == "" {
		return nil, fmt.Errorf("%w: entity type required", ErrInvalidDefinition)
	}
	if _, ok := domain.definitions[model.EntityType]; ok {
		return nil, fmt.Errorf("%w: %s already defined", ErrInvalidDefinition, model.EntityType)
	}

	definition := &Definition{
		EntityType:         model.EntityType,
		Table:              model.Table,
		AttributesByName:   map[string]*Attribute{},
		AttributesByColumn: map[string]*Attribute{},
		conditionProviders: map[string]ConditionProvider{},
		domain:             domain,
	}
	if definition.Table == "" {
		definition.Table = domain.NamingStrategy.TableName(model.EntityType)
	}

	for _, field := range model.Fields {
		if err := definition.parseField(field, domain.NamingStrategy); err != nil {
			return nil, err
		}
	}

	for _, relation := range model.Relations {
		if err := definition.parseRelation(relation, domain.definitions); err != nil {
			return nil, err
		}
	}

	for id, provider := range model.Conditions {
		if provider == nil {
			return nil, fmt.Errorf("%w: condition provider %s of %s is nil", ErrInvalidDefinition, id, model.EntityType)
		}
		definition.conditionProviders[id] = provider
	}

	domain.definitions[model.EntityType] = definition
	return definition, nil
}

// MustDefine like Define, but panics on error
func (domain *Domain) MustDefine(model Model) *Definition {
	definition, err := domain.Define(model)
	if err != nil {
		panic(err)
	}
	return definition
}

func (definition *Definition) parseField(field Field, namer Namer) error {
	if field.Name == "" {
		return fmt.Errorf("%w: %s has a field without name", ErrInvalidDefinition, definition.EntityType)
	}
	if _, ok := definition.AttributesByName[field.Name]; ok {
		return fmt.Errorf("%w: duplicate attribute %s.%s", ErrInvalidDefinition, definition.EntityType, field.Name)
	}

	fieldType := field.Type
	if fieldType == "" {
		fieldType = TypeString
	}

	attr := &Attribute{
		Name:       field.Name,
		EntityType: definition.EntityType,
		Column:     field.Column,
		Subquery:   field.Subquery,
		Type:       fieldType,
		PrimaryKey: field.PrimaryKey,
	}

	if !field.Transient && attr.Column == "" && attr.Subquery == "" {
		attr.Column = namer.ColumnName(definition.Table, field.Name)
	}
	if field.Transient && field.PrimaryKey {
		return fmt.Errorf("%w: transient attribute %v can't be part of the primary key", ErrInvalidDefinition, attr)
	}
	if other, ok := definition.AttributesByColumn[attr.Column]; ok && attr.Column != "" {
		return fmt.Errorf("%w: %v and %v share column %s", ErrInvalidDefinition, other, attr, attr.Column)
	}

	definition.Attributes = append(definition.Attributes, attr)
	definition.AttributesByName[attr.Name] = attr
	if attr.Column != "" {
		definition.AttributesByColumn[attr.Column] = attr
	}
	if attr.PrimaryKey {
		definition.PrimaryKey = append(definition.PrimaryKey, attr)
	}
	return nil
}

func (definition *Definition) parseRelation(relation Relation, definitions map[string]*Definition) error {
	if _, ok := definition.AttributesByName[relation.Name]; ok || relation.Name == "" {
		return fmt.Errorf("%w: invalid foreign key name %q on %s", ErrInvalidDefinition, relation.Name, definition.EntityType)
	}

	referenced, ok := definitions[relation.Referenced]
	if relation.Referenced == definition.EntityType {
		referenced, ok = definition, true
	}
	if !ok {
		return fmt.Errorf("%w: foreign key %s.%s references %s", ErrUnknownEntity, definition.EntityType, relation.Name, relation.Referenced)
	}

	if len(relation.Columns) == 0 || len(relation.Columns) != len(referenced.PrimaryKey) {
		return fmt.Errorf("%w: foreign key %s.%s has %d columns, %s has %d key attributes", ErrInvalidDefinition,
			definition.EntityType, relation.Name, len(relation.Columns), referenced.EntityType, len(referenced.PrimaryKey))
	}

	fk := &ForeignKey{
		Name:             relation.Name,
		EntityType:       definition.EntityType,
		ReferencedEntity: referenced.EntityType,
		FetchDepth:       DefaultFetchDepth,
	}
	if relation.FetchDepth != nil {
		fk.FetchDepth = *relation.FetchDepth
	}

	for idx, name := range relation.Columns {
		column, ok := definition.AttributesByName[name]
		if !ok || !column.IsColumn() {
			return fmt.Errorf("%w: foreign key %s.%s references unknown column %s", ErrInvalidDefinition,
				definition.EntityType, relation.Name, name)
		}
		fk.References = append(fk.References, Reference{Column: column, Referenced: referenced.PrimaryKey[idx]})
	}

	attr := &Attribute{
		Name:       relation.Name,
		EntityType: definition.EntityType,
		Type:       TypeEntity,
		ForeignKey: fk,
	}
	definition.Attributes = append(definition.Attributes, attr)
	definition.AttributesByName[attr.Name] = attr
	definition.ForeignKeys = append(definition.ForeignKeys, fk)
	return nil
}
