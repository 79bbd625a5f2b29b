package schema

import (
	"fmt"

	"gorm.io/conditions/utils"
)

// Key a primary key value, attributes and values are in key order
type Key struct {
	EntityType string
	Attributes []string
	Values     []interface{}
}

// IsComposite whether the key spans more than one attribute
func (key Key) IsComposite() bool {
	return len(key.Attributes) > 1
}

// Get get the value of a key attribute
func (key Key) Get(attribute string) interface{} {
	for idx, name := range key.Attributes {
		if name == attribute && idx < len(key.Values) {
			return key.Values[idx]
		}
	}
	return nil
}

// First get the value of the first key attribute
func (key Key) First() interface{} {
	if len(key.Values) == 0 {
		return nil
	}
	return key.Values[0]
}

// IsNull whether all key values are nil
func (key Key) IsNull() bool {
	for _, value := range key.Values {
		if value != nil {
			return false
		}
	}
	return true
}

func (key Key) String() string {
	return key.EntityType + ":" + utils.ToStringKey(key.Values...)
}

// Entity an instance of an entity definition
type Entity struct {
	definition *Definition
	values     map[string]interface{}
}

// Type entity type of the entity
func (entity *Entity) Type() string {
	return entity.definition.EntityType
}

// Definition definition of the entity
func (entity *Entity) Definition() *Definition {
	return entity.definition
}

// Set set attribute value, values are validated against the attribute value type
func (entity *Entity) Set(attribute string, value interface{}) error {
	attr, err := entity.definition.Attribute(attribute)
	if err != nil {
		return err
	}

	if err := attr.Validate(value); err != nil {
		return err
	}

	entity.values[attr.Name] = value
	return nil
}

// MustSet like Set, but panics on invalid values
func (entity *Entity) MustSet(attribute string, value interface{}) *Entity {
	if err := entity.Set(attribute, value); err != nil {
		panic(err)
	}
	return entity
}

// Get get attribute value
func (entity *Entity) Get(attribute string) interface{} {
	return entity.values[attribute]
}

// Key primary key of the entity
func (entity *Entity) Key() Key {
	key := Key{
		EntityType: entity.definition.EntityType,
		Attributes: make([]string, len(entity.definition.PrimaryKey)),
		Values:     make([]interface{}, len(entity.definition.PrimaryKey)),
	}

	for idx, attr := range entity.definition.PrimaryKey {
		key.Attributes[idx] = attr.Name
		key.Values[idx] = entity.values[attr.Name]
	}
	return key
}

func (entity *Entity) String() string {
	return fmt.Sprintf("%v%v", entity.definition.EntityType, entity.values)
}
