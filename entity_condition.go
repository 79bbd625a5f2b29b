package conditions

import (
	"gorm.io/conditions/clause"
	"gorm.io/conditions/schema"
)

// EntityCondition a condition on the rows of an entity type, a nil Condition matches all rows
type EntityCondition struct {
	EntityType string
	Condition  Condition
}

// NewEntityCondition create an entity condition
func NewEntityCondition(entityType string, condition Condition) EntityCondition {
	return EntityCondition{EntityType: entityType, Condition: condition}
}

// KeysCondition condition matching the rows identified by keys
func KeysCondition(keys ...schema.Key) (EntityCondition, error) {
	condition, err := KeyCondition(keys...)
	if err != nil {
		return EntityCondition{}, err
	}
	return EntityCondition{EntityType: keys[0].EntityType, Condition: condition}, nil
}

// Order an attribute to order by
type Order struct {
	Attribute  string
	Descending bool
}

// OrderBy ordered attributes, an attribute can be ordered by once only
type OrderBy struct {
	orders []Order
}

// Ascending add attributes in ascending order
func (orderBy OrderBy) Ascending(attributes ...string) (OrderBy, error) {
	return orderBy.add(false, attributes)
}

// Descending add attributes in descending order
func (orderBy OrderBy) Descending(attributes ...string) (OrderBy, error) {
	return orderBy.add(true, attributes)
}

func (orderBy OrderBy) add(descending bool, attributes []string) (OrderBy, error) {
	orders := make([]Order, len(orderBy.orders), len(orderBy.orders)+len(attributes))
	copy(orders, orderBy.orders)

	for _, attribute := range attributes {
		for _, order := range orders {
			if order.Attribute == attribute {
				return orderBy, invalidf("duplicate order by attribute %s", attribute)
			}
		}
		orders = append(orders, Order{Attribute: attribute, Descending: descending})
	}
	return OrderBy{orders: orders}, nil
}

// Orders copy of the orders
func (orderBy OrderBy) Orders() []Order {
	return append([]Order{}, orderBy.orders...)
}

// IsEmpty whether no attribute is ordered by
func (orderBy OrderBy) IsEmpty() bool {
	return len(orderBy.orders) == 0
}

// Clause resolve the ordered attributes against definition, foreign keys order by their columns
func (orderBy OrderBy) Clause(definition *schema.Definition) (clause.OrderBy, error) {
	var result clause.OrderBy
	for _, order := range orderBy.orders {
		attr, err := definition.Attribute(order.Attribute)
		if err != nil {
			return result, invalidf("%w", err)
		}

		attributes := []*schema.Attribute{attr}
		if attr.IsForeignKey() {
			attributes = attr.ForeignKey.Columns()
		} else if !attr.IsColumn() {
			return result, invalidf("can't order by %v, not a column", attr)
		}

		for _, attr := range attributes {
			if !result.Contains(attr.Expression()) {
				result.Columns = append(result.Columns, clause.OrderByColumn{Column: attributeColumn(attr), Desc: order.Descending})
			}
		}
	}
	return result, nil
}

// SelectCondition an entity condition with the modifiers of a select query
type SelectCondition struct {
	EntityCondition

	orderBy     OrderBy
	limit       *int
	offset      int
	fetchCount  int
	forUpdate   bool
	forShare    bool
	lockOptions clause.LockingOptions
	fetchDepth  *int
	fetchDepths map[string]int
	attributes  []string
}

// Select select the rows of entityType matching condition
func Select(entityType string, condition Condition) *SelectCondition {
	return &SelectCondition{EntityCondition: NewEntityCondition(entityType, condition), fetchCount: -1}
}

// SelectKeys select the rows identified by keys
func SelectKeys(keys ...schema.Key) (*SelectCondition, error) {
	condition, err := KeysCondition(keys...)
	if err != nil {
		return nil, err
	}
	return &SelectCondition{EntityCondition: condition, fetchCount: -1}, nil
}

// SelectWhere select the rows of entityType where attribute compares to value
func SelectWhere(entityType, attribute string, operator Operator, value interface{}) (*SelectCondition, error) {
	condition, err := Column(attribute, operator, value)
	if err != nil {
		return nil, err
	}
	return Select(entityType, condition), nil
}

// WithOrderBy set the order
func (s *SelectCondition) WithOrderBy(orderBy OrderBy) *SelectCondition {
	s.orderBy = orderBy
	return s
}

// WithLimit set max rows of the result, negative for no limit
func (s *SelectCondition) WithLimit(limit int) *SelectCondition {
	s.limit = &limit
	return s
}

// WithOffset set number of rows skipped
func (s *SelectCondition) WithOffset(offset int) *SelectCondition {
	s.offset = offset
	return s
}

// WithFetchCount set max rows fetched from the result, negative to fetch all
func (s *SelectCondition) WithFetchCount(count int) *SelectCondition {
	s.fetchCount = count
	return s
}

// WithForUpdate lock the selected rows
func (s *SelectCondition) WithForUpdate(forUpdate bool) *SelectCondition {
	s.forUpdate = forUpdate
	return s
}

// WithForShare lock the selected rows in share mode, for update takes precedence
func (s *SelectCondition) WithForShare(forShare bool) *SelectCondition {
	s.forShare = forShare
	return s
}

// WithLockOptions set how locking treats rows already locked, e.g. clause.LockingOptionsNoWait
func (s *SelectCondition) WithLockOptions(options clause.LockingOptions) *SelectCondition {
	s.lockOptions = options
	return s
}

// WithFetchDepth set the fetch depth of every foreign key, 0 fetches no referenced entities
// and negative values fetch without limit
func (s *SelectCondition) WithFetchDepth(depth int) *SelectCondition {
	s.fetchDepth = &depth
	return s
}

// WithForeignKeyFetchDepth set the fetch depth of a single foreign key
func (s *SelectCondition) WithForeignKeyFetchDepth(foreignKey string, depth int) *SelectCondition {
	depths := make(map[string]int, len(s.fetchDepths)+1)
	for name, d := range s.fetchDepths {
		depths[name] = d
	}
	depths[foreignKey] = depth
	s.fetchDepths = depths
	return s
}

// WithAttributes populate only attributes, all column attributes when empty
func (s *SelectCondition) WithAttributes(attributes ...string) *SelectCondition {
	s.attributes = append([]string{}, attributes...)
	return s
}

// OrderBy the order
func (s *SelectCondition) OrderBy() OrderBy {
	return s.orderBy
}

// Limit max rows of the result, false when unlimited
func (s *SelectCondition) Limit() (int, bool) {
	if s.limit == nil || *s.limit < 0 {
		return 0, false
	}
	return *s.limit, true
}

// Offset number of rows skipped
func (s *SelectCondition) Offset() int {
	return s.offset
}

// FetchCount max rows fetched, negative to fetch all
func (s *SelectCondition) FetchCount() int {
	return s.fetchCount
}

// ForUpdate whether selected rows are locked
func (s *SelectCondition) ForUpdate() bool {
	return s.forUpdate
}

// ForShare whether selected rows are locked in share mode
func (s *SelectCondition) ForShare() bool {
	return s.forShare && !s.forUpdate
}

// LockOptions how locking treats rows already locked
func (s *SelectCondition) LockOptions() clause.LockingOptions {
	return s.lockOptions
}

// Attributes attributes to populate, empty for all
func (s *SelectCondition) Attributes() []string {
	return append([]string{}, s.attributes...)
}

// FetchDepth resolve the fetch depth of fk: the depth set for fk, then the depth set for
// every foreign key, then the default of fk
func (s *SelectCondition) FetchDepth(fk *schema.ForeignKey) int {
	if depth, ok := s.fetchDepths[fk.Name]; ok {
		return depth
	}
	if s.fetchDepth != nil {
		return *s.fetchDepth
	}
	return fk.FetchDepth
}

// OrderByClause the order by columns, e.g. ename desc, empno
func (s *SelectCondition) OrderByClause(definition *schema.Definition) (string, error) {
	orderBy, err := s.orderBy.Clause(definition)
	if err != nil {
		return "", err
	}
	return clause.Build(orderBy), nil
}

// LimitClause limit and offset, nil when neither is set
func (s *SelectCondition) LimitClause() clause.Expression {
	limit, ok := s.Limit()
	if !ok && s.offset <= 0 {
		return nil
	}

	expr := clause.Limit{Offset: s.offset}
	if ok {
		expr.Limit = &limit
	}
	return expr
}

// LockingClause for update or for share with the lock options, nil when rows are not locked
func (s *SelectCondition) LockingClause() clause.Expression {
	switch {
	case s.forUpdate:
		return clause.Locking{Strength: clause.LockingStrengthUpdate, Options: s.lockOptions}
	case s.forShare:
		return clause.Locking{Strength: clause.LockingStrengthShare, Options: s.lockOptions}
	}
	return nil
}

// UpdateCondition an entity condition with the values to update the matching rows with
type UpdateCondition struct {
	EntityCondition

	attributes []string
	values     []interface{}
}

// Update update the rows of entityType matching condition
func Update(entityType string, condition Condition) *UpdateCondition {
	return &UpdateCondition{EntityCondition: NewEntityCondition(entityType, condition)}
}

// Set set the value of attribute, an attribute can be set once only
func (u *UpdateCondition) Set(attribute string, value interface{}) error {
	for _, name := range u.attributes {
		if name == attribute {
			return invalidf("duplicate attribute %s", attribute)
		}
	}

	u.attributes = append(u.attributes, attribute)
	u.values = append(u.values, value)
	return nil
}

// MustSet like Set, but panics on error
func (u *UpdateCondition) MustSet(attribute string, value interface{}) *UpdateCondition {
	if err := u.Set(attribute, value); err != nil {
		panic(err)
	}
	return u
}

// Attributes the attributes set, in order
func (u *UpdateCondition) Attributes() []string {
	return append([]string{}, u.attributes...)
}

// Value the value set for attribute
func (u *UpdateCondition) Value(attribute string) (interface{}, bool) {
	for idx, name := range u.attributes {
		if name == attribute {
			return u.values[idx], true
		}
	}
	return nil, false
}

// SetClause resolve the assignments against definition, foreign keys assign the key values
// to their columns
func (u *UpdateCondition) SetClause(definition *schema.Definition) (clause.Set, error) {
	var set clause.Set
	for idx, name := range u.attributes {
		attr, err := definition.Attribute(name)
		if err != nil {
			return nil, invalidf("%w", err)
		}

		if attr.IsForeignKey() {
			keys, err := foreignKeys(attr.ForeignKey, u.values[idx])
			if err != nil {
				return nil, err
			}
			if len(keys) != 1 {
				return nil, invalidf("%v: %d keys given for a single reference", attr, len(keys))
			}

			for i, column := range attr.ForeignKey.Columns() {
				var value interface{}
				if keys[0] != nil {
					value = keys[0].Values[i]
				}
				if set, err = assign(set, column, value); err != nil {
					return nil, err
				}
			}
			continue
		}

		if attr.IsSubquery() || !attr.IsColumn() {
			return nil, invalidf("%v can't be updated, not a column", attr)
		}
		if set, err = assign(set, attr, u.values[idx]); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func assign(set clause.Set, attr *schema.Attribute, value interface{}) (clause.Set, error) {
	value, err := columnValue(attr, value)
	if err != nil {
		return nil, err
	}

	for _, assignment := range set {
		if assignment.Column.Name == attr.Column {
			return nil, invalidf("duplicate attribute %v", attr)
		}
	}
	return append(set, clause.Assignment{Column: attributeColumn(attr), Value: value}), nil
}
