package conditions

import (
	"context"
	"time"

	"gorm.io/conditions/schema"
)

// Compiler compiles entity conditions into where clauses, safe for concurrent use
type Compiler struct {
	*Config
}

// Open create a compiler
func Open(opts ...ConfigOption) *Compiler {
	return &Compiler{Config: (&Config{}).apply(opts...)}
}

var defaultCompiler = Open()

// Compile compile condition against definition with the default compiler
func Compile(condition EntityCondition, definition *schema.Definition) (WhereCondition, error) {
	return defaultCompiler.Compile(context.Background(), condition, definition)
}

// Compile expand foreign key conditions and compile condition against definition. Compiling
// fails with ErrInvalidCondition, nothing is returned on error.
func (compiler *Compiler) Compile(ctx context.Context, condition EntityCondition, definition *schema.Definition) (where WhereCondition, err error) {
	begin := time.Now()
	defer func() {
		compiler.Logger.Trace(ctx, begin, func() (string, []interface{}) {
			return where.clause, where.values
		}, err)
	}()

	if definition == nil {
		return WhereCondition{}, invalidf("no definition for %s", condition.EntityType)
	}
	if condition.EntityType != "" && condition.EntityType != definition.EntityType {
		return WhereCondition{}, invalidf("condition on %s compiled against %s", condition.EntityType, definition.EntityType)
	}

	stmt, err := compiler.where(condition.Condition, definition)
	if err != nil {
		return WhereCondition{}, err
	}
	return stmt.where(), nil
}

// CompileIn compile condition against the definition of its entity type in domain
func (compiler *Compiler) CompileIn(ctx context.Context, domain *schema.Domain, condition EntityCondition) (WhereCondition, error) {
	definition, err := domain.Definition(condition.EntityType)
	if err != nil {
		return WhereCondition{}, invalidf("%w", err)
	}
	return compiler.Compile(ctx, condition, definition)
}

func (compiler *Compiler) where(condition Condition, definition *schema.Definition) (*statement, error) {
	expanded, err := Expand(condition, definition)
	if err != nil {
		return nil, err
	}

	expr, err := compiler.expression(expanded, definition)
	if err != nil {
		return nil, err
	}

	stmt := &statement{}
	stmt.build(expr)
	return stmt, nil
}
