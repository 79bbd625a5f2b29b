package conditions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gorm.io/conditions"
	"gorm.io/conditions/logger"
	"gorm.io/conditions/schema"
	. "gorm.io/conditions/utils/tests"
)

var (
	domain     = NewDomain()
	department = MustDefinition(domain, Department)
	employee   = MustDefinition(domain, Employee)
	master     = MustDefinition(domain, Master)
	detail     = MustDefinition(domain, Detail)

	compiler = conditions.Open(conditions.WithLogger(logger.Discard))
)

func compile(t *testing.T, compiler *conditions.Compiler, definition *schema.Definition, condition conditions.Condition) conditions.WhereCondition {
	t.Helper()

	where, err := compiler.Compile(context.Background(), conditions.NewEntityCondition(definition.EntityType, condition), definition)
	require.NoError(t, err)
	AssertAligned(t, where.Clause(), where.Values(), len(where.Columns()))
	return where
}

func must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func values(n int) []interface{} {
	results := make([]interface{}, n)
	for i := range results {
		results[i] = i + 1
	}
	return results
}

func TestCompile(t *testing.T) {
	var (
		name   = conditions.MustColumn("name", conditions.Like, "SMITH")
		job    = conditions.MustColumn("job", conditions.Like, "CLERK")
		salary = conditions.MustColumn("salary", conditions.GreaterThan, 1000.0)
	)

	results := []struct {
		Definition *schema.Definition
		Condition  conditions.Condition
		Clause     string
		Values     []interface{}
	}{
		{employee, name, "ename = ?", []interface{}{"SMITH"}},
		{employee, conditions.MustColumn("name", conditions.Like, "jo%"), "ename like ?", []interface{}{"jo%"}},
		{employee, conditions.MustColumn("name", conditions.Like, "j_n"), "ename like ?", []interface{}{"j_n"}},
		{employee, conditions.MustColumn("name", conditions.NotLike, "jo%"), "ename not like ?", []interface{}{"jo%"}},
		{employee, conditions.MustColumn("name", conditions.NotLike, "John"), "ename <> ?", []interface{}{"John"}},
		{employee, conditions.MustColumn("name", conditions.Like, "%upper%"), "ename like ?", []interface{}{"%upper%"}},
		{employee, conditions.MustColumn("name", conditions.NotLike, "%upper%"), "ename not like ?", []interface{}{"%upper%"}},
		{employee, conditions.IsNull("commission"), "comm is null", nil},
		{employee, conditions.IsNotNull("commission"), "comm is not null", nil},
		{employee, conditions.MustColumn("commission", conditions.Like, nil), "comm is null", nil},
		{employee, conditions.MustColumn("id", conditions.Like, (*schema.Key)(nil)), "empno is null", nil},
		{employee, conditions.MustColumn("id", conditions.NotLike, (*schema.Entity)(nil)), "empno is not null", nil},
		{employee, conditions.MustColumn("id", conditions.Like, []int{1, 2, 3}), "empno in (?, ?, ?)", []interface{}{1, 2, 3}},
		{employee, conditions.MustColumn("id", conditions.NotLike, []int{1, 2}), "empno not in (?, ?)", []interface{}{1, 2}},
		{employee, conditions.MustColumn("salary", conditions.LessThan, 1000.0), "sal <= ?", []interface{}{1000.0}},
		{employee, salary, "sal >= ?", []interface{}{1000.0}},
		{
			employee, conditions.MustColumn("salary", conditions.WithinRange, []float64{1000, 2000}),
			"(sal >= ? and sal <= ?)", []interface{}{1000.0, 2000.0},
		},
		{
			employee, conditions.MustColumn("salary", conditions.OutsideRange, []float64{1000, 2000}),
			"(sal <= ? or sal >= ?)", []interface{}{1000.0, 2000.0},
		},
		{department, conditions.MustColumn("name", conditions.GreaterThan, "S"), "dname >= ?", []interface{}{"S"}},
		{department, conditions.MustColumn("name", conditions.LessThan, "S"), "dname <= ?", []interface{}{"S"}},
		{
			department, conditions.MustColumn("name", conditions.WithinRange, []string{"A", "S"}),
			"(dname >= ? and dname <= ?)", []interface{}{"A", "S"},
		},
		{department, conditions.MustColumn("location", conditions.Like, "DALLAS"), "loc = ?", []interface{}{"DALLAS"}},
		{department, conditions.MustColumn("name", conditions.NotLike, "SALES"), "dname <> ?", []interface{}{"SALES"}},
		{
			employee, conditions.MustColumn("name", conditions.Like, "foo").CaseInsensitive(),
			"upper(ename) = upper(?)", []interface{}{"foo"},
		},
		{
			employee, conditions.MustColumn("name", conditions.Like, []string{"a", "b"}).CaseInsensitive(),
			"upper(ename) in (upper(?), upper(?))", []interface{}{"a", "b"},
		},
		{employee, conditions.IsNull("name").CaseInsensitive(), "ename is null", nil},
		{employee, conditions.MustColumn("salary", conditions.Like, 1000.0).CaseInsensitive(), "sal = ?", []interface{}{1000.0}},
		{
			employee, conditions.MustColumn("department_name", conditions.Like, "SALES"),
			"(select dname from scott.dept where dept.deptno = emp.deptno) = ?", []interface{}{"SALES"},
		},
		{employee, conditions.And(name, job), "(ename = ? and job = ?)", []interface{}{"SMITH", "CLERK"}},
		{employee, conditions.Or(name, job), "(ename = ? or job = ?)", []interface{}{"SMITH", "CLERK"}},
		{
			employee, conditions.Or(conditions.And(name, job), conditions.And(salary, conditions.IsNull("commission"))),
			"((ename = ? and job = ?) or (sal >= ? and comm is null))", []interface{}{"SMITH", "CLERK", 1000.0},
		},
		{employee, conditions.And(conditions.Empty, nil, name), "ename = ?", []interface{}{"SMITH"}},
		{employee, conditions.And(conditions.And(), conditions.Or()), "", nil},
		{employee, conditions.Empty, "", nil},
		{employee, nil, "", nil},
		{
			employee, conditions.And(must(conditions.Custom(EmployeeSalaryBetween, nil, nil)), name),
			"ename = ?", []interface{}{"SMITH"},
		},
		{
			detail, conditions.Or(
				conditions.And(conditions.MustColumn("string", conditions.Like, "a"), conditions.MustColumn("int", conditions.Like, 1)),
				conditions.And(conditions.MustColumn("double", conditions.Like, 1.5), conditions.MustColumn("string", conditions.Like, "b%").CaseInsensitive()),
			),
			"((string = ? and int = ?) or (double = ? and upper(string) like upper(?)))", []interface{}{"a", 1, 1.5, "b%"},
		},
	}

	for idx, r := range results {
		t.Run(fmt.Sprintf("case #%v", idx), func(t *testing.T) {
			where := compile(t, compiler, r.Definition, r.Condition)
			assert.Equal(t, r.Clause, where.Clause())
			if r.Values == nil {
				assert.Empty(t, where.Values())
			} else {
				assert.Equal(t, r.Values, where.Values())
			}
		})
	}
}

func TestCompileForeignKeys(t *testing.T) {
	var (
		research = department.NewEntity().MustSet("id", 20).MustSet("name", "RESEARCH")
		first    = master.MustKey(1, 2)
		second   = master.MustKey(3, 4)
	)

	results := []struct {
		Definition *schema.Definition
		Condition  conditions.Condition
		Clause     string
		Values     []interface{}
	}{
		{employee, conditions.MustColumn("department", conditions.Like, nil), "deptno is null", nil},
		{employee, conditions.MustColumn("department", conditions.NotLike, nil), "deptno is not null", nil},
		{employee, conditions.MustColumn("department", conditions.Like, department.MustKey(10)), "deptno = ?", []interface{}{10}},
		{employee, conditions.MustColumn("department", conditions.NotLike, department.MustKey(10)), "deptno <> ?", []interface{}{10}},
		{employee, conditions.MustColumn("department", conditions.Like, research), "deptno = ?", []interface{}{20}},
		{employee, conditions.MustColumn("department", conditions.Like, 30), "deptno = ?", []interface{}{30}},
		{
			employee, conditions.MustColumn("department", conditions.Like, []schema.Key{department.MustKey(10), department.MustKey(20)}),
			"deptno in (?, ?)", []interface{}{10, 20},
		},
		{employee, conditions.MustColumn("manager", conditions.Like, employee.MustKey(7839)), "mgr = ?", []interface{}{7839}},
		{
			employee, conditions.MustColumn("department", conditions.Like, department.MustKey(10)).CaseInsensitive(),
			"deptno = ?", []interface{}{10},
		},
		{detail, conditions.MustColumn("master", conditions.Like, first), "(master_id = ? and master_id_2 = ?)", []interface{}{1, 2}},
		{detail, conditions.MustColumn("master", conditions.NotLike, first), "(master_id <> ? and master_id_2 <> ?)", []interface{}{1, 2}},
		{
			detail, conditions.MustColumn("master", conditions.Like, []schema.Key{first, second}),
			"((master_id = ? and master_id_2 = ?) or (master_id = ? and master_id_2 = ?))", []interface{}{1, 2, 3, 4},
		},
		{
			detail, conditions.MustColumn("master", conditions.NotLike, []schema.Key{first, second}),
			"((master_id <> ? and master_id_2 <> ?) or (master_id <> ? and master_id_2 <> ?))", []interface{}{1, 2, 3, 4},
		},
		{
			detail, conditions.MustColumn("master", conditions.Like, master.MustKey(nil, 2)),
			"(master_id is null and master_id_2 = ?)", []interface{}{2},
		},
		{detail, conditions.MustColumn("master", conditions.Like, nil), "(master_id is null and master_id_2 is null)", nil},
		{
			detail, conditions.And(conditions.MustColumn("master", conditions.Like, first), conditions.MustColumn("string", conditions.Like, "x")),
			"((master_id = ? and master_id_2 = ?) and string = ?)", []interface{}{1, 2, "x"},
		},
		{master, must(conditions.KeyCondition(first)), "(id = ? and id2 = ?)", []interface{}{1, 2}},
		{
			master, must(conditions.KeyCondition(first, second)),
			"((id = ? and id2 = ?) or (id = ? and id2 = ?))", []interface{}{1, 2, 3, 4},
		},
		{employee, must(conditions.KeyCondition(employee.MustKey(7369))), "empno = ?", []interface{}{7369}},
		{
			employee, must(conditions.KeyCondition(employee.MustKey(7369), employee.MustKey(7499), employee.MustKey(7521))),
			"empno in (?, ?, ?)", []interface{}{7369, 7499, 7521},
		},
	}

	for idx, r := range results {
		t.Run(fmt.Sprintf("case #%v", idx), func(t *testing.T) {
			where := compile(t, compiler, r.Definition, r.Condition)
			assert.Equal(t, r.Clause, where.Clause())
			if r.Values == nil {
				assert.Empty(t, where.Values())
			} else {
				assert.Equal(t, r.Values, where.Values())
			}
		})
	}
}

func TestCompileColumns(t *testing.T) {
	condition := conditions.And(
		conditions.MustColumn("master", conditions.Like, master.MustKey(1, 2)),
		conditions.MustColumn("code", conditions.NotLike, nil),
		conditions.MustColumn("double", conditions.WithinRange, []float64{1, 2}),
	)

	where := compile(t, compiler, detail, condition)
	assert.Equal(t, "((master_id = ? and master_id_2 = ?) and code is not null and (double >= ? and double <= ?))", where.Clause())
	assert.Equal(t, "where "+where.Clause(), where.Where())

	var columns []string
	for _, column := range where.Columns() {
		columns = append(columns, column.Column)
	}
	assert.Equal(t, []string{"master_id", "master_id_2", "double", "double"}, columns)
}

func TestCompileCustomConditions(t *testing.T) {
	between := must(conditions.Custom(EmployeeSalaryBetween, []string{"salary", "salary"}, []interface{}{1000.0, 2000.0}))
	where := compile(t, compiler, employee, conditions.And(between, conditions.MustColumn("job", conditions.Like, "CLERK")))
	assert.Equal(t, "(sal between ? and ? and job = ?)", where.Clause())
	assert.Equal(t, []interface{}{1000.0, 2000.0, "CLERK"}, where.Values())
	assert.Equal(t, "sal", where.Columns()[1].Column)

	notNull := must(conditions.Custom(DepartmentNameNotNull, nil, nil))
	where = compile(t, compiler, department, notNull)
	assert.Equal(t, "dname is not null", where.Clause())
	assert.Empty(t, where.Values())

	empty := must(conditions.Custom(EmployeeSalaryBetween, nil, nil))
	where = compile(t, compiler, employee, empty)
	assert.True(t, where.IsEmpty())
	assert.Empty(t, where.Values())
	assert.Empty(t, where.Columns())

	raw := must(conditions.Raw("(ename = ? or job = ?)", []string{"name", "job"}, []interface{}{"KING", "CLERK"}))
	where = compile(t, compiler, employee, conditions.And(raw, conditions.IsNull("commission")))
	assert.Equal(t, "((ename = ? or job = ?) and comm is null)", where.Clause())
	assert.Equal(t, []interface{}{"KING", "CLERK"}, where.Values())
	assert.Equal(t, "job", where.Columns()[1].Column)
}

func TestCompileInClauseLimit(t *testing.T) {
	where := compile(t, compiler, employee, conditions.MustColumn("id", conditions.Like, values(150)))
	assert.Equal(t, "(empno in ("+Placeholders(100)+") or empno in ("+Placeholders(50)+"))", where.Clause())
	assert.Equal(t, values(150), where.Values())

	where = compile(t, compiler, employee, conditions.MustColumn("id", conditions.Like, values(100)))
	assert.Equal(t, "empno in ("+Placeholders(100)+")", where.Clause())

	small := conditions.Open(conditions.WithLogger(logger.Discard), conditions.WithInClauseLimit(2))
	where = compile(t, small, employee, conditions.MustColumn("id", conditions.Like, values(3)))
	assert.Equal(t, "(empno in (?, ?) or empno in (?))", where.Clause())

	where = compile(t, small, employee, conditions.MustColumn("id", conditions.NotLike, values(3)))
	assert.Equal(t, "(empno not in (?, ?) and empno not in (?))", where.Clause())

	unlimited := conditions.Open(conditions.WithLogger(logger.Discard), conditions.WithInClauseLimit(-1))
	where = compile(t, unlimited, employee, conditions.MustColumn("id", conditions.Like, values(250)))
	assert.Equal(t, "empno in ("+Placeholders(250)+")", where.Clause())
}

func TestCompileUpperFunction(t *testing.T) {
	lower := conditions.Open(conditions.WithLogger(logger.Discard), conditions.WithUpperFunction("lower"))
	where := compile(t, lower, employee, conditions.MustColumn("name", conditions.Like, "Smith").CaseInsensitive())
	assert.Equal(t, "lower(ename) = lower(?)", where.Clause())
	assert.Equal(t, []interface{}{"Smith"}, where.Values())
}

func TestCompileErrors(t *testing.T) {
	results := []struct {
		Definition *schema.Definition
		Condition  conditions.Condition
		Err        error
	}{
		{employee, conditions.MustColumn("unknown", conditions.Like, 1), schema.ErrUnknownAttribute},
		{employee, conditions.MustColumn("department_location", conditions.Like, "DALLAS"), nil},
		{employee, conditions.MustColumn("commission", conditions.Like, "test"), schema.ErrInvalidValue},
		{employee, conditions.MustColumn("salary", conditions.LessThan, []float64{1, 2}), nil},
		{employee, conditions.MustColumn("salary", conditions.WithinRange, 1.0), nil},
		{employee, conditions.MustColumn("salary", conditions.LessThan, []interface{}{nil}), nil},
		{employee, conditions.MustColumn("salary", conditions.GreaterThan, (*schema.Key)(nil)), nil},
		{employee, conditions.MustColumn("salary", conditions.WithinRange, []interface{}{1000.0, nil}), nil},
		{employee, conditions.MustColumn("salary", conditions.OutsideRange, []interface{}{nil, 2000.0}), nil},
		{employee, conditions.MustColumn("salary", conditions.OutsideRange, []float64{1, 2, 3}), nil},
		{employee, must(conditions.Custom("unknown", nil, nil)), nil},
		{employee, conditions.MustColumn("department", conditions.LessThan, department.MustKey(10)), nil},
		{employee, conditions.MustColumn("department", conditions.Like, employee.MustKey(10)), nil},
		{employee, conditions.MustColumn("department", conditions.Like, "SALES"), schema.ErrInvalidValue},
		{detail, conditions.MustColumn("master", conditions.Like, 1), nil},
		{detail, conditions.MustColumn("id", conditions.Like, master.MustKey(1, 2)), nil},
		{employee, must(conditions.Raw("", []string{"name"}, []interface{}{"KING"})), nil},
		{employee, must(conditions.Raw("ename = ?", []string{"unknown"}, []interface{}{"KING"})), schema.ErrUnknownAttribute},
		{employee, conditions.And(conditions.IsNull("name"), conditions.MustColumn("salary", conditions.Like, "high")), schema.ErrInvalidValue},
	}

	for idx, r := range results {
		t.Run(fmt.Sprintf("case #%v", idx), func(t *testing.T) {
			where, err := compiler.Compile(context.Background(), conditions.NewEntityCondition(r.Definition.EntityType, r.Condition), r.Definition)
			require.Error(t, err)
			assert.True(t, errors.Is(err, conditions.ErrInvalidCondition), err)
			if r.Err != nil {
				assert.True(t, errors.Is(err, r.Err), err)
			}
			assert.Equal(t, conditions.WhereCondition{}, where)
		})
	}

	_, err := compiler.Compile(context.Background(), conditions.NewEntityCondition(Department, nil), employee)
	assert.ErrorIs(t, err, conditions.ErrInvalidCondition)

	_, err = compiler.Compile(context.Background(), conditions.NewEntityCondition(Department, nil), nil)
	assert.ErrorIs(t, err, conditions.ErrInvalidCondition)

	_, err = compiler.CompileIn(context.Background(), domain, conditions.NewEntityCondition("unknown", nil))
	assert.ErrorIs(t, err, conditions.ErrInvalidCondition)
	assert.ErrorIs(t, err, schema.ErrUnknownEntity)
}

func TestCompileIn(t *testing.T) {
	where, err := compiler.CompileIn(context.Background(), domain, conditions.NewEntityCondition(Department, conditions.MustColumn("location", conditions.Like, "NEW YORK")))
	require.NoError(t, err)
	assert.Equal(t, "loc = ?", where.Clause())
	assert.Equal(t, []interface{}{"NEW YORK"}, where.Values())

	where, err = conditions.Compile(conditions.NewEntityCondition(Department, nil), department)
	require.NoError(t, err)
	assert.True(t, where.IsEmpty())
	assert.Equal(t, "", where.Where())
}

func TestCompileIdempotent(t *testing.T) {
	condition := conditions.Or(
		conditions.MustColumn("master", conditions.Like, []schema.Key{master.MustKey(1, 2), master.MustKey(3, 4)}),
		conditions.MustColumn("string", conditions.Like, "a%").CaseInsensitive(),
	)

	first := compile(t, compiler, detail, condition)
	second := compile(t, compiler, detail, condition)
	assert.Equal(t, first, second)
}

func TestCompileConcurrently(t *testing.T) {
	condition := conditions.And(
		conditions.MustColumn("department", conditions.Like, department.MustKey(10)),
		conditions.MustColumn("id", conditions.Like, values(120)),
	)
	expected := compile(t, compiler, employee, condition)

	var wg sync.WaitGroup
	results := make([]conditions.WhereCondition, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = compiler.Compile(context.Background(), conditions.NewEntityCondition(Employee, condition), employee)
		}(i)
	}
	wg.Wait()

	for _, where := range results {
		assert.Equal(t, expected, where)
	}
}

func TestCompileTrace(t *testing.T) {
	recorder := logger.Recorder.New()
	traced := conditions.Open(conditions.WithLogger(recorder))

	_, err := traced.Compile(context.Background(), conditions.NewEntityCondition(Employee, conditions.MustColumn("name", conditions.Like, "KING")), employee)
	require.NoError(t, err)
	assert.Equal(t, "ename = ?", recorder.SQL)
	assert.Equal(t, []interface{}{"KING"}, recorder.Vars)
	assert.NoError(t, recorder.Err)

	_, err = traced.Compile(context.Background(), conditions.NewEntityCondition(Employee, conditions.MustColumn("unknown", conditions.Like, 1)), employee)
	require.Error(t, err)
	assert.Equal(t, "", recorder.SQL)
	assert.ErrorIs(t, recorder.Err, conditions.ErrInvalidCondition)
}

func TestCompileTraceZap(t *testing.T) {
	var buf bytes.Buffer
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(&buf), zapcore.InfoLevel)
	traced := conditions.Open(conditions.WithLogger(logger.NewZapLogger(zap.New(core), logger.Config{LogLevel: logger.Info})))

	condition := conditions.Or(conditions.MustColumn("name", conditions.Like, "KING"), conditions.MustColumn("salary", conditions.GreaterThan, 1000.0))
	_, err := traced.Compile(context.Background(), conditions.NewEntityCondition(Employee, condition), employee)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "where compiled", entry["msg"])
	assert.Equal(t, "(ename = ? or sal >= ?)", entry["where"])
	assert.Equal(t, float64(2), entry["binds"])
	assert.Equal(t, []interface{}{"KING", 1000.0}, entry["vars"])
	assert.Contains(t, entry["file"], "compiler_test.go")

	buf.Reset()
	_, err = traced.Compile(context.Background(), conditions.NewEntityCondition(Employee, conditions.MustColumn("unknown", conditions.Like, 1)), employee)
	require.Error(t, err)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry["error"], "invalid condition")
}
