package schema_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/conditions/schema"
	"gorm.io/conditions/utils/tests"
)

func TestDefine(t *testing.T) {
	domain := tests.NewDomain()

	employee, err := domain.Definition(tests.Employee)
	require.NoError(t, err)
	assert.Equal(t, "scott.emp", employee.Table)
	assert.Same(t, domain, employee.Domain())
	assert.Len(t, employee.PrimaryKey, 1)
	assert.Len(t, employee.ForeignKeys, 2)

	salary, err := employee.Attribute("salary")
	require.NoError(t, err)
	assert.Equal(t, "sal", salary.Column)
	assert.Equal(t, "employee.salary", salary.String())
	assert.True(t, salary.IsColumn())
	assert.False(t, salary.IsString())

	job, err := employee.Attribute("job")
	require.NoError(t, err)
	assert.Equal(t, "job", job.Column)
	assert.True(t, job.IsString())

	name, err := employee.Attribute("department_name")
	require.NoError(t, err)
	assert.True(t, name.IsSubquery())
	assert.True(t, name.IsColumn())
	assert.Equal(t, "select dname from scott.dept where dept.deptno = emp.deptno", name.Expression())

	location, err := employee.Attribute("department_location")
	require.NoError(t, err)
	assert.False(t, location.IsColumn())

	department, err := employee.Attribute("department")
	require.NoError(t, err)
	assert.True(t, department.IsForeignKey())
	assert.False(t, department.IsColumn())
	assert.Equal(t, schema.TypeEntity, department.Type)
	assert.Equal(t, tests.Department, department.ForeignKey.ReferencedEntity)
	assert.Equal(t, schema.DefaultFetchDepth, department.ForeignKey.FetchDepth)
	assert.Equal(t, "deptno", department.ForeignKey.Columns()[0].Column)

	manager, err := employee.ForeignKey("manager")
	require.NoError(t, err)
	assert.Equal(t, 0, manager.FetchDepth)
	assert.Equal(t, tests.Employee, manager.ReferencedEntity)
	assert.Equal(t, "employee.manager", manager.String())

	_, err = employee.ForeignKey("salary")
	assert.ErrorIs(t, err, schema.ErrUnknownAttribute)

	detail := tests.MustDefinition(domain, tests.Detail)
	assert.Equal(t, "scott.details", detail.Table)
	master, err := detail.ForeignKey("master")
	require.NoError(t, err)
	assert.True(t, master.IsComposite())
	assert.Equal(t, []string{"master_id", "master_id_2"}, []string{master.Columns()[0].Column, master.Columns()[1].Column})
	assert.Equal(t, []string{"id", "id2"}, []string{master.References[0].Referenced.Name, master.References[1].Referenced.Name})

	code, err := detail.Attribute("code")
	require.NoError(t, err)
	assert.Equal(t, "code", code.Column)

	_, ok := employee.ConditionProvider(tests.EmployeeSalaryBetween)
	assert.True(t, ok)
	_, ok = employee.ConditionProvider(tests.DepartmentNameNotNull)
	assert.False(t, ok)
}

func TestLookUpAttribute(t *testing.T) {
	employee := tests.MustDefinition(tests.NewDomain(), tests.Employee)

	results := map[string]string{
		"salary":        "salary",
		"sal":           "salary",
		"SALARY":        "salary",
		"Department_ID": "department_id",
		"deptno":        "department_id",
		"hireDate":      "hiredate",
		"manager":       "manager",
	}

	for name, expected := range results {
		attr := employee.LookUpAttribute(name)
		if assert.NotNil(t, attr, name) {
			assert.Equal(t, expected, attr.Name, name)
		}
	}

	assert.Nil(t, employee.LookUpAttribute("unknown"))
	_, err := employee.Attribute("unknown")
	assert.ErrorIs(t, err, schema.ErrUnknownAttribute)
}

func TestDefineErrors(t *testing.T) {
	domain := tests.NewDomain()

	results := []struct {
		Model schema.Model
		Err   error
	}{
		{schema.Model{}, schema.ErrInvalidDefinition},
		{schema.Model{EntityType: tests.Employee}, schema.ErrInvalidDefinition},
		{schema.Model{EntityType: "a", Fields: []schema.Field{{}}}, schema.ErrInvalidDefinition},
		{schema.Model{EntityType: "b", Fields: []schema.Field{{Name: "x"}, {Name: "x"}}}, schema.ErrInvalidDefinition},
		{schema.Model{EntityType: "c", Fields: []schema.Field{{Name: "x", Transient: true, PrimaryKey: true}}}, schema.ErrInvalidDefinition},
		{
			schema.Model{EntityType: "d", Fields: []schema.Field{{Name: "x"}}, Relations: []schema.Relation{{Name: "r", Referenced: "unknown", Columns: []string{"x"}}}},
			schema.ErrUnknownEntity,
		},
		{
			schema.Model{EntityType: "e", Fields: []schema.Field{{Name: "x"}}, Relations: []schema.Relation{{Name: "r", Referenced: tests.Master, Columns: []string{"x"}}}},
			schema.ErrInvalidDefinition,
		},
		{
			schema.Model{EntityType: "f", Fields: []schema.Field{{Name: "x"}}, Relations: []schema.Relation{{Name: "r", Referenced: tests.Department, Columns: []string{"y"}}}},
			schema.ErrInvalidDefinition,
		},
		{
			schema.Model{EntityType: "g", Fields: []schema.Field{{Name: "x"}}, Relations: []schema.Relation{{Name: "x", Referenced: tests.Department, Columns: []string{"x"}}}},
			schema.ErrInvalidDefinition,
		},
		{schema.Model{EntityType: "h", Conditions: map[string]schema.ConditionProvider{"nil": nil}}, schema.ErrInvalidDefinition},
		{schema.Model{EntityType: "i", Fields: []schema.Field{{Name: "x", Column: "col"}, {Name: "y", Column: "col"}}}, schema.ErrInvalidDefinition},
		{schema.Model{EntityType: "j", Fields: []schema.Field{{Name: "userName"}, {Name: "user_name"}}}, schema.ErrInvalidDefinition},
	}

	for idx, r := range results {
		t.Run(fmt.Sprintf("case #%v", idx), func(t *testing.T) {
			_, err := domain.Define(r.Model)
			assert.ErrorIs(t, err, r.Err)
		})
	}

	assert.Panics(t, func() { domain.MustDefine(schema.Model{}) })

	_, err := domain.Definition("unknown")
	assert.ErrorIs(t, err, schema.ErrUnknownEntity)
}

func TestDefineSelfReference(t *testing.T) {
	domain := schema.NewDomain("test", nil)
	node, err := domain.Define(schema.Model{
		EntityType: "TreeNode",
		Fields:     []schema.Field{{Name: "ID", Type: schema.TypeInt, PrimaryKey: true}, {Name: "ParentID", Type: schema.TypeInt}},
		Relations:  []schema.Relation{{Name: "Parent", Referenced: "TreeNode", Columns: []string{"ParentID"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "tree_nodes", node.Table)

	parent, err := node.ForeignKey("Parent")
	require.NoError(t, err)
	assert.Equal(t, "parent_id", parent.Columns()[0].Column)
	assert.Equal(t, "id", parent.References[0].Referenced.Column)
}

func TestDefineConcurrently(t *testing.T) {
	domain := schema.NewDomain("test", nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entityType := fmt.Sprintf("Entity%d", i)
			_, err := domain.Define(schema.Model{EntityType: entityType, Fields: []schema.Field{{Name: "ID", PrimaryKey: true}}})
			assert.NoError(t, err)
			_, err = domain.Definition(entityType)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}

func TestKey(t *testing.T) {
	domain := tests.NewDomain()
	master := tests.MustDefinition(domain, tests.Master)

	key, err := master.Key(1, 2)
	require.NoError(t, err)
	assert.True(t, key.IsComposite())
	assert.Equal(t, 1, key.First())
	assert.Equal(t, 2, key.Get("id2"))
	assert.Nil(t, key.Get("name"))
	assert.Equal(t, "master:1_2", key.String())
	assert.False(t, key.IsNull())

	key, err = master.Key(nil, nil)
	require.NoError(t, err)
	assert.True(t, key.IsNull())
	assert.Equal(t, "master:null_null", key.String())

	_, err = master.Key(1)
	assert.ErrorIs(t, err, schema.ErrInvalidValue)
	_, err = master.Key(1, "2")
	assert.ErrorIs(t, err, schema.ErrInvalidValue)
	assert.Panics(t, func() { master.MustKey("1", 2) })

	assert.Nil(t, schema.Key{}.First())
}

func TestEntity(t *testing.T) {
	department := tests.MustDefinition(tests.NewDomain(), tests.Department)

	entity := department.NewEntity()
	assert.Equal(t, tests.Department, entity.Type())
	assert.Same(t, department, entity.Definition())
	assert.True(t, entity.Key().IsNull())

	require.NoError(t, entity.Set("id", 10))
	require.NoError(t, entity.Set("dname", "ACCOUNTING"))
	assert.Equal(t, "ACCOUNTING", entity.Get("name"))
	assert.Equal(t, department.MustKey(10), entity.Key())

	err := entity.Set("name", 42)
	assert.ErrorIs(t, err, schema.ErrInvalidValue)
	assert.True(t, errors.Is(entity.Set("unknown", 1), schema.ErrUnknownAttribute))
	assert.Panics(t, func() { entity.MustSet("id", "ten") })
}
