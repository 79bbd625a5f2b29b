package tests

import (
	"fmt"

	"gorm.io/conditions/schema"
)

// Entity types of the test domain
//
// A Department has many Employees, an Employee belongs to a Department and has a Manager
// (belongs to - self referencing). A Detail belongs to a Master, which has a composite key.
const (
	Department = "department"
	Employee   = "employee"
	Master     = "master"
	Detail     = "detail"
)

// Custom condition ids
const (
	DepartmentNameNotNull = "department_name_not_null"
	EmployeeSalaryBetween = "employee_salary_between"
)

var noFetch = 0

// NewDomain defines the test domain
func NewDomain() *schema.Domain {
	domain := schema.NewDomain("test", schema.NamingStrategy{TablePrefix: "scott."})

	domain.MustDefine(schema.Model{
		EntityType: Department,
		Table:      "scott.dept",
		Fields: []schema.Field{
			{Name: "id", Column: "deptno", Type: schema.TypeInt, PrimaryKey: true},
			{Name: "name", Column: "dname", Type: schema.TypeString},
			{Name: "location", Column: "loc", Type: schema.TypeString},
			{Name: "active", Type: schema.TypeBool},
			{Name: "data", Type: schema.TypeBytes},
		},
		Conditions: map[string]schema.ConditionProvider{
			DepartmentNameNotNull: func([]*schema.Attribute, []interface{}) string {
				return "dname is not null"
			},
		},
	})

	domain.MustDefine(schema.Model{
		EntityType: Employee,
		Table:      "scott.emp",
		Fields: []schema.Field{
			{Name: "id", Column: "empno", Type: schema.TypeInt, PrimaryKey: true},
			{Name: "name", Column: "ename", Type: schema.TypeString},
			{Name: "job", Type: schema.TypeString},
			{Name: "salary", Column: "sal", Type: schema.TypeFloat},
			{Name: "commission", Column: "comm", Type: schema.TypeFloat},
			{Name: "hiredate", Type: schema.TypeTime},
			{Name: "department_id", Column: "deptno", Type: schema.TypeInt},
			{Name: "manager_id", Column: "mgr", Type: schema.TypeInt},
			{Name: "department_name", Subquery: "select dname from scott.dept where dept.deptno = emp.deptno", Type: schema.TypeString},
			{Name: "department_location", Type: schema.TypeString, Transient: true},
		},
		Relations: []schema.Relation{
			{Name: "department", Referenced: Department, Columns: []string{"department_id"}},
			{Name: "manager", Referenced: Employee, Columns: []string{"manager_id"}, FetchDepth: &noFetch},
		},
		Conditions: map[string]schema.ConditionProvider{
			EmployeeSalaryBetween: func(attributes []*schema.Attribute, values []interface{}) string {
				if len(attributes) == 0 {
					return ""
				}
				return fmt.Sprintf("%s between ? and ?", attributes[0].Column)
			},
		},
	})

	domain.MustDefine(schema.Model{
		EntityType: Master,
		Fields: []schema.Field{
			{Name: "id", Type: schema.TypeInt, PrimaryKey: true},
			{Name: "id2", Type: schema.TypeInt, PrimaryKey: true},
			{Name: "name", Type: schema.TypeString},
		},
	})

	domain.MustDefine(schema.Model{
		EntityType: Detail,
		Fields: []schema.Field{
			{Name: "id", Type: schema.TypeInt, PrimaryKey: true},
			{Name: "masterId", Column: "master_id", Type: schema.TypeInt},
			{Name: "masterId2", Column: "master_id_2", Type: schema.TypeInt},
			{Name: "string", Type: schema.TypeString},
			{Name: "int", Type: schema.TypeInt},
			{Name: "double", Type: schema.TypeFloat},
			{Name: "code", Type: schema.TypeUUID},
		},
		Relations: []schema.Relation{
			{Name: "master", Referenced: Master, Columns: []string{"masterId", "masterId2"}},
		},
	})

	return domain
}

// MustDefinition find definition, panics if not defined
func MustDefinition(domain *schema.Domain, entityType string) *schema.Definition {
	definition, err := domain.Definition(entityType)
	if err != nil {
		panic(err)
	}
	return definition
}
