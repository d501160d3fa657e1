package querybuilder

import (
	"fmt"
	"sort"
	"strings"
)

// QueryBuilder assembles SQL with '?' placeholders; callers rebind for their driver.
type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Into(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder

	Or(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder

	AndGroup(fn func(qb QueryBuilder)) QueryBuilder
	OrGroup(fn func(qb QueryBuilder)) QueryBuilder

	OrderBy(col string, asc bool) QueryBuilder
	GroupBy(cols ...string) QueryBuilder
	Limit(n int) QueryBuilder
	Offset(n int) QueryBuilder

	Insert(cols ...string) QueryBuilder
	Values(values ...interface{}) QueryBuilder

	Update(table string, data UpdateData) QueryBuilder
	Delete(table string) QueryBuilder
	Returning(cols ...string) QueryBuilder
	Build() (string, []interface{})

	DoNothing() QueryBuilder
	SetExclude(cols ...string) QueryBuilder
	OnConflict(cols ...string) QueryBuilder

	getConditions() []Condition
}

// UpdateData maps column to new value.
type UpdateData map[string]interface{}

// InsertRows holds one value tuple per inserted row.
type InsertRows [][]interface{}

type queryBuilder struct {
	table       string
	cols        []string
	conditions  []Condition
	values      InsertRows
	updateData  UpdateData
	groupBy     []string
	orderBy     []string
	returning   []string
	limit       int
	offset      int
	isDelete    bool
	excludeCols []string
	onConflict  []string
	schema      string
}

func (q *queryBuilder) DoNothing() QueryBuilder {
	q.excludeCols = nil
	return q
}

func (q *queryBuilder) SetExclude(cols ...string) QueryBuilder {
	q.excludeCols = cols
	return q
}

func (q *queryBuilder) OnConflict(cols ...string) QueryBuilder {
	q.onConflict = cols
	return q
}

func (q *queryBuilder) getConditions() []Condition {
	return q.conditions
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) Insert(cols ...string) QueryBuilder {
	q.cols = cols
	return q
}

func (q *queryBuilder) Values(values ...interface{}) QueryBuilder {
	q.values = append(q.values, values)
	return q
}

func (q *queryBuilder) Update(table string, data UpdateData) QueryBuilder {
	q.table = table
	q.updateData = data
	return q
}

func (q *queryBuilder) Delete(table string) QueryBuilder {
	q.table = table
	q.isDelete = true
	return q
}

func (q *queryBuilder) Returning(cols ...string) QueryBuilder {
	q.returning = append(q.returning, cols...)
	return q
}

func (q *queryBuilder) Or(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{
		condType: CondTypeOr,
		clause:   clause,
		args:     args,
	})
	return q
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, Condition{
		condType: CondTypeAnd,
		clause:   clause,
		args:     args,
	})
	return q
}

func (q *queryBuilder) group(condType CondType, fn func(qb QueryBuilder)) QueryBuilder {
	rawQueryBuilder := NewQueryBuilder(q.schema)
	fn(rawQueryBuilder)
	q.conditions = append(q.conditions, Condition{
		condType:   condType,
		subCond:    rawQueryBuilder.getConditions(),
		isSubGroup: true,
	})
	return q
}

func (q *queryBuilder) AndGroup(fn func(qb QueryBuilder)) QueryBuilder {
	return q.group(CondTypeAnd, fn)
}

func (q *queryBuilder) OrGroup(fn func(qb QueryBuilder)) QueryBuilder {
	return q.group(CondTypeOr, fn)
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	orderVector := "ASC"
	if !asc {
		orderVector = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, orderVector))
	return q
}

func (q *queryBuilder) GroupBy(cols ...string) QueryBuilder {
	q.groupBy = append(q.groupBy, cols...)
	return q
}

func (q *queryBuilder) Limit(n int) QueryBuilder {
	q.limit = n
	return q
}

func (q *queryBuilder) Offset(n int) QueryBuilder {
	q.offset = n
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Into(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	return q.And(clause, args...)
}

func (q *queryBuilder) qualifiedTable() string {
	if q.schema == "" {
		return q.table
	}
	return fmt.Sprintf("%s.%s", q.schema, q.table)
}

func (q *queryBuilder) Build() (string, []interface{}) {
	switch {
	case len(q.values) > 0:
		return q.buildInsert()
	case len(q.updateData) > 0:
		return q.buildUpdate()
	case q.isDelete:
		return q.buildDelete()
	default:
		return q.buildSelect()
	}
}

func (q *queryBuilder) appendWhere(query string, args []interface{}) (string, []interface{}) {
	if len(q.conditions) == 0 {
		return query, args
	}
	condition, condArgs := renderConditions(q.conditions)
	if condition == "" {
		return query, args
	}
	return query + fmt.Sprintf(" WHERE %s", condition), append(args, condArgs...)
}

func (q *queryBuilder) appendReturning(query string) string {
	if len(q.returning) == 0 {
		return query
	}
	return query + fmt.Sprintf(" RETURNING %s", strings.Join(q.returning, ", "))
}

func (q *queryBuilder) buildSelect() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(q.cols, ", "), q.qualifiedTable())

	query, args := q.appendWhere(query, nil)

	if len(q.groupBy) > 0 {
		query += fmt.Sprintf(" GROUP BY %s", strings.Join(q.groupBy, ", "))
	}

	if len(q.orderBy) > 0 {
		query += fmt.Sprintf(" ORDER BY %s", strings.Join(q.orderBy, ", "))
	}

	if q.limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.limit)
	}

	if q.offset > 0 {
		query += " OFFSET ?"
		args = append(args, q.offset)
	}

	return query, args
}

// buildInsert returns an empty query when the rows do not line up with the columns.
func (q *queryBuilder) buildInsert() (string, []interface{}) {
	numOfParam := len(q.cols)
	if numOfParam == 0 {
		return "", nil
	}

	valueTuples := make([]string, 0, len(q.values))
	args := make([]interface{}, 0, numOfParam*len(q.values))
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", numOfParam), ", ")

	for _, row := range q.values {
		if len(row) != numOfParam {
			return "", nil
		}
		args = append(args, row...)
		valueTuples = append(valueTuples, fmt.Sprintf("(%s)", placeholders))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", q.qualifiedTable(), strings.Join(q.cols, ", "), strings.Join(valueTuples, ", "))

	if len(q.onConflict) > 0 {
		query += fmt.Sprintf(" ON CONFLICT (%s)", strings.Join(q.onConflict, ", "))
		if len(q.excludeCols) == 0 {
			query += " DO NOTHING"
		} else {
			sets := make([]string, 0, len(q.excludeCols))
			for _, col := range q.excludeCols {
				sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
			}
			query += " DO UPDATE SET " + strings.Join(sets, ", ")
		}
	}

	return q.appendReturning(query), args
}

func (q *queryBuilder) buildUpdate() (string, []interface{}) {
	cols := make([]string, 0, len(q.updateData))
	for col := range q.updateData {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClause := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		setClause = append(setClause, fmt.Sprintf("%s = ?", col))
		args = append(args, q.updateData[col])
	}
	query := fmt.Sprintf("UPDATE %s SET %s", q.qualifiedTable(), strings.Join(setClause, ", "))

	query, args = q.appendWhere(query, args)
	return q.appendReturning(query), args
}

// buildDelete refuses to emit an unconditioned DELETE.
func (q *queryBuilder) buildDelete() (string, []interface{}) {
	if len(q.conditions) == 0 {
		return "", nil
	}
	query, args := q.appendWhere(fmt.Sprintf("DELETE FROM %s", q.qualifiedTable()), nil)
	return q.appendReturning(query), args
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{
		schema: schema,
	}
}
