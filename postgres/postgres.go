// Package postgres binds compiled conditions to postgres queries run with pgx
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"gorm.io/conditions"
)

// Rebind replace ? placeholders with $1, $2, ... Placeholders inside quoted literals and
// quoted identifiers are kept.
func Rebind(sql string) string {
	return RebindFrom(sql, 1)
}

// RebindFrom like Rebind, numbering from start
func RebindFrom(sql string, start int) string {
	if !strings.Contains(sql, "?") {
		return sql
	}

	var (
		builder strings.Builder
		quote   byte
		n       = start
	)
	builder.Grow(len(sql) + 8)

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		builder.WriteByte(c)
	}
	return builder.String()
}

// Where a query rewriter appending where to the query, its values are bound after the
// arguments already given. Pass it as the first argument of pgx.Conn.Query:
//
//	rows, err := conn.Query(ctx, "select empno, ename from scott.emp", postgres.Where(where))
func Where(where conditions.WhereCondition) pgx.QueryRewriter {
	return whereRewriter{where: where}
}

type whereRewriter struct {
	where conditions.WhereCondition
}

func (rewriter whereRewriter) RewriteQuery(ctx context.Context, conn *pgx.Conn, sql string, args []any) (string, []any, error) {
	if rewriter.where.IsEmpty() {
		return sql, args, nil
	}

	sql = sql + " where " + RebindFrom(rewriter.where.Clause(), len(args)+1)
	return sql, append(args, rewriter.where.Values()...), nil
}

// Statement a query rewriter running stmt, the query text passed to pgx must be empty:
//
//	rows, err := conn.Query(ctx, "", postgres.Statement(stmt))
func Statement(stmt conditions.Statement) pgx.QueryRewriter {
	return statementRewriter{stmt: stmt}
}

type statementRewriter struct {
	stmt conditions.Statement
}

func (rewriter statementRewriter) RewriteQuery(ctx context.Context, conn *pgx.Conn, sql string, args []any) (string, []any, error) {
	if sql != "" || len(args) > 0 {
		return "", nil, fmt.Errorf("%w: statement %q can't be combined with query %q", conditions.ErrInvalidCondition, rewriter.stmt.SQL, sql)
	}
	return Rebind(rewriter.stmt.SQL), append([]any{}, rewriter.stmt.Values...), nil
}
