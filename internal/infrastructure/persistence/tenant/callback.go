package tenant

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const skipGuardKey = "tenant:skip_guard"

type guard struct {
	tables map[string]struct{}
}

// RegisterGuard installs the company guard on query, row, update and delete
// statements for the given tables. Creates are not guarded: company_id is a
// NOT NULL column set from the aggregate.
func RegisterGuard(db *gorm.DB, tables ...string) error {
	g := &guard{tables: make(map[string]struct{}, len(tables))}
	for _, t := range tables {
		g.tables[t] = struct{}{}
	}

	if err := db.Callback().Query().Before("gorm:query").Register("tenant:guard_query", g.check); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenant:guard_row", g.check); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenant:guard_update", g.check); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register("tenant:guard_delete", g.check)
}

func (g *guard) check(db *gorm.DB) {
	if db.Error != nil || db.Statement == nil {
		return
	}
	if _, ok := g.tables[db.Statement.Table]; !ok {
		return
	}
	if skip, ok := db.Get(skipGuardKey); ok && skip == true {
		return
	}
	if hasCompanyCondition(db.Statement) {
		return
	}
	_ = db.AddError(ErrUnscopedStatement)
}

// hasCompanyCondition looks for company_id in the WHERE clause, or in the SQL
// text of raw statements.
func hasCompanyCondition(stmt *gorm.Statement) bool {
	if c, ok := stmt.Clauses["WHERE"]; ok {
		if where, ok := c.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if exprMentionsCompany(expr) {
					return true
				}
			}
		}
	}
	if sql := stmt.SQL.String(); sql != "" {
		return strings.Contains(sql, Column)
	}
	return false
}

func exprMentionsCompany(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return columnIsCompany(e.Column)
	case clause.IN:
		return columnIsCompany(e.Column)
	case clause.Expr:
		return strings.Contains(e.SQL, Column)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, Column)
	case clause.AndConditions:
		for _, c := range e.Exprs {
			if exprMentionsCompany(c) {
				return true
			}
		}
	}
	// An OR branch alone cannot restrict the row set
	return false
}

func columnIsCompany(col any) bool {
	switch c := col.(type) {
	case clause.Column:
		return c.Name == Column
	case string:
		return c == Column || strings.HasSuffix(c, "."+Column)
	}
	return false
}
