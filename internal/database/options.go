package database

import (
	"github.com/helixml/curator/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyOptions applies the conditions, ordering and pagination of the given
// options to a GORM session.
func ApplyOptions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	q := repository.Build(options...)
	db = applyConditions(db, q)

	for _, ord := range q.Orders() {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: ord.Field()},
			Desc:   !ord.Ascending(),
		})
	}

	if q.LimitValue() > 0 {
		db = db.Limit(q.LimitValue())
	}
	if q.OffsetValue() > 0 {
		db = db.Offset(q.OffsetValue())
	}
	return db
}

// ApplyConditions applies only the WHERE conditions, for COUNT queries.
func ApplyConditions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	return applyConditions(db, repository.Build(options...))
}

func applyConditions(db *gorm.DB, q repository.Query) *gorm.DB {
	for _, cond := range q.Conditions() {
		col := clause.Column{Name: cond.Field()}
		if cond.In() {
			db = db.Where(clause.IN{Column: col, Values: inValues(cond.Value())})
			continue
		}
		db = db.Where(clause.Eq{Column: col, Value: cond.Value()})
	}
	return db
}

func inValues(v any) []any {
	switch vals := v.(type) {
	case []string:
		out := make([]any, len(vals))
		for i, s := range vals {
			out[i] = s
		}
		return out
	case []any:
		return vals
	default:
		return []any{v}
	}
}
