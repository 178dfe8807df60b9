package services

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/models"
)

// reservedFilterKeys are pagination/sort directives and never become
// predicate terms.
var reservedFilterKeys = map[string]struct{}{
	"page":  {},
	"limit": {},
	"sort":  {},
	"order": {},
	"token": {},
}

// freeTextFields compile to a case-insensitive substring match instead of
// exact equality.
var freeTextFields = map[string]struct{}{
	"serialNumber": {},
	"technician":   {},
	"description":  {},
	"notes":        {},
}

type filterCond struct {
	query string
	args  []any
}

type dateRange struct {
	column string
	from   *time.Time
	to     *time.Time
}

// CompileFilters turns raw query parameters into a GORM scope. Rules apply
// per key, first match wins: reserved keys and empty values are dropped;
// *_from / *_to on a date field merge into a single range on that field;
// "true"/"false" coerce to boolean equality; identifier fields coerce to
// the numeric id type; allow-listed text fields match as substring;
// everything else is exact equality. Malformed dates and identifiers fall
// through to the lower rules instead of erroring, and keys outside the
// repair schema are dropped entirely (the schema registry is also the
// guard against raw column injection). An empty compile matches all rows.
func CompileFilters(values url.Values) func(*gorm.DB) *gorm.DB {
	conds := make([]filterCond, 0, len(values))
	ranges := map[string]*dateRange{}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values.Get(key)
		if _, reserved := reservedFilterKeys[key]; reserved {
			continue
		}
		if value == "" {
			continue
		}

		if target, found := strings.CutSuffix(key, "_from"); found {
			if spec, known := FieldByName(target); known && spec.Kind == KindDate {
				if t, ok := models.ParseDate(value); ok {
					rangeFor(ranges, spec.Column).from = &t
					continue
				}
			}
			// unparseable or unknown target: treated as a plain key below
		}
		if target, found := strings.CutSuffix(key, "_to"); found {
			if spec, known := FieldByName(target); known && spec.Kind == KindDate {
				if t, ok := models.ParseDate(value); ok {
					rangeFor(ranges, spec.Column).to = &t
					continue
				}
			}
		}

		spec, known := FieldByName(key)
		if !known {
			continue
		}

		if value == "true" || value == "false" {
			conds = append(conds, filterCond{
				query: fmt.Sprintf("%s = ?", spec.Column),
				args:  []any{value == "true"},
			})
			continue
		}

		if spec.Kind == KindID {
			if id, err := strconv.ParseUint(value, 10, 64); err == nil {
				conds = append(conds, filterCond{
					query: fmt.Sprintf("%s = ?", spec.Column),
					args:  []any{uint(id)},
				})
				continue
			}
			// malformed id: keep going, ends up as a plain string match
		}

		if _, freeText := freeTextFields[key]; freeText {
			conds = append(conds, filterCond{
				query: fmt.Sprintf("LOWER(%s) LIKE ?", spec.Column),
				args:  []any{"%" + strings.ToLower(value) + "%"},
			})
			continue
		}

		conds = append(conds, filterCond{
			query: fmt.Sprintf("%s = ?", spec.Column),
			args:  []any{value},
		})
	}

	rangeColumns := make([]string, 0, len(ranges))
	for column := range ranges {
		rangeColumns = append(rangeColumns, column)
	}
	sort.Strings(rangeColumns)
	for _, column := range rangeColumns {
		r := ranges[column]
		if r.from != nil {
			conds = append(conds, filterCond{
				query: fmt.Sprintf("%s >= ?", column),
				args:  []any{*r.from},
			})
		}
		if r.to != nil {
			conds = append(conds, filterCond{
				query: fmt.Sprintf("%s <= ?", column),
				args:  []any{*r.to},
			})
		}
	}

	return func(db *gorm.DB) *gorm.DB {
		for _, cond := range conds {
			db = db.Where(cond.query, cond.args...)
		}
		return db
	}
}

func rangeFor(ranges map[string]*dateRange, column string) *dateRange {
	if r, ok := ranges[column]; ok {
		return r
	}
	r := &dateRange{column: column}
	ranges[column] = r
	return r
}
