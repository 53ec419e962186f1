// Package query implements the one filter/sort/paginate pipeline shared by
// every list endpoint. Predicates are added through nil-aware helpers so an
// unset filter key never reaches the SQL, each endpoint supplies its own
// sort-key allow-list, and Run executes the count and data queries against
// the same predicate set.
package query

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
)

type Builder struct {
	q     *gorm.DB
	order string
}

func NewBuilder(q *gorm.DB) *Builder {
	return &Builder{q: q}
}

// Equal adds an equality predicate. Nil values and nil pointers are skipped;
// pointer values are dereferenced.
func (b *Builder) Equal(column string, value any) *Builder {
	if v, ok := deref(value); ok {
		b.q = b.q.Where(column+" = ?", v)
	}
	return b
}

// AtLeast adds an inclusive lower bound (numeric or date).
func (b *Builder) AtLeast(column string, value any) *Builder {
	if v, ok := deref(value); ok {
		b.q = b.q.Where(column+" >= ?", v)
	}
	return b
}

// AtMost adds an inclusive upper bound (numeric or date).
func (b *Builder) AtMost(column string, value any) *Builder {
	if v, ok := deref(value); ok {
		b.q = b.q.Where(column+" <= ?", v)
	}
	return b
}

// Search adds a case-insensitive substring match across the endpoint's text
// columns. An empty term is skipped.
func (b *Builder) Search(term string, columns ...string) *Builder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return b
	}
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		conds[i] = "LOWER(CAST(" + column + " AS TEXT)) LIKE ?"
		args[i] = "%" + strings.ToLower(term) + "%"
	}
	b.q = b.q.Where(strings.Join(conds, " OR "), args...)
	return b
}

// Query exposes the accumulated gorm query for predicates the helpers do not
// cover.
func (b *Builder) Query() *gorm.DB {
	return b.q
}

func deref(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	}
	return value, true
}

// Sort is an endpoint's sort contract: which request keys are allowed, which
// column each maps to, and which columns are nullable (those sort NULLS LAST
// so absent values never lead the page).
type Sort struct {
	Allowed  map[string]string
	Default  string
	Nullable map[string]bool
}

// OrderBy records the requested sort if the key is allow-listed, the default
// otherwise. Direction is DESC unless ASC is requested. The clause is applied
// to the data query only; the count query must stay order-free.
func (b *Builder) OrderBy(sortBy, direction string, sort Sort) *Builder {
	column, ok := sort.Allowed[sortBy]
	nullable := sort.Nullable[sortBy]
	if !ok {
		column = sort.Default
		nullable = false
	}

	dir := "DESC"
	if strings.EqualFold(direction, "ASC") {
		dir = "ASC"
	}

	b.order = column + " " + dir
	if nullable {
		b.order += " NULLS LAST"
	}
	return b
}

type Pagination struct {
	Page  int
	Limit int
}

// NewPagination clamps page and limit into their valid ranges, falling back
// to the endpoint's default limit.
func NewPagination(page, limit, defaultLimit, maxLimit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Result[T any] struct {
	Data       []T
	Count      int64
	Page       int
	Limit      int
	TotalPages int
}

// Run executes the count query and the data query over the same predicates
// and assembles the page. Preloads apply to the data query only.
func Run[T any](b *Builder, p Pagination, preloads ...string) (*Result[T], error) {
	var count int64
	if err := b.q.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}

	q := b.q
	if b.order != "" {
		q = q.Order(b.order)
	}
	for _, preload := range preloads {
		q = q.Preload(preload)
	}

	data := make([]T, 0, p.Limit)
	if err := q.Offset(p.Offset()).Limit(p.Limit).Find(&data).Error; err != nil {
		return nil, fmt.Errorf("data query: %w", err)
	}

	totalPages := int((count + int64(p.Limit) - 1) / int64(p.Limit))
	return &Result[T]{
		Data:       data,
		Count:      count,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}, nil
}
