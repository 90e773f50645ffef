package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"videotube/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	defaultLabel = "items"
)

// PageQuery carries the slicing and ordering a caller asked for.
type PageQuery struct {
	Page          int
	Limit         int
	SortField     string
	SortDirection string
	// Label overrides the pipeline's default items key.
	Label string
}

// ParsePageQuery coerces raw query values. Absent, non-numeric or
// non-positive page and limit fall back to their defaults; limit is
// capped at MaxLimit.
func ParsePageQuery(page, limit, sortField, sortDirection string) PageQuery {
	return PageQuery{
		Page:          positiveOr(page, DefaultPage, 0),
		Limit:         positiveOr(limit, DefaultLimit, MaxLimit),
		SortField:     strings.TrimSpace(sortField),
		SortDirection: strings.TrimSpace(sortDirection),
	}
}

func positiveOr(raw string, fallback, ceiling int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	if ceiling > 0 && n > ceiling {
		return ceiling
	}
	return n
}

// Normalize fills zero values the same way ParsePageQuery does.
func (q PageQuery) Normalize() PageQuery {
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// Offset is the number of rows skipped before this page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Descending reports whether the direction asks for descending order.
// Anything other than -1 or desc is ascending.
func (q PageQuery) Descending() bool {
	switch strings.ToLower(q.SortDirection) {
	case "-1", "desc", "descending":
		return true
	default:
		return false
	}
}

// WithPage appends the ordering and slicing stages to p. The root primary
// key is always the last sort key so pages never overlap.
func WithPage(p Pipeline, q PageQuery) (Pipeline, error) {
	q = q.Normalize()

	var keys []SortKey
	if q.SortField != "" {
		column, ok := p.Sortable[q.SortField]
		if !ok {
			return Pipeline{}, models.NewValidationError(fmt.Sprintf("Cannot sort by %q", q.SortField))
		}
		keys = append(keys, SortKey{Field: column, Desc: q.Descending()})
	}
	keys = append(keys, SortKey{Field: p.Collection + ".id"})

	return p.Append(
		Sort{Keys: keys},
		Skip{N: q.Offset()},
		Limit{N: q.Limit},
	), nil
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items       []T
	Label       string
	TotalItems  int64
	Limit       int
	Page        int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
}

// NewPage assembles the envelope for items found under q out of total.
func NewPage[T any](items []T, total int64, q PageQuery, label string) *Page[T] {
	q = q.Normalize()
	if items == nil {
		items = []T{}
	}
	if q.Label != "" {
		label = q.Label
	}
	if label == "" {
		label = defaultLabel
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &Page[T]{
		Items:       items,
		Label:       label,
		TotalItems:  total,
		Limit:       q.Limit,
		Page:        q.Page,
		TotalPages:  totalPages,
		HasPrevPage: q.Page > 1,
		HasNextPage: q.Page < totalPages,
	}
}

// MarshalJSON writes the items under the page's label.
func (p *Page[T]) MarshalJSON() ([]byte, error) {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return nil, err
	}
	label, err := json.Marshal(p.Label)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(label)
	buf.WriteByte(':')
	buf.Write(items)
	fmt.Fprintf(&buf, `,"totalItems":%d,"limit":%d,"page":%d,"totalPages":%d,"hasPrevPage":%t,"hasNextPage":%t}`,
		p.TotalItems, p.Limit, p.Page, p.TotalPages, p.HasPrevPage, p.HasNextPage)
	return buf.Bytes(), nil
}

// ParseRef validates an entity reference taken from a path or query.
func ParseRef(name, raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewValidationError(fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), nil
}

// ParseOptionalRef is ParseRef for filters that may be absent. A present
// but malformed value is still rejected.
func ParseOptionalRef(name, raw string) (uint, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return ParseRef(name, raw)
}
