// Package query filters, sorts and pages a user's records in memory.
//
// Callers load the full record set first and hand it to Run. Pushing the
// predicates into the store would change free-text and tie-break semantics,
// so the store only narrows by user (and optionally by date).
package query

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Default page sizes.
const (
	DefaultSearchLimit = 20
	DefaultListLimit   = 50
	// MaxLimit caps any requested page size.
	MaxLimit = 500
)

// ErrInvalidCursor is returned for a cursor that is not a non-negative offset.
var ErrInvalidCursor = errors.New("invalid cursor")

// Record is the shape shared by expenses and incomes.
type Record interface {
	RecordDate() string
	RecordAmount() float64
	RecordCategory() string
	RecordStatus() string
	RecordCreatedAt() time.Time
	// Counterparty is the vendor of an expense or the client of an income.
	Counterparty() string
	// SearchFields are the texts matched by free-text search.
	SearchFields() []string
}

// Criteria is a conjunction of optional filters. Zero values are ignored.
type Criteria[T Record] struct {
	Text       string
	CategoryID string
	Status     string
	DateFrom   string // inclusive, YYYY-MM-DD
	DateTo     string // inclusive, YYYY-MM-DD
	AmountMin  *float64
	AmountMax  *float64
	// Where holds entity specific predicates, all of which must hold.
	Where []func(T) bool
}

// Match reports whether r satisfies every supplied filter.
func (c Criteria[T]) Match(r T) bool {
	if c.Text != "" && !containsFold(r.SearchFields(), c.Text) {
		return false
	}
	if c.CategoryID != "" && r.RecordCategory() != c.CategoryID {
		return false
	}
	if c.Status != "" && r.RecordStatus() != c.Status {
		return false
	}
	if !InDateRange(r.RecordDate(), c.DateFrom, c.DateTo) {
		return false
	}
	if c.AmountMin != nil && r.RecordAmount() < *c.AmountMin {
		return false
	}
	if c.AmountMax != nil && r.RecordAmount() > *c.AmountMax {
		return false
	}
	for _, pred := range c.Where {
		if !pred(r) {
			return false
		}
	}
	return true
}

// InDateRange compares YYYY-MM-DD strings; empty bounds are open.
func InDateRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func containsFold(fields []string, text string) bool {
	needle := strings.ToLower(text)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Filter returns the records matching c, preserving input order.
func Filter[T Record](records []T, c Criteria[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortKey selects the sort column.
type SortKey int

const (
	SortCreated SortKey = iota
	SortDate
	SortAmount
	SortCounterparty
)

// Sort is a single-key ordering.
type Sort struct {
	Key  SortKey
	Desc bool
}

// ParseSort maps request values to a Sort. An empty key sorts by date, the
// counterparty key is "vendor" or "client" depending on the entity, and any
// other key falls back to creation time. Order defaults to descending.
func ParseSort(key, counterpartyKey, order string) Sort {
	s := Sort{Desc: order != "asc"}
	switch key {
	case "", "date":
		s.Key = SortDate
	case "amount":
		s.Key = SortAmount
	case counterpartyKey:
		s.Key = SortCounterparty
	default:
		s.Key = SortCreated
	}
	return s
}

func (s Sort) compare(a, b Record) int {
	var c int
	switch s.Key {
	case SortDate:
		c = strings.Compare(a.RecordDate(), b.RecordDate())
	case SortAmount:
		c = cmp.Compare(a.RecordAmount(), b.RecordAmount())
	case SortCounterparty:
		c = strings.Compare(a.Counterparty(), b.Counterparty())
	default:
		c = a.RecordCreatedAt().Compare(b.RecordCreatedAt())
	}
	if s.Desc {
		return -c
	}
	return c
}

// SortRecords sorts records in place. Equal keys keep their input order.
func SortRecords[T Record](records []T, s Sort) {
	slices.SortStableFunc(records, func(a, b T) int { return s.compare(a, b) })
}

// Page selects a window of the sorted result.
type Page struct {
	Cursor string // decimal offset, empty for the first page
	Limit  int
}

// Result is one page plus the counts the UI displays.
type Result[T any] struct {
	Items      []T    `json:"items"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
	// TotalCount is the number of filtered records before paging.
	TotalCount int `json:"total_count"`
	// Scanned is the number of records loaded before filtering.
	Scanned int `json:"scanned"`
}

// EncodeCursor returns the cursor for a start offset.
func EncodeCursor(offset int) string {
	return strconv.Itoa(offset)
}

// DecodeCursor parses a cursor; the empty cursor is offset zero.
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(cursor)
	if err != nil || offset < 0 {
		return 0, ErrInvalidCursor
	}
	return offset, nil
}

// Paginate cuts one page out of records. Offsets shift when records are
// inserted or deleted between calls.
func Paginate[T any](records []T, p Page, defaultLimit int) (Result[T], error) {
	offset, err := DecodeCursor(p.Cursor)
	if err != nil {
		return Result[T]{}, err
	}
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	limit = min(limit, MaxLimit)

	// offset and limit may each be near MaxInt; compare against the
	// remainder instead of adding them.
	total := len(records)
	start := min(offset, total)
	end := total
	if limit < total-start {
		end = start + limit
	}

	res := Result[T]{
		Items:      records[start:end],
		HasMore:    end < total,
		TotalCount: total,
	}
	if res.HasMore {
		res.NextCursor = EncodeCursor(end)
	}
	return res, nil
}

// Run filters, sorts and pages records. The input slice is not modified.
func Run[T Record](records []T, c Criteria[T], s Sort, p Page) (Result[T], error) {
	matched := Filter(records, c)
	SortRecords(matched, s)
	res, err := Paginate(matched, p, DefaultSearchLimit)
	if err != nil {
		return Result[T]{}, err
	}
	res.Scanned = len(records)
	return res, nil
}
