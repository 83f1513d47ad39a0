package query

import (
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id       int
	date     string
	amount   float64
	category string
	status   string
	party    string
	note     string
	created  time.Time
}

func (r row) RecordDate() string         { return r.date }
func (r row) RecordAmount() float64      { return r.amount }
func (r row) RecordCategory() string     { return r.category }
func (r row) RecordStatus() string       { return r.status }
func (r row) RecordCreatedAt() time.Time { return r.created }
func (r row) Counterparty() string       { return r.party }
func (r row) SearchFields() []string     { return []string{r.party, r.note} }

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixture() []row {
	return []row{
		{1, "2024-03-01", 1000, "EXP001", "draft", "JR東日本", "通勤", base.Add(1 * time.Hour)},
		{2, "2024-03-15", 5000, "EXP002", "confirmed", "Starbucks", "打ち合わせ", base.Add(2 * time.Hour)},
		{3, "2024-02-10", 3000, "EXP001", "draft", "Taxi Co", "Late night", base.Add(3 * time.Hour)},
		{4, "2024-04-01", 12000, "EXP006", "submitted", "Acme", "design outsourcing", base.Add(4 * time.Hour)},
		{5, "2024-03-31", 800, "EXP003", "draft", "Amazon", "ペン", base.Add(5 * time.Hour)},
	}
}

func ids(rs []row) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.id
	}
	return out
}

func ptr(f float64) *float64 { return &f }

func TestCriteriaFilters(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria[row]
		want []int
	}{
		{"no filters", Criteria[row]{}, []int{1, 2, 3, 4, 5}},
		{"text case insensitive", Criteria[row]{Text: "starBUCKS"}, []int{2}},
		{"text matches any field", Criteria[row]{Text: "outsourc"}, []int{4}},
		{"text japanese", Criteria[row]{Text: "通勤"}, []int{1}},
		{"category", Criteria[row]{CategoryID: "EXP001"}, []int{1, 3}},
		{"status", Criteria[row]{Status: "draft"}, []int{1, 3, 5}},
		{"date range inclusive", Criteria[row]{DateFrom: "2024-03-01", DateTo: "2024-03-31"}, []int{1, 2, 5}},
		{"date from only", Criteria[row]{DateFrom: "2024-03-31"}, []int{4, 5}},
		{"amount range inclusive", Criteria[row]{AmountMin: ptr(1000), AmountMax: ptr(5000)}, []int{1, 2, 3}},
		{"predicate", Criteria[row]{Where: []func(row) bool{func(r row) bool { return r.amount > 2000 }}}, []int{2, 3, 4}},
		{"nothing matches", Criteria[row]{Text: "zzz"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(fixture(), tt.c)))
		})
	}
}

func TestCriteriaConjunction(t *testing.T) {
	records := fixture()
	a := Criteria[row]{Status: "draft"}
	b := Criteria[row]{DateFrom: "2024-03-01"}
	both := Criteria[row]{Status: "draft", DateFrom: "2024-03-01"}

	inA := map[int]bool{}
	for _, r := range Filter(records, a) {
		inA[r.id] = true
	}
	var want []int
	for _, r := range Filter(records, b) {
		if inA[r.id] {
			want = append(want, r.id)
		}
	}
	assert.Equal(t, want, ids(Filter(records, both)))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, Sort{Key: SortDate, Desc: true}, ParseSort("", "vendor", ""))
	assert.Equal(t, Sort{Key: SortAmount}, ParseSort("amount", "vendor", "asc"))
	assert.Equal(t, Sort{Key: SortCounterparty, Desc: true}, ParseSort("vendor", "vendor", "desc"))
	assert.Equal(t, Sort{Key: SortCreated, Desc: true}, ParseSort("vendor", "client", "desc"))
	assert.Equal(t, Sort{Key: SortCreated}, ParseSort("bogus", "client", "asc"))
}

func TestSortRecords(t *testing.T) {
	tests := []struct {
		name string
		s    Sort
		want []int
	}{
		{"date desc", Sort{Key: SortDate, Desc: true}, []int{4, 5, 2, 1, 3}},
		{"date asc", Sort{Key: SortDate}, []int{3, 1, 2, 5, 4}},
		{"amount asc", Sort{Key: SortAmount}, []int{5, 1, 3, 2, 4}},
		{"amount desc", Sort{Key: SortAmount, Desc: true}, []int{4, 2, 3, 1, 5}},
		{"counterparty asc", Sort{Key: SortCounterparty}, []int{4, 5, 1, 2, 3}},
		{"created desc", Sort{Key: SortCreated, Desc: true}, []int{5, 4, 3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := fixture()
			SortRecords(rs, tt.s)
			assert.Equal(t, tt.want, ids(rs))
		})
	}
}

func TestSortStable(t *testing.T) {
	rs := []row{
		{id: 1, date: "2024-01-01"},
		{id: 2, date: "2024-01-01"},
		{id: 3, date: "2024-01-01"},
	}
	SortRecords(rs, Sort{Key: SortDate, Desc: true})
	assert.Equal(t, []int{1, 2, 3}, ids(rs))
}

func TestDecodeCursor(t *testing.T) {
	off, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	off, err = DecodeCursor("40")
	require.NoError(t, err)
	assert.Equal(t, 40, off)

	for _, bad := range []string{"abc", "-1", "1.5"} {
		_, err := DecodeCursor(bad)
		assert.ErrorIs(t, err, ErrInvalidCursor, bad)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}

	res, err := Paginate(items, Page{Limit: 3}, 20)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Items)
	assert.True(t, res.HasMore)
	assert.Equal(t, "3", res.NextCursor)
	assert.Equal(t, 7, res.TotalCount)

	res, err = Paginate(items, Page{Cursor: "6", Limit: 3}, 20)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, res.Items)
	assert.False(t, res.HasMore)
	assert.Empty(t, res.NextCursor)

	res, err = Paginate(items, Page{Cursor: "100", Limit: 3}, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.False(t, res.HasMore)

	res, err = Paginate(items, Page{}, 20)
	require.NoError(t, err)
	assert.Len(t, res.Items, 7)
	assert.False(t, res.HasMore)

	_, err = Paginate(items, Page{Cursor: "x"}, 20)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestRunPagesAreExhaustive(t *testing.T) {
	var records []row
	for i := 0; i < 47; i++ {
		records = append(records, row{
			id:      i,
			date:    fmt.Sprintf("2024-%02d-%02d", i%12+1, i%28+1),
			amount:  float64(i * 100),
			created: base.Add(time.Duration(i) * time.Minute),
		})
	}
	s := Sort{Key: SortDate, Desc: true}

	all, err := Run(records, Criteria[row]{}, s, Page{Limit: 1000})
	require.NoError(t, err)

	for _, limit := range []int{1, 5, 10, 20, 46, 47, 48} {
		var got []int
		cursor := ""
		for {
			res, err := Run(records, Criteria[row]{}, s, Page{Cursor: cursor, Limit: limit})
			require.NoError(t, err)
			got = append(got, ids(res.Items)...)
			if !res.HasMore {
				break
			}
			cursor = res.NextCursor
		}
		assert.Equal(t, ids(all.Items), got, "limit %d", limit)
	}
}

func TestRunCounts(t *testing.T) {
	res, err := Run(fixture(), Criteria[row]{Status: "draft"}, ParseSort("amount", "vendor", "asc"), Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 1}, ids(res.Items))
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 5, res.Scanned)
	assert.True(t, res.HasMore)
	assert.Equal(t, "2", res.NextCursor)
}

func TestRunDefaultLimit(t *testing.T) {
	var records []row
	for i := 0; i < 25; i++ {
		records = append(records, row{id: i, created: base.Add(time.Duration(i) * time.Second)})
	}
	res, err := Run(records, Criteria[row]{}, Sort{Key: SortCreated}, Page{})
	require.NoError(t, err)
	assert.Len(t, res.Items, DefaultSearchLimit)
	assert.True(t, res.HasMore)
}

func TestRunDoesNotReorderInput(t *testing.T) {
	records := fixture()
	_, err := Run(records, Criteria[row]{}, Sort{Key: SortAmount}, Page{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(records))
}

func TestPaginateHugeOffsetAndLimit(t *testing.T) {
	items := []int{1, 2, 3}

	res, err := Paginate(items, Page{Cursor: strconv.Itoa(math.MaxInt - 5), Limit: 20}, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.False(t, res.HasMore)
	assert.Equal(t, 3, res.TotalCount)

	res, err = Paginate(items, Page{Cursor: "1", Limit: math.MaxInt}, 20)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, res.Items)
	assert.False(t, res.HasMore)
	assert.Empty(t, res.NextCursor)
}

func TestPaginateCapsLimit(t *testing.T) {
	items := make([]int, MaxLimit+10)
	res, err := Paginate(items, Page{Limit: MaxLimit * 4}, 20)
	require.NoError(t, err)
	assert.Len(t, res.Items, MaxLimit)
	assert.True(t, res.HasMore)
	assert.Equal(t, strconv.Itoa(MaxLimit), res.NextCursor)
}
