package query

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/match"
	"github.com/roach88/matchq/internal/reldate"
	"github.com/roach88/matchq/internal/testutil"
)

type invoice struct {
	ID       uuid.UUID  `db:"id"`
	Customer string     `db:"customer"`
	PaidOn   *time.Time `db:"paid_on"`
	Archived bool       `db:"archived"`
}

var (
	customer = expr.Field[invoice, string]("customer")
	paidOn   = expr.Field[invoice, *time.Time]("paid_on")
	archived = expr.Field[invoice, bool]("archived")
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
	return &t
}

func fixtures() []invoice {
	return []invoice{
		{ID: testutil.SequenceID(1), Customer: "Acme Corp", PaidOn: day(2024, 6, 10), Archived: false},
		{ID: testutil.SequenceID(2), Customer: "ACME Labs", PaidOn: day(2024, 5, 1), Archived: false},
		{ID: testutil.SequenceID(3), Customer: "acme", PaidOn: nil, Archived: false},
		{ID: testutil.SequenceID(4), Customer: "Globex", PaidOn: day(2024, 6, 12), Archived: false},
		{ID: testutil.SequenceID(5), Customer: "Acme Corp", PaidOn: day(2024, 6, 14), Archived: true},
	}
}

func resolver() *reldate.Resolver {
	return reldate.NewResolver(testutil.MustParseClock("2024-06-15T12:00:00Z"))
}

func lastWeek(t *testing.T) *match.DateMatch {
	t.Helper()
	r, err := match.NewRelativeRange(match.Ptr(-7), nil, "")
	require.NoError(t, err)
	m, err := match.NewRangeDateMatch(r)
	require.NoError(t, err)
	return m
}

func ids(records []invoice) []uuid.UUID {
	out := make([]uuid.UUID, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestQuery_WhereDoesNotMutate(t *testing.T) {
	base := From[invoice]("invoices")
	p, err := StringMatch(base, customer, match.StartsWith("acme"))
	require.NoError(t, err)

	assert.Empty(t, base.Conjuncts())
	assert.Len(t, p.Conjuncts(), 1)

	// Two branches from the same parent stay independent.
	left := BooleanMatch(p, archived, match.Ptr(true))
	right := BooleanMatch(p, archived, match.Ptr(false))
	assert.Len(t, p.Conjuncts(), 1)
	assert.Equal(t, "x => (x.archived == true)", left.Conjuncts()[1].String())
	assert.Equal(t, "x => (x.archived == false)", right.Conjuncts()[1].String())
}

func TestQuery_ConjunctsIsACopy(t *testing.T) {
	q := BooleanMatch(From[invoice]("invoices"), archived, match.Ptr(true))
	c := q.Conjuncts()
	c[0] = expr.Predicate[invoice]{}
	assert.False(t, q.Conjuncts()[0].IsNoFilter())
}

func TestFacade_NoFilterIsIdentity(t *testing.T) {
	q := BooleanMatch(From[invoice]("invoices").WithResolver(resolver()), archived, match.Ptr(false))

	s, err := StringMatch(q, customer, nil)
	require.NoError(t, err)
	assert.Equal(t, q, s)

	d, err := DateMatch(q, paidOn, nil)
	require.NoError(t, err)
	assert.Equal(t, q, d)

	assert.Equal(t, q, BooleanMatch(q, archived, nil))
	assert.Equal(t, q, ExactStringMatch(q, customer, ""))
	assert.Equal(t, q, FilterByID(q, match.BaseFilter{}))
	assert.Equal(t, q, AllCommonFilters(q, match.BaseFilter{IDs: []uuid.UUID{}}))

	applied, err := ApplyFilter(q, nil, customer)
	require.NoError(t, err)
	assert.Equal(t, q, applied)
}

func TestFacade_ConjunctionIsOrderIndependent(t *testing.T) {
	records := fixtures()
	base := From[invoice]("invoices").WithResolver(resolver())

	steps := map[string]func(Query[invoice]) (Query[invoice], error){
		"string": func(q Query[invoice]) (Query[invoice], error) {
			return StringMatch(q, customer, match.StartsWith("acme"))
		},
		"date": func(q Query[invoice]) (Query[invoice], error) {
			return DateMatch(q, paidOn, lastWeek(t))
		},
		"bool": func(q Query[invoice]) (Query[invoice], error) {
			return BooleanMatch(q, archived, match.Ptr(false)), nil
		},
	}
	orders := [][]string{
		{"string", "date", "bool"},
		{"string", "bool", "date"},
		{"date", "string", "bool"},
		{"date", "bool", "string"},
		{"bool", "string", "date"},
		{"bool", "date", "string"},
	}

	for _, order := range orders {
		q := base
		var err error
		for _, name := range order {
			q, err = steps[name](q)
			require.NoError(t, err)
		}
		got, err := Run(q, records)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{testutil.SequenceID(1)}, ids(got), "%v", order)
		assert.Len(t, q.Conjuncts(), 3)
	}
}

func TestFacade_ConjunctionEqualsAndOfParts(t *testing.T) {
	records := fixtures()
	base := From[invoice]("invoices").WithResolver(resolver())

	q, err := StringMatch(base, customer, match.Contains("acme"))
	require.NoError(t, err)
	q = BooleanMatch(q, archived, match.Ptr(false))

	for _, rec := range records {
		whole, err := expr.Test(q.Predicate(), rec)
		require.NoError(t, err)

		want := true
		for _, c := range q.Conjuncts() {
			ok, err := expr.Test(c, rec)
			require.NoError(t, err)
			want = want && ok
		}
		assert.Equal(t, want, whole, rec.Customer)
	}
}

func TestFacade_ErrorsReturnNoQuery(t *testing.T) {
	base := From[invoice]("invoices")

	q, err := StringMatch(base, customer, &match.StringMatch{Value: "a"})
	require.Error(t, err)
	assert.True(t, match.IsCode(err, match.ErrCodeInvalidMatchKind))
	assert.Contains(t, err.Error(), "x.customer")
	assert.Empty(t, q.Source())

	r, err := match.NewRelativeRange(match.Ptr(5), nil, "Not/AZone")
	require.NoError(t, err)
	m, err := match.NewRangeDateMatch(r)
	require.NoError(t, err)
	_, err = DateMatch(base, paidOn, m)
	assert.True(t, match.IsCode(err, match.ErrCodeUnknownTimeZone))
}

func TestFilterByID(t *testing.T) {
	q := FilterByID(From[invoice]("invoices"), match.BaseFilter{
		IDs: []uuid.UUID{testutil.SequenceID(2), testutil.SequenceID(4)},
	})
	got, err := Run(q, fixtures())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{testutil.SequenceID(2), testutil.SequenceID(4)}, ids(got))
}

func TestApplyFilter_Dispatch(t *testing.T) {
	base := From[invoice]("invoices").WithResolver(resolver())
	id := expr.Field[invoice, uuid.UUID]("id")

	tests := []struct {
		name  string
		value any
		field any
		want  []uuid.UUID
	}{
		{"string match", match.Exact("acme"), customer, []uuid.UUID{testutil.SequenceID(3)}},
		{"exact string", "GLOBEX", customer, []uuid.UUID{testutil.SequenceID(4)}},
		{"bool pointer", match.Ptr(true), archived, []uuid.UUID{testutil.SequenceID(5)}},
		{"bool", true, archived, []uuid.UUID{testutil.SequenceID(5)}},
		{"date match", lastWeek(t), paidOn, []uuid.UUID{testutil.SequenceID(1), testutil.SequenceID(4), testutil.SequenceID(5)}},
		{"id set", []uuid.UUID{testutil.SequenceID(2)}, id, []uuid.UUID{testutil.SequenceID(2)}},
		{"base filter", match.BaseFilter{IDs: []uuid.UUID{testutil.SequenceID(3)}}, nil, []uuid.UUID{testutil.SequenceID(3)}},
		{"base filter pointer", &match.BaseFilter{IDs: []uuid.UUID{testutil.SequenceID(1)}}, nil, []uuid.UUID{testutil.SequenceID(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ApplyFilter(base, tt.value, tt.field)
			require.NoError(t, err)
			got, err := Run(q, fixtures())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyFilter_TypedNilIsIdentity(t *testing.T) {
	base := From[invoice]("invoices")

	var sm *match.StringMatch
	q, err := ApplyFilter(base, sm, customer)
	require.NoError(t, err)
	assert.Equal(t, base, q)

	var dm *match.DateMatch
	q, err = ApplyFilter(base, dm, paidOn)
	require.NoError(t, err)
	assert.Equal(t, base, q)
}

func TestApplyFilter_TypedNilIgnoresField(t *testing.T) {
	base := From[invoice]("invoices")

	tests := []struct {
		name  string
		value any
		field any
	}{
		{"string match on bool field", (*match.StringMatch)(nil), archived},
		{"date match on string field", (*match.DateMatch)(nil), customer},
		{"bool pointer on date field", (*bool)(nil), paidOn},
		{"string match without field", (*match.StringMatch)(nil), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ApplyFilter(base, tt.value, tt.field)
			require.NoError(t, err)
			assert.Equal(t, base, q)
		})
	}
}

func TestApplyFilter_Mismatches(t *testing.T) {
	base := From[invoice]("invoices")

	_, err := ApplyFilter(base, match.Exact("a"), archived)
	require.Error(t, err)
	assert.True(t, match.IsCode(err, match.ErrCodeInvalidArgument))

	_, err = ApplyFilter(base, 42, customer)
	require.Error(t, err)
	assert.True(t, match.IsCode(err, match.ErrCodeInvalidArgument))
}

func TestRun_NoFilterReturnsCopy(t *testing.T) {
	records := fixtures()
	got, err := Run(From[invoice]("invoices"), records)
	require.NoError(t, err)
	require.Len(t, got, len(records))

	got[0].Customer = "changed"
	assert.Equal(t, "Acme Corp", records[0].Customer)
}

func TestRun_EvaluationError(t *testing.T) {
	q, err := StringMatch(From[invoice]("invoices"), expr.Field[invoice, string]("no_such_column"), match.Exact("a"))
	require.NoError(t, err)

	_, err = Run(q, fixtures())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_column")
}

func TestCount(t *testing.T) {
	q := BooleanMatch(From[invoice]("invoices"), archived, match.Ptr(false))
	n, err := Count(q, fixtures())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestQuery_String(t *testing.T) {
	q := BooleanMatch(From[invoice]("invoices"), archived, match.Ptr(true))
	assert.Equal(t, "from invoices where x => (x.archived == true)", q.String())
}
