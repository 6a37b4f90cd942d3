package match

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoiceFilter = `
source: invoices
ids:
  - "0190f6a2-0000-7000-8000-000000000001"
strings:
  customer: {starts_with: "Acme"}
  notes: ~
dates:
  paid_on:
    range:
      relative: {start_date: -7, timezone: America/New_York}
  issued_on:
    exact: "2024-03-10"
  due_on:
    range:
      absolute: {on_or_after: "2024-03-01T08:30:00", include_time: true}
bools:
  archived: false
`

func TestParseFilter_FullDocument(t *testing.T) {
	f, err := ParseFilter([]byte(invoiceFilter))
	require.NoError(t, err)

	assert.Equal(t, "invoices", f.Source)
	assert.Equal(t, []uuid.UUID{uuid.MustParse("0190f6a2-0000-7000-8000-000000000001")}, f.Base.IDs)

	require.Len(t, f.Strings, 2)
	assert.Equal(t, "customer", f.Strings[0].Field)
	assert.Equal(t, StartsWith("Acme"), f.Strings[0].Match)
	assert.Equal(t, "notes", f.Strings[1].Field)
	assert.Nil(t, f.Strings[1].Match)

	require.Len(t, f.Dates, 3)
	fields := []string{f.Dates[0].Field, f.Dates[1].Field, f.Dates[2].Field}
	assert.Equal(t, []string{"due_on", "issued_on", "paid_on"}, fields)

	due := f.Dates[0].Match
	require.Equal(t, DateMatchRange, due.Kind)
	require.Equal(t, RangeAbsolute, due.Range.Kind)
	assert.True(t, due.Range.Absolute.IncludesTime())
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), *due.Range.Absolute.OnOrAfter)
	assert.Nil(t, due.Range.Absolute.Before)

	issued := f.Dates[1].Match
	require.Equal(t, DateMatchExact, issued.Kind)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *issued.ExactDate)

	paid := f.Dates[2].Match
	require.Equal(t, RangeRelative, paid.Range.Kind)
	assert.Equal(t, -7, *paid.Range.Relative.StartDateOffsetDays)
	assert.Nil(t, paid.Range.Relative.EndDateOffsetDays)
	assert.Equal(t, "America/New_York", paid.Range.Relative.TimeZone)

	require.Len(t, f.Bools, 1)
	assert.Equal(t, "archived", f.Bools[0].Field)
	require.NotNil(t, f.Bools[0].Value)
	assert.False(t, *f.Bools[0].Value)
}

func TestParseFilter_JSON(t *testing.T) {
	doc := `{"source": "invoices", "strings": {"customer": {"exact": ""}}}`
	f, err := ParseFilter([]byte(doc))
	require.NoError(t, err)
	require.Len(t, f.Strings, 1)
	assert.Equal(t, Exact(""), f.Strings[0].Match)
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code ErrorCode
	}{
		{
			name: "string match without selector",
			doc:  "source: invoices\nstrings:\n  customer: {}\n",
			code: ErrCodeInvalidMatchKind,
		},
		{
			name: "string match with two selectors",
			doc:  "source: invoices\nstrings:\n  customer: {exact: a, contains: b}\n",
			code: ErrCodeInvalidMatchKind,
		},
		{
			name: "date match without selector",
			doc:  "source: invoices\ndates:\n  paid_on: {}\n",
			code: ErrCodeInvalidMatchKind,
		},
		{
			name: "date match with exact and range",
			doc:  "source: invoices\ndates:\n  paid_on: {exact: \"2024-01-01\", range: {relative: {start_date: 1}}}\n",
			code: ErrCodeInvalidMatchKind,
		},
		{
			name: "range without type",
			doc:  "source: invoices\ndates:\n  paid_on: {range: {}}\n",
			code: ErrCodeUndefinedRangeType,
		},
		{
			name: "range with both types",
			doc:  "source: invoices\ndates:\n  paid_on: {range: {absolute: {before: \"2024-01-01\"}, relative: {end_date: 0}}}\n",
			code: ErrCodeUndefinedRangeType,
		},
		{
			name: "absolute range without bounds",
			doc:  "source: invoices\ndates:\n  paid_on: {range: {absolute: {include_time: true}}}\n",
			code: ErrCodeInvalidDateRange,
		},
		{
			name: "relative range without offsets",
			doc:  "source: invoices\ndates:\n  paid_on: {range: {relative: {timezone: UTC}}}\n",
			code: ErrCodeInvalidDateRange,
		},
		{
			name: "time of day without include_time",
			doc:  "source: invoices\ndates:\n  paid_on: {range: {absolute: {before: \"2024-01-01T10:00:00\"}}}\n",
			code: ErrCodeInvalidArgument,
		},
		{
			name: "malformed exact date",
			doc:  "source: invoices\ndates:\n  paid_on: {exact: \"03/10/2024\"}\n",
			code: ErrCodeInvalidArgument,
		},
		{
			name: "malformed id",
			doc:  "source: invoices\nids: [\"not-a-uuid\"]\n",
			code: ErrCodeInvalidArgument,
		},
		{
			name: "unknown key",
			doc:  "source: invoices\nlimit: 10\n",
			code: ErrCodeInvalidArgument,
		},
		{
			name: "missing source",
			doc:  "strings:\n  customer: {exact: a}\n",
			code: ErrCodeInvalidArgument,
		},
		{
			name: "column name with punctuation",
			doc:  "source: invoices\nstrings:\n  \"customer; drop table\": {exact: a}\n",
			code: ErrCodeInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter([]byte(tt.doc))
			require.Error(t, err)
			assert.Nil(t, f)
			assert.Equal(t, tt.code, CodeOf(err), err.Error())
		})
	}
}

func TestToDomain_WrapsFieldName(t *testing.T) {
	doc, err := DecodeFilterDocument([]byte("source: invoices\nstrings:\n  customer: {}\n"))
	require.NoError(t, err)

	_, err = doc.ToDomain()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strings.customer")
}

func TestWireStringMatch_NilIsNoFilter(t *testing.T) {
	var w *WireStringMatch
	m, err := w.ToDomain()
	require.NoError(t, err)
	assert.Nil(t, m)

	var d *WireDateMatch
	dm, err := d.ToDomain()
	require.NoError(t, err)
	assert.Nil(t, dm)
}

func TestValidateDocument(t *testing.T) {
	require.NoError(t, ValidateDocument([]byte(invoiceFilter)))

	err := ValidateDocument([]byte("source: invoices\nids: [\"0190f6a2\"]\n"))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeInvalidArgument))
}
