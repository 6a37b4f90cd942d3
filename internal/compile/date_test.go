package compile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchq/internal/match"
	"github.com/roach88/matchq/internal/reldate"
	"github.com/roach88/matchq/internal/testutil"
)

func TestDate_NilIsNoFilter(t *testing.T) {
	p, err := Date[invoice](nil, paidOn, nil)
	require.NoError(t, err)
	assert.True(t, p.IsNoFilter())
}

func TestDate_ExactDayIsHalfOpen(t *testing.T) {
	m := match.NewExactDateMatch(mustTime(t, "2024-03-10T15:20:00Z"))
	p, err := Date(m, paidOn, nil)
	require.NoError(t, err)
	requireValid(t, p)
	assert.Equal(t,
		`x => ((x.paid_on != null) && (x.paid_on >= "2024-03-10T00:00:00Z") && (x.paid_on < "2024-03-11T00:00:00Z"))`,
		p.String())

	assert.True(t, matches(t, p, paidAt(mustTime(t, "2024-03-10T00:00:00Z"))))
	assert.True(t, matches(t, p, paidAt(mustTime(t, "2024-03-10T23:59:59Z"))))
	assert.False(t, matches(t, p, paidAt(mustTime(t, "2024-03-11T00:00:00Z"))))
	assert.False(t, matches(t, p, paidAt(mustTime(t, "2024-03-09T23:59:59Z"))))
	assert.False(t, matches(t, p, invoice{}))
}

func TestDate_AbsoluteWithoutTime(t *testing.T) {
	r, err := match.NewAbsoluteRange(
		match.Ptr(mustTime(t, "2024-01-01T15:00:00Z")),
		match.Ptr(mustTime(t, "2024-02-01T09:00:00Z")),
		false)
	require.NoError(t, err)
	m, err := match.NewRangeDateMatch(r)
	require.NoError(t, err)

	p, err := Date(m, paidOn, nil)
	require.NoError(t, err)

	assert.True(t, matches(t, p, paidAt(mustTime(t, "2024-01-01T01:00:00Z"))))
	assert.True(t, matches(t, p, paidAt(mustTime(t, "2024-01-31T23:59:59Z"))))
	assert.False(t, matches(t, p, paidAt(mustTime(t, "2024-02-01T00:00:01Z"))))
	assert.False(t, matches(t, p, paidAt(mustTime(t, "2023-12-31T23:59:59Z"))))
}

func TestDate_AbsoluteWithTime(t *testing.T) {
	r, err := match.NewAbsoluteRange(match.Ptr(mustTime(t, "2024-01-01T15:00:00Z")), nil, true)
	require.NoError(t, err)
	m, err := match.NewRangeDateMatch(r)
	require.NoError(t, err)

	p, err := Date(m, paidOn, nil)
	require.NoError(t, err)
	assert.Equal(t,
		`x => ((x.paid_on != null) && (x.paid_on >= "2024-01-01T15:00:00Z"))`,
		p.String())

	assert.False(t, matches(t, p, paidAt(mustTime(t, "2024-01-01T14:59:59Z"))))
	assert.True(t, matches(t, p, paidAt(mustTime(t, "2024-01-01T15:00:00Z"))))
	assert.True(t, matches(t, p, paidAt(mustTime(t, "2030-01-01T00:00:00Z"))))
}

func TestDate_AbsoluteUpperBoundOnly(t *testing.T) {
	r, err := match.NewAbsoluteRange(nil, match.Ptr(mustTime(t, "2024-01-01T00:00:00Z")), false)
	require.NoError(t, err)
	m, err := match.NewRangeDateMatch(r)
	require.NoError(t, err)

	p, err := Date(m, paidOn, nil)
	require.NoError(t, err)
	assert.True(t, matches(t, p, paidAt(mustTime(t, "1999-01-01T00:00:00Z"))))
	assert.False(t, matches(t, p, paidAt(mustTime(t, "2024-01-01T00:00:00Z"))))
}

func TestDate_RelativeUTC(t *testing.T) {
	resolver := reldate.NewResolver(testutil.MustParseClock("2024-06-15T12:00:00Z"))
	r, err := match.NewRelativeRange(match.Ptr(-7), nil, "")
	require.NoError(t, err)
	m, err := match.NewRangeDateMatch(r)
	require.NoError(t, err)

	p, err := Date(m, paidOn, resolver)
	require.NoError(t, err)
	assert.Equal(t,
		`x => ((x.paid_on != null) && (x.paid_on >= "2024-06-08T00:00:00Z"))`,
		p.String())

	assert.True(t, matches(t, p, paidAt(mustTime(t, "2024-06-08T00:30:00Z"))))
	assert.False(t, matches(t, p, paidAt(mustTime(t, "2024-06-07T23:59:59Z"))))
}

func TestDate_RelativeNewYork(t *testing.T) {
	resolver := reldate.NewResolver(testutil.MustParseClock("2024-06-15T12:00:00Z"))
	r, err := match.NewRelativeRange(match.Ptr(-7), match.Ptr(0), "America/New_York")
	require.NoError(t, err)
	m, err := match.NewRangeDateMatch(r)
	require.NoError(t, err)

	p, err := Date(m, paidOn, resolver)
	require.NoError(t, err)
	// 12:00Z is 08:00 EDT; bounds keep the local wall clock.
	assert.Equal(t,
		`x => ((x.paid_on != null) && (x.paid_on >= "2024-06-08T08:00:00Z") && (x.paid_on < "2024-06-15T08:00:00Z"))`,
		p.String())

	assert.True(t, matches(t, p, paidAt(mustTime(t, "2024-06-08T08:00:00Z"))))
	assert.False(t, matches(t, p, paidAt(mustTime(t, "2024-06-08T07:59:59Z"))))
	assert.False(t, matches(t, p, paidAt(mustTime(t, "2024-06-15T08:00:00Z"))))
}

func TestDate_RelativeReadsClockOnce(t *testing.T) {
	calls := 0
	resolver := reldate.NewResolver(reldate.ClockFunc(func() time.Time {
		calls++
		return mustTime(t, "2024-06-15T12:00:00Z").Add(time.Duration(calls) * time.Minute)
	}))
	r, err := match.NewRelativeRange(match.Ptr(-1), match.Ptr(1), "UTC")
	require.NoError(t, err)
	m, err := match.NewRangeDateMatch(r)
	require.NoError(t, err)

	_, err = Date(m, paidOn, resolver)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDate_Errors(t *testing.T) {
	day := mustTime(t, "2024-03-10T00:00:00Z")
	relative := &match.DateRange{
		Kind:     match.RangeRelative,
		Relative: &match.RelativeDateRange{StartDateOffsetDays: match.Ptr(5), TimeZone: "Not/AZone"},
	}

	tests := []struct {
		name string
		m    *match.DateMatch
		code match.ErrorCode
	}{
		{
			name: "exact with range and no date",
			m:    &match.DateMatch{Kind: match.DateMatchExact, Range: relative},
			code: match.ErrCodeMissingExactDate,
		},
		{
			name: "absolute kind with relative payload",
			m: &match.DateMatch{Kind: match.DateMatchRange, Range: &match.DateRange{
				Kind:     match.RangeAbsolute,
				Relative: &match.RelativeDateRange{StartDateOffsetDays: match.Ptr(1)},
			}},
			code: match.ErrCodeUndefinedRangeType,
		},
		{
			name: "absolute without bounds",
			m: &match.DateMatch{Kind: match.DateMatchRange, Range: &match.DateRange{
				Kind:     match.RangeAbsolute,
				Absolute: &match.AbsoluteDateRange{IncludeTime: match.Ptr(true)},
			}},
			code: match.ErrCodeInvalidDateRange,
		},
		{
			name: "unknown zone",
			m:    &match.DateMatch{Kind: match.DateMatchRange, Range: relative},
			code: match.ErrCodeUnknownTimeZone,
		},
		{
			name: "unset kind",
			m:    &match.DateMatch{ExactDate: &day},
			code: match.ErrCodeInvalidMatchKind,
		},
	}
	resolver := reldate.NewResolver(testutil.MustParseClock("2024-06-15T12:00:00Z"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Date(tt.m, paidOn, resolver)
			require.Error(t, err)
			assert.Equal(t, tt.code, match.CodeOf(err), err.Error())
			assert.True(t, p.IsNoFilter())
		})
	}
}
