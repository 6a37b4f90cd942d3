package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StringMatchKind selects how a StringMatch compares.
type StringMatchKind int

const (
	StringMatchUnspecified StringMatchKind = iota
	StringMatchExact
	StringMatchStartsWith
	StringMatchContains
)

func (k StringMatchKind) String() string {
	switch k {
	case StringMatchUnspecified:
		return "Unspecified"
	case StringMatchExact:
		return "Exact"
	case StringMatchStartsWith:
		return "StartsWith"
	case StringMatchContains:
		return "Contains"
	default:
		return fmt.Sprintf("StringMatchKind(%d)", int(k))
	}
}

// StringMatch is a case-insensitive string filter.
//
// A nil *StringMatch means no filtering. Value may be empty.
type StringMatch struct {
	Kind  StringMatchKind
	Value string
}

// NewStringMatch creates a StringMatch, rejecting unknown kinds.
func NewStringMatch(kind StringMatchKind, value string) (*StringMatch, error) {
	m := &StringMatch{Kind: kind, Value: value}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Exact matches the whole value, ignoring case.
func Exact(value string) *StringMatch {
	return &StringMatch{Kind: StringMatchExact, Value: value}
}

// StartsWith matches a prefix, ignoring case.
func StartsWith(value string) *StringMatch {
	return &StringMatch{Kind: StringMatchStartsWith, Value: value}
}

// Contains matches a substring, ignoring case.
func Contains(value string) *StringMatch {
	return &StringMatch{Kind: StringMatchContains, Value: value}
}

// Validate checks the discriminator.
func (m *StringMatch) Validate() error {
	switch m.Kind {
	case StringMatchExact, StringMatchStartsWith, StringMatchContains:
		return nil
	case StringMatchUnspecified:
		return Errorf(ErrCodeInvalidMatchKind, "string match kind is not set")
	default:
		return Errorf(ErrCodeInvalidMatchKind, "unknown string match kind %s", m.Kind)
	}
}

// DateMatchKind selects between an exact day and a range.
type DateMatchKind int

const (
	DateMatchUnspecified DateMatchKind = iota
	DateMatchExact
	DateMatchRange
)

func (k DateMatchKind) String() string {
	switch k {
	case DateMatchUnspecified:
		return "Unspecified"
	case DateMatchExact:
		return "Exact"
	case DateMatchRange:
		return "Range"
	default:
		return fmt.Sprintf("DateMatchKind(%d)", int(k))
	}
}

// RangeKind selects between absolute and relative ranges.
type RangeKind int

const (
	RangeUnspecified RangeKind = iota
	RangeAbsolute
	RangeRelative
)

func (k RangeKind) String() string {
	switch k {
	case RangeUnspecified:
		return "Unspecified"
	case RangeAbsolute:
		return "Absolute"
	case RangeRelative:
		return "Relative"
	default:
		return fmt.Sprintf("RangeKind(%d)", int(k))
	}
}

// DateMatch filters a date/time field.
//
// Exactly one of ExactDate (Kind == DateMatchExact) or Range
// (Kind == DateMatchRange) is populated.
type DateMatch struct {
	Kind      DateMatchKind
	ExactDate *time.Time
	Range     *DateRange
}

// DateRange is an absolute or relative date interval. Exactly one of
// Absolute or Relative is populated, selected by Kind.
type DateRange struct {
	Kind     RangeKind
	Absolute *AbsoluteDateRange
	Relative *RelativeDateRange
}

// AbsoluteDateRange is a half-open interval [OnOrAfter, Before).
//
// When IncludeTime is nil or false, both bounds are floored to midnight and
// comparisons have day precision.
type AbsoluteDateRange struct {
	OnOrAfter   *time.Time
	Before      *time.Time
	IncludeTime *bool
}

// RelativeDateRange is an interval expressed as signed day offsets from now.
//
// TimeZone is a canonical zone database name ("America/New_York"). When set,
// "now" is the wall clock in that zone and bounds keep their time of day;
// when empty or blank, "now" is UTC and bounds have day precision.
type RelativeDateRange struct {
	StartDateOffsetDays *int
	EndDateOffsetDays   *int
	TimeZone            string
}

// NewExactDateMatch matches the calendar day of date.
func NewExactDateMatch(date time.Time) *DateMatch {
	return &DateMatch{Kind: DateMatchExact, ExactDate: &date}
}

// NewRangeDateMatch matches a range, validating it first.
func NewRangeDateMatch(r *DateRange) (*DateMatch, error) {
	m := &DateMatch{Kind: DateMatchRange, Range: r}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewAbsoluteRange creates an absolute DateRange. At least one bound is
// required.
func NewAbsoluteRange(onOrAfter, before *time.Time, includeTime bool) (*DateRange, error) {
	r := &DateRange{
		Kind: RangeAbsolute,
		Absolute: &AbsoluteDateRange{
			OnOrAfter:   onOrAfter,
			Before:      before,
			IncludeTime: &includeTime,
		},
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRelativeRange creates a relative DateRange. At least one offset is
// required.
func NewRelativeRange(startOffsetDays, endOffsetDays *int, timeZone string) (*DateRange, error) {
	r := &DateRange{
		Kind: RangeRelative,
		Relative: &RelativeDateRange{
			StartDateOffsetDays: startOffsetDays,
			EndDateOffsetDays:   endOffsetDays,
			TimeZone:            timeZone,
		},
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate enforces the exclusivity invariant of DateMatch and its range.
func (m *DateMatch) Validate() error {
	switch m.Kind {
	case DateMatchExact:
		if m.ExactDate == nil {
			return Errorf(ErrCodeMissingExactDate, "exact date match without a date")
		}
		if m.Range != nil {
			return Errorf(ErrCodeInvalidArgument, "exact date match must not carry a range")
		}
		return nil
	case DateMatchRange:
		if m.ExactDate != nil {
			return Errorf(ErrCodeInvalidArgument, "range date match must not carry an exact date")
		}
		if m.Range == nil {
			return Errorf(ErrCodeUndefinedRangeType, "range date match without a range")
		}
		return m.Range.Validate()
	case DateMatchUnspecified:
		return Errorf(ErrCodeInvalidMatchKind, "date match kind is not set")
	default:
		return Errorf(ErrCodeInvalidMatchKind, "unknown date match kind %s", m.Kind)
	}
}

// Validate enforces that Kind selects the single populated sub-range and
// that the sub-range has at least one bound.
func (r *DateRange) Validate() error {
	if r.Absolute != nil && r.Relative != nil {
		return Errorf(ErrCodeInvalidArgument, "date range populates both absolute and relative")
	}

	switch {
	case r.Kind == RangeAbsolute && r.Absolute != nil:
		if r.Absolute.OnOrAfter == nil && r.Absolute.Before == nil {
			return Errorf(ErrCodeInvalidDateRange, "%s date range has neither on_or_after nor before", r.Kind)
		}
		return nil
	case r.Kind == RangeRelative && r.Relative != nil:
		if r.Relative.StartDateOffsetDays == nil && r.Relative.EndDateOffsetDays == nil {
			return Errorf(ErrCodeInvalidDateRange, "%s date range has neither start nor end offset", r.Kind)
		}
		return nil
	default:
		return Errorf(ErrCodeUndefinedRangeType, "unknown range type: %s", r.Kind)
	}
}

// IncludesTime reports whether comparisons use full timestamp precision.
func (r *AbsoluteDateRange) IncludesTime() bool {
	return r.IncludeTime != nil && *r.IncludeTime
}

// BaseFilter carries the filters common to every entity query.
type BaseFilter struct {
	IDs []uuid.UUID
}

// Ptr returns a pointer to v, for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
