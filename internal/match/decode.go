package match

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Wire date formats. Date-only values are interpreted as UTC midnight.
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02T15:04:05"
)

// FilterDocument is the wire form of a filter request.
//
// Example (YAML):
//
//	source: invoices
//	ids: ["0190f6a2-0000-7000-8000-000000000001"]
//	strings:
//	  customer: {starts_with: "acme"}
//	dates:
//	  paid_on:
//	    range:
//	      relative: {start_date: -7, timezone: America/New_York}
//	bools:
//	  archived: false
type FilterDocument struct {
	Source  string                      `yaml:"source" json:"source"`
	IDs     []string                    `yaml:"ids,omitempty" json:"ids,omitempty"`
	Strings map[string]*WireStringMatch `yaml:"strings,omitempty" json:"strings,omitempty"`
	Dates   map[string]*WireDateMatch   `yaml:"dates,omitempty" json:"dates,omitempty"`
	Bools   map[string]*bool            `yaml:"bools,omitempty" json:"bools,omitempty"`
}

// WireStringMatch is a oneof: exactly one field is set.
type WireStringMatch struct {
	Exact      *string `yaml:"exact,omitempty" json:"exact,omitempty"`
	StartsWith *string `yaml:"starts_with,omitempty" json:"starts_with,omitempty"`
	Contains   *string `yaml:"contains,omitempty" json:"contains,omitempty"`
}

// WireDateMatch is a oneof: exactly one field is set.
type WireDateMatch struct {
	Exact *string        `yaml:"exact,omitempty" json:"exact,omitempty"`
	Range *WireDateRange `yaml:"range,omitempty" json:"range,omitempty"`
}

// WireDateRange is a oneof: exactly one field is set.
type WireDateRange struct {
	Absolute *WireAbsoluteRange `yaml:"absolute,omitempty" json:"absolute,omitempty"`
	Relative *WireRelativeRange `yaml:"relative,omitempty" json:"relative,omitempty"`
}

// WireAbsoluteRange carries bounds as strings in DateFormat, or in
// DateTimeFormat when IncludeTime is true.
type WireAbsoluteRange struct {
	OnOrAfter   string `yaml:"on_or_after,omitempty" json:"on_or_after,omitempty"`
	Before      string `yaml:"before,omitempty" json:"before,omitempty"`
	IncludeTime *bool  `yaml:"include_time,omitempty" json:"include_time,omitempty"`
}

// WireRelativeRange carries day offsets and an optional zone name.
type WireRelativeRange struct {
	StartDate *int   `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *int   `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Timezone  string `yaml:"timezone,omitempty" json:"timezone,omitempty"`
}

// Filter is the domain form of a FilterDocument. Field lists are sorted by
// field name so that the resulting predicate is deterministic.
type Filter struct {
	Source  string
	Base    BaseFilter
	Strings []FieldStringMatch
	Dates   []FieldDateMatch
	Bools   []FieldBool
}

// FieldStringMatch binds a StringMatch to a field.
type FieldStringMatch struct {
	Field string
	Match *StringMatch
}

// FieldDateMatch binds a DateMatch to a field.
type FieldDateMatch struct {
	Field string
	Match *DateMatch
}

// FieldBool binds a boolean filter to a field.
type FieldBool struct {
	Field string
	Value *bool
}

// ParseFilter decodes, converts and schema-checks a YAML or JSON filter
// document.
//
// Oneof violations are reported with their specific codes
// (ErrCodeInvalidMatchKind, ErrCodeUndefinedRangeType, ...) before the
// document is checked against the CUE schema.
func ParseFilter(data []byte) (*Filter, error) {
	doc, err := DecodeFilterDocument(data)
	if err != nil {
		return nil, err
	}
	f, err := doc.ToDomain()
	if err != nil {
		return nil, err
	}
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeFilterDocument decodes YAML (or JSON, which is valid YAML) into a
// FilterDocument. Unknown keys are rejected.
func DecodeFilterDocument(data []byte) (*FilterDocument, error) {
	var doc FilterDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, Errorf(ErrCodeInvalidArgument, "decode filter document: %v", err)
	}
	return &doc, nil
}

// ToDomain converts the document into domain match values.
func (d *FilterDocument) ToDomain() (*Filter, error) {
	f := &Filter{Source: d.Source}

	for _, raw := range d.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, Errorf(ErrCodeInvalidArgument, "invalid id %q: %v", raw, err)
		}
		f.Base.IDs = append(f.Base.IDs, id)
	}

	for _, field := range sortedKeys(d.Strings) {
		m, err := d.Strings[field].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("strings.%s: %w", field, err)
		}
		f.Strings = append(f.Strings, FieldStringMatch{Field: field, Match: m})
	}

	for _, field := range sortedKeys(d.Dates) {
		m, err := d.Dates[field].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("dates.%s: %w", field, err)
		}
		f.Dates = append(f.Dates, FieldDateMatch{Field: field, Match: m})
	}

	for _, field := range sortedKeys(d.Bools) {
		f.Bools = append(f.Bools, FieldBool{Field: field, Value: d.Bools[field]})
	}

	return f, nil
}

// ToDomain converts a wire string match. A nil receiver converts to nil (no
// filtering).
func (w *WireStringMatch) ToDomain() (*StringMatch, error) {
	if w == nil {
		return nil, nil
	}

	var selected []*StringMatch
	if w.Exact != nil {
		selected = append(selected, Exact(*w.Exact))
	}
	if w.StartsWith != nil {
		selected = append(selected, StartsWith(*w.StartsWith))
	}
	if w.Contains != nil {
		selected = append(selected, Contains(*w.Contains))
	}

	switch len(selected) {
	case 0:
		return nil, Errorf(ErrCodeInvalidMatchKind,
			"no string match type selected; this happens when a search type is sent with an undefined value")
	case 1:
		return selected[0], nil
	default:
		return nil, Errorf(ErrCodeInvalidMatchKind, "more than one string match type selected")
	}
}

// ToDomain converts a wire date match. A nil receiver converts to nil (no
// filtering).
func (w *WireDateMatch) ToDomain() (*DateMatch, error) {
	if w == nil {
		return nil, nil
	}

	switch {
	case w.Exact != nil && w.Range != nil:
		return nil, Errorf(ErrCodeInvalidMatchKind, "date match selects both exact and range")
	case w.Exact != nil:
		date, err := parseDate(*w.Exact, DateFormat)
		if err != nil {
			return nil, err
		}
		return NewExactDateMatch(date), nil
	case w.Range != nil:
		r, err := w.Range.ToDomain()
		if err != nil {
			return nil, err
		}
		return NewRangeDateMatch(r)
	default:
		return nil, Errorf(ErrCodeInvalidMatchKind, "no date match type selected")
	}
}

// ToDomain converts a wire date range.
func (w *WireDateRange) ToDomain() (*DateRange, error) {
	switch {
	case w.Absolute != nil && w.Relative != nil:
		return nil, Errorf(ErrCodeUndefinedRangeType, "date range selects both absolute and relative")
	case w.Absolute != nil:
		a := w.Absolute
		includeTime := a.IncludeTime != nil && *a.IncludeTime
		layout := DateFormat
		if includeTime {
			layout = DateTimeFormat
		}
		onOrAfter, err := parseOptionalDate(a.OnOrAfter, layout)
		if err != nil {
			return nil, err
		}
		before, err := parseOptionalDate(a.Before, layout)
		if err != nil {
			return nil, err
		}
		return NewAbsoluteRange(onOrAfter, before, includeTime)
	case w.Relative != nil:
		rel := w.Relative
		return NewRelativeRange(rel.StartDate, rel.EndDate, rel.Timezone)
	default:
		return nil, Errorf(ErrCodeUndefinedRangeType, "no date range type selected")
	}
}

func parseDate(s, layout string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, Errorf(ErrCodeInvalidArgument, "invalid date %q (want %s)", s, layout)
	}
	return t, nil
}

func parseOptionalDate(s, layout string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s, layout)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
