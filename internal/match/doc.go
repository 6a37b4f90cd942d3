// Package match defines the filter-intent value types consumed by the
// compilers: StringMatch, DateMatch (with DateRange, AbsoluteDateRange and
// RelativeDateRange), boolean filters and identifier sets.
//
// Match values are immutable once built and carry no behavior beyond shape
// validation. Discriminated unions are tagged structs; constructors and
// Validate enforce that the populated variant agrees with the tag.
//
// The package also owns the error taxonomy shared by the compilers and the
// relative date resolver (see Error and ErrorCode), and the wire decoding of
// YAML/JSON filter documents (ParseFilter) checked against an embedded CUE
// schema.
package match
