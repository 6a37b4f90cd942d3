// Package reldate resolves relative day offsets ("7 days ago") into absolute
// bounds.
//
// Resolution is anchored on a Clock so that "now" can be captured once per
// filter construction and fixed in tests. When a zone name is supplied the
// current instant is converted to that zone's wall clock, the offset is added
// in calendar days, and the result is re-tagged as UTC so it compares
// directly against stored local timestamps. Zone data comes from the embedded
// time/tzdata database, so results do not depend on the host.
package reldate
