package reldate

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/roach88/matchq/internal/match"
)

// Resolver turns day offsets into absolute instants relative to its Clock.
//
// The zero value (and a nil *Resolver) uses SystemClock.
type Resolver struct {
	Clock Clock
}

// NewResolver creates a Resolver reading "now" from clock.
func NewResolver(clock Clock) *Resolver {
	return &Resolver{Clock: clock}
}

// Now reads the resolver's clock.
func (r *Resolver) Now() time.Time {
	if r == nil || r.Clock == nil {
		return time.Now()
	}
	return r.Clock.Now()
}

// Resolve reads the clock and resolves a single offset. See ResolveAt.
func (r *Resolver) Resolve(offsetDays *int, timeZone string) (*time.Time, error) {
	return ResolveAt(r.Now(), offsetDays, timeZone)
}

// ResolveRange resolves both ends of a relative range against one reading
// of the clock.
func (r *Resolver) ResolveRange(startOffsetDays, endOffsetDays *int, timeZone string) (start, end *time.Time, err error) {
	now := r.Now()
	start, err = ResolveAt(now, startOffsetDays, timeZone)
	if err != nil {
		return nil, nil, err
	}
	end, err = ResolveAt(now, endOffsetDays, timeZone)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// ResolveAt resolves offsetDays relative to now.
//
// A nil offset resolves to nil. With an empty (or blank) zone the result is
// now in UTC plus the offset. With a zone the result is the zone's wall
// clock plus the offset in calendar days, tagged as UTC.
func ResolveAt(now time.Time, offsetDays *int, timeZone string) (*time.Time, error) {
	if offsetDays == nil {
		return nil, nil
	}

	base := now.UTC()
	if strings.TrimSpace(timeZone) != "" {
		local, err := ConvertFromUTC(now, timeZone)
		if err != nil {
			return nil, err
		}
		base = local
	}

	resolved := base.AddDate(0, 0, *offsetDays)
	return &resolved, nil
}

// ConvertFromUTC returns the wall clock reading of t in timeZone, tagged as
// UTC.
func ConvertFromUTC(t time.Time, timeZone string) (time.Time, error) {
	if strings.TrimSpace(timeZone) == "" {
		return time.Time{}, match.Errorf(match.ErrCodeInvalidArgument, "time zone is required")
	}

	loc, err := LoadZone(timeZone)
	if err != nil {
		return time.Time{}, err
	}

	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC), nil
}

// LoadZone loads a canonical zone database location ("Europe/Paris", "UTC").
//
// Abbreviations ("EST"), "Local" and names missing from the database fail
// with match.ErrCodeUnknownTimeZone.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name != "UTC" && !strings.Contains(name, "/") {
		return nil, unknownZone(name)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, unknownZone(name)
	}
	return loc, nil
}

func unknownZone(name string) error {
	return match.Errorf(match.ErrCodeUnknownTimeZone, "unknown time zone %q", name).WithDetail("zone", name)
}
