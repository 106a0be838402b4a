// Package datetz converts between UTC instants, date-only calendar keys and
// wall-clock readings in a user's IANA time zone.
//
// Every per-day bucket in the stats engine is keyed by DateKey, so all day
// boundaries follow the zone's real rules (DST included) rather than a fixed
// offset. Malformed input never panics: parsers report ok=false or an error
// and callers drop the record.
package datetz

import (
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // zone rules must not depend on the host's zoneinfo

	"github.com/cockroachdb/errors"
)

// DefaultZone is used whenever a user has not configured a zone.
const DefaultZone = "America/New_York"

// KeyLayout is the layout of a date key.
const KeyLayout = "2006-01-02"

// transitionProbe is how far from an instant we look for the offset in force
// on either side of a nearby DST transition.
const transitionProbe = 24 * time.Hour

var (
	locations sync.Map // zone name -> *time.Location

	defaultZone = DefaultZone
	defaultMu   sync.RWMutex
)

// SetDefaultZone overrides the fallback zone (server configuration).
// An invalid name is rejected and the previous default is kept.
func SetDefaultZone(zone string) error {
	if !ValidZone(zone) {
		return errors.Newf("invalid time zone %q", zone)
	}
	defaultMu.Lock()
	defaultZone = zone
	defaultMu.Unlock()
	return nil
}

func fallbackZone() string {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultZone
}

// EnsureZone returns zone, or the default zone when zone is blank.
func EnsureZone(zone string) string {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return fallbackZone()
	}
	return zone
}

// ValidZone reports whether zone names a loadable IANA zone.
// "Local" is rejected because it depends on the server host.
func ValidZone(zone string) bool {
	zone = strings.TrimSpace(zone)
	if zone == "" || zone == "Local" {
		return false
	}
	_, err := time.LoadLocation(zone)
	return err == nil
}

// Location resolves zone to a *time.Location. Blank or unknown names fall
// back to the default zone so unconfigured users still bucket consistently.
func Location(zone string) *time.Location {
	zone = EnsureZone(zone)
	if loc, ok := locations.Load(zone); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil || zone == "Local" {
		if zone == fallbackZone() {
			return time.UTC
		}
		return Location(fallbackZone())
	}
	actual, _ := locations.LoadOrStore(zone, loc)
	return actual.(*time.Location)
}

// Parts are the calendar and clock fields of an instant as read in a zone.
type Parts struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

func (p Parts) asUTC() time.Time {
	return time.Date(p.Year, time.Month(p.Month), p.Day, p.Hour, p.Minute, p.Second, 0, time.UTC)
}

// PartsOf decomposes t into zone's calendar and clock fields.
func PartsOf(t time.Time, zone string) Parts {
	lt := t.In(Location(zone))
	return Parts{
		Year:   lt.Year(),
		Month:  int(lt.Month()),
		Day:    lt.Day(),
		Hour:   lt.Hour(),
		Minute: lt.Minute(),
		Second: lt.Second(),
	}
}

// OffsetOf returns the signed offset such that t+offset, read as UTC, shows
// the same wall clock as PartsOf(t, zone).
func OffsetOf(t time.Time, zone string) time.Duration {
	return PartsOf(t, zone).asUTC().Sub(t.Truncate(time.Second))
}

// DateKey returns the YYYY-MM-DD bucket of t in zone.
func DateKey(t time.Time, zone string) string {
	return t.In(Location(zone)).Format(KeyLayout)
}

// WallClockToUTC converts a wall-clock reading in zone ("YYYY-MM-DDTHH:MM",
// optionally with ":SS", "T" or a space as separator) into a UTC instant.
//
// The fields are first read as if they were UTC, then shifted by the zone
// offset at that provisional instant, and the shift is refined once with the
// offset at the corrected instant. A reading that occurs twice (clocks set
// back) resolves to the earlier instant. A reading that never occurs (clocks
// set forward) is read with the offset in force before the gap, so it lands
// after the gap by the gap's length.
func WallClockToUTC(value, zone string) (time.Time, error) {
	want, err := parseWallClock(value)
	if err != nil {
		return time.Time{}, err
	}

	provisional := want.asUTC()
	guess := provisional.Add(-OffsetOf(provisional, zone))
	guess = provisional.Add(-OffsetOf(guess, zone))

	if PartsOf(guess, zone) != want {
		return provisional.Add(-OffsetOf(provisional.Add(-transitionProbe), zone)), nil
	}

	for _, probe := range []time.Time{guess.Add(-transitionProbe), guess.Add(transitionProbe)} {
		alt := provisional.Add(-OffsetOf(probe, zone))
		if alt.Before(guess) && PartsOf(alt, zone) == want {
			guess = alt
		}
	}
	return guess.UTC(), nil
}

func parseWallClock(value string) (Parts, error) {
	value = strings.TrimSpace(value)
	sep := strings.IndexAny(value, "T ")
	if sep < 0 {
		return Parts{}, errors.Newf("wall clock %q: missing time part", value)
	}
	datePart, timePart := value[:sep], value[sep+1:]

	d := strings.Split(datePart, "-")
	c := strings.Split(timePart, ":")
	if len(d) != 3 || len(c) < 2 || len(c) > 3 {
		return Parts{}, errors.Newf("wall clock %q: expected YYYY-MM-DDTHH:MM[:SS]", value)
	}

	fields := append(d, c...)
	if len(c) == 2 {
		fields = append(fields, "0")
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Parts{}, errors.Wrapf(err, "wall clock %q", value)
		}
		nums[i] = n
	}

	p := Parts{Year: nums[0], Month: nums[1], Day: nums[2], Hour: nums[3], Minute: nums[4], Second: nums[5]}
	if p.Hour > 23 || p.Minute > 59 || p.Second > 59 || p.Hour < 0 || p.Minute < 0 || p.Second < 0 {
		return Parts{}, errors.Newf("wall clock %q: clock out of range", value)
	}
	// time.Date normalizes impossible dates such as Feb 30; reject those.
	if n := p.asUTC(); n.Year() != p.Year || int(n.Month()) != p.Month || n.Day() != p.Day {
		return Parts{}, errors.Newf("wall clock %q: no such calendar date", value)
	}
	return p, nil
}

// ParseDateOnly reads a date-only string as midnight in zone. A longer
// ISO-8601 value is accepted as long as it starts with a calendar date.
func ParseDateOnly(s, zone string) (time.Time, bool) {
	key, ok := NormalizeKey(s)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(KeyLayout, key, Location(zone))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeKey returns the date key carried by a date-only string. Calendar
// dates need no zone projection; the key is the date itself.
func NormalizeKey(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(KeyLayout) {
		return "", false
	}
	if len(s) > len(KeyLayout) && s[len(KeyLayout)] != 'T' && s[len(KeyLayout)] != ' ' {
		return "", false
	}
	t, err := time.Parse(KeyLayout, s[:len(KeyLayout)])
	if err != nil {
		return "", false
	}
	return t.Format(KeyLayout), true
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseInstant parses a stored timestamp. Values without an offset are UTC.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// StartOfDay returns midnight of t's calendar day in zone.
func StartOfDay(t time.Time, zone string) time.Time {
	loc := Location(zone)
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a day by n calendar days, keeping its wall clock. Across a
// DST change the elapsed time is 23 or 25 hours, never a skipped day.
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// WeekStart returns the Monday of day's week.
func WeekStart(day time.Time) time.Time {
	return AddDays(day, -((int(day.Weekday()) + 6) % 7))
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatDateOnly renders a date key as "Jan 2, 2006". Invalid keys render empty.
func FormatDateOnly(key string) string {
	k, ok := NormalizeKey(key)
	if !ok {
		return ""
	}
	t, _ := time.Parse(KeyLayout, k)
	return t.Format("Jan 2, 2006")
}

// FormatDateTimeDisplay renders t in zone as "Jan 2, 2006, 3:04 PM".
func FormatDateTimeDisplay(t time.Time, zone string) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location(zone)).Format("Jan 2, 2006, 3:04 PM")
}

// FormatDateTimeForInput renders t in zone as "2006-01-02T15:04", the value
// format of an HTML datetime-local input.
func FormatDateTimeForInput(t time.Time, zone string) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location(zone)).Format("2006-01-02T15:04")
}
