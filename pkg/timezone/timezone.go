package timezone

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout is the wall-clock format returned to API consumers.
const DisplayLayout = "2006-01-02 15:04"

// Layouts carrying an explicit offset are parsed as absolute instants and the
// zone argument is ignored. Bare layouts are interpreted as wall-clock time in
// the given zone. Callers may legitimately pass either form.
var offsetLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

var bareLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// HasExplicitOffset reports whether the timestamp carries a "Z" suffix or a
// numeric UTC offset and can therefore be parsed without a zone.
func HasExplicitOffset(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range offsetLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return true
		}
	}
	return false
}

// ToUTC converts a timestamp to a UTC instant. Offset-qualified inputs are
// taken literally; bare wall-clock inputs are interpreted in the named IANA
// zone.
func ToUTC(raw string, zone string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}

	loc, err := loadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range bareLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
}

// LocalDisplay renders the instant as "YYYY-MM-DD HH:mm" wall-clock time in
// the named zone.
func LocalDisplay(t time.Time, zone string) (string, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(DisplayLayout), nil
}

// LocalDayBounds returns the UTC instants delimiting the local calendar day of
// the provided "YYYY-MM-DD" date in the named zone. Day boundaries require a
// real IANA zone; offset-only strings are rejected by zone loading.
func LocalDayBounds(date string, zone string) (time.Time, time.Time, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("unparsable date %q: %w", date, err)
	}
	start := day
	end := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start.UTC(), end.UTC(), nil
}

// Validate checks that the zone resolves to a usable location.
func Validate(zone string) error {
	_, err := loadZone(zone)
	return err
}

func loadZone(zone string) (*time.Location, error) {
	name := strings.TrimSpace(zone)
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", zone, err)
	}
	return loc, nil
}
