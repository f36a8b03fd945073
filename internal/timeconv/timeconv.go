// Package timeconv renders UTC timestamps from the upstream API in the
// caller's fixed-offset display zone ("GMT+05:30" style descriptors).
package timeconv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var zoneRe = regexp.MustCompile(`^GMT([+-]?)(\d{1,2}):(\d{2})$`)

// Offset is a parsed fixed-offset zone descriptor. Hours and Minutes keep the
// caller's digits so rendering can echo the requested offset rather than a
// canonicalized one.
type Offset struct {
	Sign    byte
	Hours   int
	Minutes int
}

// ParseZone parses a "GMT[+-]HH:MM" descriptor. Spaces are tolerated and the
// sign defaults to '+'. Anything else is an error.
func ParseZone(zone string) (Offset, error) {
	cleaned := strings.ReplaceAll(zone, " ", "")
	m := zoneRe.FindStringSubmatch(cleaned)
	if m == nil {
		return Offset{}, fmt.Errorf("invalid timezone descriptor %q (want GMT+HH:MM)", zone)
	}
	sign := byte('+')
	if m[1] == "-" {
		sign = '-'
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	if minutes > 59 {
		return Offset{}, fmt.Errorf("invalid timezone descriptor %q: minutes out of range", zone)
	}
	return Offset{Sign: sign, Hours: hours, Minutes: minutes}, nil
}

func (o Offset) duration() time.Duration {
	d := time.Duration(o.Hours)*time.Hour + time.Duration(o.Minutes)*time.Minute
	if o.Sign == '-' {
		return -d
	}
	return d
}

// ToZone converts a UTC timestamp string into the descriptor's local time,
// rendered as "2006-01-02T15:04:05.000+HH:MM" with the caller's offset
// digits. The timestamp may carry fractional seconds and a trailing "Z".
//
// An empty timestamp formats to the empty string without error; a malformed
// zone or unparsable timestamp returns the empty sentinel and an error, never
// the unmodified input.
func ToZone(utcTimestamp, zone string) (string, error) {
	if utcTimestamp == "" {
		return "", nil
	}
	offset, err := ParseZone(zone)
	if err != nil {
		return "", err
	}
	parsed, err := parseUTC(utcTimestamp)
	if err != nil {
		return "", err
	}
	local := parsed.Add(offset.duration())
	return fmt.Sprintf("%s.000%c%02d:%02d", local.Format("2006-01-02T15:04:05"), offset.Sign, offset.Hours, offset.Minutes), nil
}

func parseUTC(value string) (time.Time, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "Z")
	// time.Parse accepts fractional seconds after the seconds field even when
	// the layout omits them, so one layout covers all four upstream shapes.
	t, err := time.Parse("2006-01-02T15:04:05", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable timestamp %q: %w", value, err)
	}
	return t, nil
}
