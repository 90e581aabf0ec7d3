package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// ParseLocation accepts IANA names, "UTC"/"GMT" and fixed offsets like "UTC-8" or "GMT+05:30".
// An empty string resolves to UTC.
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	upper := strings.ToUpper(tz)
	switch upper {
	case "", "UTC", "GMT", "Z":
		return time.UTC, nil
	}

	for _, prefix := range []string{"UTC", "GMT"} {
		if strings.HasPrefix(upper, prefix) {
			offset, err := parseOffset(upper[len(prefix):])
			if err != nil {
				return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
			}
			return time.FixedZone(tz, offset), nil
		}
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

func parseOffset(s string) (int, error) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, fmt.Errorf("expected sign and hours")
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	hoursPart, minutesPart, hasMinutes := strings.Cut(s[1:], ":")
	if !unsignedDigits(hoursPart) {
		return 0, fmt.Errorf("bad hours %q", hoursPart)
	}
	hours, err := strconv.Atoi(hoursPart)
	if err != nil || hours > 14 {
		return 0, fmt.Errorf("bad hours %q", hoursPart)
	}
	minutes := 0
	if hasMinutes {
		if !unsignedDigits(minutesPart) {
			return 0, fmt.Errorf("bad minutes %q", minutesPart)
		}
		minutes, err = strconv.Atoi(minutesPart)
		if err != nil || minutes > 59 {
			return 0, fmt.Errorf("bad minutes %q", minutesPart)
		}
	}
	return sign * (hours*3600 + minutes*60), nil
}

// unsignedDigits reports whether s is one or two plain decimal digits.
func unsignedDigits(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
