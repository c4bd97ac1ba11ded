package csvimport

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
}

var timeLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
}

var errUnparseable = errors.New("unparseable value")

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errUnparseable
}

// parseClock returns hour and minute of a wall-clock time.
func parseClock(raw string) (int, int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, normalized); err == nil {
			return parsed.Hour(), parsed.Minute(), nil
		}
	}
	return 0, 0, errUnparseable
}

func parseIntInRange(raw string, min, max int) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil || value < min || value > max {
		return 0, errUnparseable
	}
	return value, nil
}

func lookupKey(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}
