package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted from the extraction model, most specific first. The
// canonical shape is the first one; the rest tolerate common model drift.
var layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"02 Jan 2006 15:04",
	"02 Jan 2006",
}

// Normalize converts a model-returned date/time string into the canonical
// stored instant. The layouts carry no zone, so the parsed value keeps the
// document's wall-clock digits (in UTC) and is never shifted. Unparseable
// input returns an error; callers drop the field rather than failing the run.
func Normalize(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	// A trailing Z or offset would re-derive the zone; strip it and keep the
	// local digits as written on the document. The sign scan starts past the
	// date part so its hyphens are untouched.
	value = strings.TrimSuffix(value, "Z")
	if idx := strings.LastIndexAny(value, "+-"); idx > len("2006-01-02") {
		value = strings.TrimSpace(value[:idx])
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}
