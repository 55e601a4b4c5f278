// Package weekdate normalizes calendar dates to the Monday that starts their
// week and converts them to and from the backend's YYYY-MM-DD form.
package weekdate

import (
	"fmt"
	"time"

	apperrors "studyplan/internal/platform/errors"
)

const Layout = "2006-01-02"

// Monday returns midnight of the Monday on or before t, in t's location.
func Monday(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a YYYY-MM-DD date in the local zone. An empty string is
// rejected; callers substitute the clock's today before parsing.
func Parse(value string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperrors.ErrInvalidInput, value)
	}
	return t, nil
}

// Key is the backend key of the week containing t.
func Key(t time.Time) string {
	return Format(Monday(t))
}
