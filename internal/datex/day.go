// Package datex provides a calendar-day type for scheduling math. Due dates
// and quota buckets are day-granular and always derived from the date the
// client supplies, never from the server clock, so cross-timezone sessions
// agree on what "today" means.
package datex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the wire format for calendar days.
const Layout = "2006-01-02"

// Day is a calendar date with no time-of-day component, normalized to UTC
// midnight. The zero value is not a valid day.
type Day struct {
	t time.Time
}

// New returns the Day for the given calendar date.
func New(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar date.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return New(y, m, d)
}

// Parse reads a day in YYYY-MM-DD form.
func Parse(s string) (Day, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Time returns the day as UTC midnight.
func (d Day) Time() time.Time { return d.t }

// AddDays returns the day shifted by n calendar days. n may be negative.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to o.
func (d Day) DaysUntil(o Day) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }
func (d Day) IsZero() bool      { return d.t.IsZero() }

func (d Day) String() string { return d.t.Format(Layout) }

// MarshalJSON encodes the day as a JSON string in YYYY-MM-DD form.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a JSON string in YYYY-MM-DD form.
func (d *Day) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", b)
	}
	day, err := Parse(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Value implements driver.Valuer so a Day can be bound to DATE columns.
func (d Day) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		day, err := Parse(v)
		if err != nil {
			return err
		}
		*d = day
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into datex.Day", src)
	}
}
