package core

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Date is a plain YYYY-MM-DD calendar date. Dates compare lexically, so
// ordinary string comparison gives chronological order. No timezone math is
// performed anywhere in the engine.
type Date string

// MonthYear is a YYYY-MM month identifier.
type MonthYear string

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate validates s as a real calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date(s), nil
}

// Valid reports whether the date is a well-formed calendar date.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// Time returns the date at midnight UTC. Only valid dates may be converted.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// AddMonths shifts the date by n months, clamping the day to the target
// month's last day so Jan 31 + 1 month is Feb 28, not Mar 3.
func (d Date) AddMonths(n int) Date {
	t := d.Time()
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return DateOf(time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC))
}

// Month returns the YYYY-MM month the date falls in.
func (d Date) Month() MonthYear {
	if len(d) < len(monthLayout) {
		return ""
	}
	return MonthYear(d[:len(monthLayout)])
}

// DaysUntil returns the whole-day distance from d to other. Negative when
// other is in the past.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// CurrentMonth returns the YYYY-MM identifier for today.
func CurrentMonth() MonthYear {
	return MonthYear(time.Now().Format(monthLayout))
}

// Valid reports whether m is a well-formed YYYY-MM month.
func (m MonthYear) Valid() bool {
	_, err := time.Parse(monthLayout, string(m))
	return err == nil
}

// Bounds returns the first and last calendar day of the month. The "current
// month" window used by every monthly query is [YYYY-MM-01, last day].
func (m MonthYear) Bounds() (Date, Date) {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return "", ""
	}
	first := t
	last := t.AddDate(0, 1, -1)
	return DateOf(first), DateOf(last)
}

// Contains reports whether the date falls inside the month.
func (m MonthYear) Contains(d Date) bool {
	first, last := m.Bounds()
	return d >= first && d <= last
}
