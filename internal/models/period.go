package models

import (
	"fmt"
	"time"
)

// Period identifies one contribution-and-settlement cycle by calendar
// month and year, e.g. {Month: "March", Year: 2026}. Month is the full
// English month name.
type Period struct {
	Month string
	Year  int
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month().String(), Year: t.Year()}
}

// Valid reports whether the period has a recognized month name and a
// plausible year.
func (p Period) Valid() bool {
	if p.Year < 1900 || p.Year > 9999 {
		return false
	}
	for m := time.January; m <= time.December; m++ {
		if p.Month == m.String() {
			return true
		}
	}
	return false
}

// String renders the period as a display label, e.g. "March 2026".
func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}
