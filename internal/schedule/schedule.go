// Package schedule implements pure date-stepping for recurring schedules.
// All functions are deterministic and side-effect free; callers own cursor
// state and persistence.
package schedule

import (
	"fmt"
	"time"

	"github.com/fintrack/finance-tracker-backend/internal/apperrors"
	"github.com/fintrack/finance-tracker-backend/internal/model"
)

// NextOccurrence returns d advanced by interval units of unit.
//
// Month and year arithmetic clamps to the last valid day of the target month
// when the source day-of-month does not exist there: Jan 31 + 1 month is
// Feb 28 (or Feb 29 in a leap year). Clamping is not undone by later steps;
// stepping again from Feb 28 lands on Mar 28.
//
// interval 0 returns d unchanged.
func NextOccurrence(d time.Time, unit model.RecurrenceUnit, interval int) time.Time {
	switch unit {
	case model.RecurrenceDay:
		return d.AddDate(0, 0, interval)
	case model.RecurrenceWeek:
		return d.AddDate(0, 0, 7*interval)
	case model.RecurrenceMonth:
		return addMonthsClamped(d, interval)
	case model.RecurrenceYear:
		return addMonthsClamped(d, 12*interval)
	}
	// Unknown units are rejected upstream by ValidateUnit.
	return d
}

// ValidateUnit returns ErrInvalidSchedule for unknown recurrence units.
func ValidateUnit(unit model.RecurrenceUnit) error {
	if !unit.Valid() {
		return fmt.Errorf("%w: unknown recurrence unit %q", apperrors.ErrInvalidSchedule, unit)
	}
	return nil
}

// ValidateInterval returns ErrInvalidSchedule when interval is below one.
func ValidateInterval(interval int) error {
	if interval < 1 {
		return fmt.Errorf("%w: recurrence interval must be >= 1, got %d", apperrors.ErrInvalidSchedule, interval)
	}
	return nil
}

// addMonthsClamped advances d by the given number of months, clamping the day
// to the end of the target month. time.AddDate is unsuitable here because it
// normalizes overflow (Jan 31 + 1 month becomes Mar 2/3).
func addMonthsClamped(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	total := int(month) - 1 + months
	year += total / 12
	month = time.Month(total%12 + 1)

	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, d.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
