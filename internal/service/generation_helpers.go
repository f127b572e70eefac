package service

import (
	"time"

	"github.com/fintrack/finance-tracker-backend/internal/model"
	"github.com/fintrack/finance-tracker-backend/internal/schedule"
)

// referenceMonthFor computes the reference-month bucket of a generated entry.
//
// By default an entry belongs to the month of its own date. When a plan or
// template carries a reference-date override (e.g. a salary paid on the 28th
// that belongs to the following month), the override's month offset relative
// to the schedule's start date is preserved across every generated entry.
func referenceMonthFor(entryDate, startDate, override time.Time) time.Time {
	if override.IsZero() {
		return model.FirstOfMonth(entryDate)
	}
	offset := monthsBetween(model.FirstOfMonth(startDate), model.FirstOfMonth(entryDate))
	return schedule.NextOccurrence(model.FirstOfMonth(override), model.RecurrenceMonth, offset)
}

// monthsBetween returns the whole-month distance from a to b; both are
// first-of-month dates.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
