package model

// RecurrenceUnit is the calendar unit a schedule advances by.
type RecurrenceUnit string

// Allowed recurrence units.
const (
	RecurrenceDay   RecurrenceUnit = "day"
	RecurrenceWeek  RecurrenceUnit = "week"
	RecurrenceMonth RecurrenceUnit = "month"
	RecurrenceYear  RecurrenceUnit = "year"
)

// Valid reports whether u is one of the supported recurrence units.
func (u RecurrenceUnit) Valid() bool {
	switch u {
	case RecurrenceDay, RecurrenceWeek, RecurrenceMonth, RecurrenceYear:
		return true
	}
	return false
}
