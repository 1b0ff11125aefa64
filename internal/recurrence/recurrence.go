// Package recurrence expands a job's origin date into its future
// occurrence dates. It is pure date arithmetic with no side effects; the
// caller seeds new job rows from the result.
package recurrence

import "time"

// Frequency enumerates the supported recurrence cadences.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// DateLayout is the calendar date format used across the API and storage.
const DateLayout = "2006-01-02"

// Expand returns count future dates after origin. daily advances one day
// per step, weekly seven, monthly one calendar month with the day clamped
// to the end of shorter months (Jan 31 -> Feb 28/29, never Mar 2). An
// unrecognized frequency falls back to weekly rather than failing; the
// form-driven clients only ever send the known values.
func Expand(origin time.Time, freq Frequency, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, count)
	for i := 1; i <= count; i++ {
		switch freq {
		case Daily:
			dates = append(dates, origin.AddDate(0, 0, i))
		case Monthly:
			dates = append(dates, addMonthsClamped(origin, i))
		default: // weekly and anything unrecognized
			dates = append(dates, origin.AddDate(0, 0, 7*i))
		}
	}
	return dates
}

// ExpandDates is Expand over DateLayout strings, as stored on job rows.
func ExpandDates(origin string, freq Frequency, count int) ([]string, error) {
	t, err := time.Parse(DateLayout, origin)
	if err != nil {
		return nil, err
	}
	expanded := Expand(t, freq, count)
	dates := make([]string, len(expanded))
	for i, d := range expanded {
		dates[i] = d.Format(DateLayout)
	}
	return dates, nil
}

// addMonthsClamped advances t by months without the normalization
// time.AddDate applies: a day past the end of the target month clamps to
// that month's last day.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := firstOfTarget.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}
