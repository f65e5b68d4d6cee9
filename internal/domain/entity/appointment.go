package entity

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar date format used for appointments on the wire
// and in prompts.
const DateLayout = "2006-01-02"

// Period is the half-day block an appointment falls in.
type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

// Appointment is an open procedure slot offered by the caller. Appointments
// are supplied with every request and are never persisted.
//
// RawDate keeps the date exactly as the caller sent it so that appointments
// handed back match the caller's own list.
type Appointment struct {
	Date    time.Time
	RawDate string
	Period  Period
	Doctor  string
}

// InMonth reports whether the appointment falls in the given calendar month.
func (a Appointment) InMonth(month time.Month) bool {
	return a.Date.Month() == month
}

// WireDate returns the caller's date string, or the calendar date when the
// appointment was not built from a request.
func (a Appointment) WireDate() string {
	if a.RawDate != "" {
		return a.RawDate
	}
	return a.Date.Format(DateLayout)
}

func (a Appointment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date   string `json:"date"`
		Period Period `json:"period"`
		Doctor string `json:"doctor"`
	}{
		Date:   a.WireDate(),
		Period: a.Period,
		Doctor: a.Doctor,
	})
}
