package service

import (
	"strings"
	"time"

	"colonoscopy-scheduler/internal/domain/entity"
)

// Keyword sets for the month and period passes. A message naming both
// months (or both periods) runs both passes and ends up empty.
var (
	septemberKeywords = []string{"september", "sept"}
	octoberKeywords   = []string{"october", "oct"}
	morningKeywords   = []string{"morning", "am"}
	afternoonKeywords = []string{"afternoon", "evening", "pm"}
)

// FilterAppointments narrows candidates to the ones matching the doctor,
// month and period preferences found in a patient message. Matching is a
// case-insensitive substring test. Only the first doctor keyword (in table
// order) is applied; month and period passes are independent of each other.
//
// The input slice is never modified and the result keeps the input order.
func FilterAppointments(rules entity.SchedulingRules, message string, candidates []entity.Appointment) []entity.Appointment {
	lowerMessage := strings.ToLower(message)

	filtered := make([]entity.Appointment, len(candidates))
	copy(filtered, candidates)

	for _, d := range rules.Doctors {
		if strings.Contains(lowerMessage, strings.ToLower(d.Keyword)) {
			filtered = keep(filtered, func(a entity.Appointment) bool { return a.Doctor == d.Doctor })
			break
		}
	}

	if containsAny(lowerMessage, septemberKeywords) {
		filtered = keep(filtered, func(a entity.Appointment) bool { return a.InMonth(time.September) })
	}
	if containsAny(lowerMessage, octoberKeywords) {
		filtered = keep(filtered, func(a entity.Appointment) bool { return a.InMonth(time.October) })
	}

	if containsAny(lowerMessage, morningKeywords) {
		filtered = keep(filtered, func(a entity.Appointment) bool { return a.Period == entity.PeriodAM })
	}
	if containsAny(lowerMessage, afternoonKeywords) {
		filtered = keep(filtered, func(a entity.Appointment) bool { return a.Period == entity.PeriodPM })
	}

	return filtered
}

// keep filters in place; callers own the slice passed in.
func keep(appointments []entity.Appointment, match func(entity.Appointment) bool) []entity.Appointment {
	out := appointments[:0]
	for _, a := range appointments {
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
