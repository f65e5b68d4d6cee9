package service

import (
	"strings"

	"colonoscopy-scheduler/internal/domain/entity"
)

// ClassifyReply decides whether the model's reply is presenting appointment
// options, in which case the filtered list is attached to the response. This
// is a wording heuristic: replies that list slots without any trigger phrase
// are not detected.
func ClassifyReply(rules entity.SchedulingRules, reply string, filtered []entity.Appointment) (bool, []entity.Appointment) {
	if len(filtered) == 0 {
		return false, []entity.Appointment{}
	}

	lowerReply := strings.ToLower(reply)
	for _, trigger := range rules.ReplyTriggers {
		if strings.Contains(lowerReply, strings.ToLower(trigger)) {
			return true, filtered
		}
	}

	return false, []entity.Appointment{}
}
