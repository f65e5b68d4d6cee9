package entity

import (
	"errors"
	"fmt"
	"strings"
)

// DoctorKeyword maps a lower-case keyword found in a patient message to the
// canonical doctor name used in appointment data.
type DoctorKeyword struct {
	Keyword string `mapstructure:"keyword" json:"keyword"`
	Doctor  string `mapstructure:"doctor" json:"doctor"`
}

// SchedulingRules is the per-deployment text and keyword data used to filter
// appointments and to brief the model. Doctors is ordered: when a message
// names several doctors, the earliest entry wins.
type SchedulingRules struct {
	Persona       string          `mapstructure:"persona"`
	Rules         []string        `mapstructure:"rules"`
	Facility      string          `mapstructure:"facility"`
	Directives    []string        `mapstructure:"directives"`
	Flow          []string        `mapstructure:"flow"`
	Closing       string          `mapstructure:"closing"`
	Doctors       []DoctorKeyword `mapstructure:"doctors"`
	ReplyTriggers []string        `mapstructure:"reply_triggers"`
}

var ErrInvalidSchedulingRules = errors.New("invalid scheduling rules")

// Validate checks that the keyword tables can be used for matching.
func (r SchedulingRules) Validate() error {
	for i, d := range r.Doctors {
		if strings.TrimSpace(d.Keyword) == "" || strings.TrimSpace(d.Doctor) == "" {
			return fmt.Errorf("%w: doctor entry %d needs both keyword and doctor", ErrInvalidSchedulingRules, i)
		}
	}
	for i, t := range r.ReplyTriggers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: reply trigger %d is empty", ErrInvalidSchedulingRules, i)
		}
	}
	return nil
}

// DefaultSchedulingRules returns the rules for the hospital endoscopy unit.
func DefaultSchedulingRules() SchedulingRules {
	return SchedulingRules{
		Persona: "You are a friendly, professional colonoscopy scheduling assistant for a hospital.",
		Rules: []string{
			"Appointments must be scheduled at least 3 days in advance",
			"Dr. LeMieur: Monday/Wednesday/Friday AM (7:30-12:00), 25 mins per procedure, max 6 per block",
			"Dr. Loveitt: Monday PM/Thursday AM/Friday AM, 20 mins per procedure, max 10 per block",
			"Dr. Kelly: Tuesday PM/Wednesday PM/Friday PM (12:00-5:00), 20 mins per procedure, max 8 per block",
			"Dr. Roberts: Tuesday AM/Thursday PM/Friday PM, 15 mins per procedure, max 10 per block",
		},
		Directives: []string{
			"If the user asks for a specific doctor, month, or time preference, ONLY show appointments that match their request",
			"If user asks for September and there are September appointments in the filtered list, show them",
			"If the user has already provided their name, phone, and email, do NOT ask for this information again",
			"If they have selected an appointment and provided all info, offer to confirm the booking",
			"Be direct and helpful - don't repeat questions unnecessarily",
			"Never offer an appointment that is less than 3 days from today's date",
		},
		Flow: []string{
			"User asks for appointments → Show appropriate filtered appointments",
			"User selects appointment → Collect missing info (name, phone, email)",
			"All info collected → Offer confirmation",
			"User confirms → Appointment is booked",
		},
		Closing: "Be conversational but efficient. If the user has given you what you need, move to the next step.",
		Doctors: []DoctorKeyword{
			{Keyword: "kelly", Doctor: "Dr. Kelly"},
			{Keyword: "loveitt", Doctor: "Dr. Loveitt"},
			{Keyword: "lemieur", Doctor: "Dr. LeMieur"},
			{Keyword: "roberts", Doctor: "Dr. Roberts"},
		},
		ReplyTriggers: []string{"available", "appointments", "here are", "options"},
	}
}
