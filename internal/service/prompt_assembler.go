package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"colonoscopy-scheduler/internal/domain/entity"
)

// Sampling parameters sent with every completion request.
const (
	MaxCompletionTokens   = 500
	CompletionTemperature = float32(0.7)
)

// BuildSystemPrompt assembles the system message for one chat turn. Sections
// always appear in the same order; the facility section is left out when the
// deployment has none.
func BuildSystemPrompt(rules entity.SchedulingRules, filtered []entity.Appointment, state entity.ConversationState, now time.Time) string {
	var b strings.Builder

	b.WriteString(rules.Persona)
	b.WriteString("\n\n")

	b.WriteString("SCHEDULING RULES:\n")
	fmt.Fprintf(&b, "- Today's date: %s\n", now.Format("Monday, 2006-01-02"))
	for _, rule := range rules.Rules {
		fmt.Fprintf(&b, "- %s\n", rule)
	}

	if facility := strings.TrimSpace(rules.Facility); facility != "" {
		b.WriteString("\nABOUT THE FACILITY:\n")
		b.WriteString(facility)
		b.WriteString("\n")
	}

	b.WriteString("\nFILTERED AVAILABLE APPOINTMENTS BASED ON USER REQUEST:\n")
	b.WriteString(toJSON(filtered, true))
	b.WriteString("\n")

	b.WriteString("\nCURRENT CONVERSATION STATE:\n")
	fmt.Fprintf(&b, "- Booking step: %s\n", state.CurrentStep)
	fmt.Fprintf(&b, "- Patient info collected: %s\n", toJSON(state.PatientInfo, false))
	if state.PatientInfo.Complete() {
		b.WriteString("- Patient info still needed: none\n")
	} else {
		fmt.Fprintf(&b, "- Patient info still needed: %s\n", strings.Join(state.PatientInfo.Missing(), ", "))
	}
	fmt.Fprintf(&b, "- Selected appointment: %s\n", toJSON(state.SelectedDate, false))

	b.WriteString("\nIMPORTANT INSTRUCTIONS:\n")
	writeNumbered(&b, rules.Directives)

	b.WriteString("\nCONVERSATION FLOW:\n")
	writeNumbered(&b, rules.Flow)

	if rules.Closing != "" {
		b.WriteString("\n")
		b.WriteString(rules.Closing)
	}

	return b.String()
}

func writeNumbered(b *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
}

// toJSON never fails for the entity types passed here; the fallback keeps
// the prompt well formed if that changes.
func toJSON(v interface{}, indent bool) string {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "null"
	}
	return string(data)
}
