package entity

// PatientInfo holds the contact details collected so far. Empty fields have
// not been provided yet.
type PatientInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Missing lists the contact fields still to be collected, in the order the
// assistant asks for them.
func (p PatientInfo) Missing() []string {
	missing := make([]string, 0, 3)
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Phone == "" {
		missing = append(missing, "phone")
	}
	if p.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

// Complete reports whether name, phone and email have all been provided.
func (p PatientInfo) Complete() bool {
	return len(p.Missing()) == 0
}

// ConversationState is the caller's record of booking progress. It is echoed
// into the prompt and never modified here.
type ConversationState struct {
	CurrentStep  string
	PatientInfo  PatientInfo
	SelectedDate *Appointment
}
