package dto

import "time"

// Request DTOs

type AppointmentDTO struct {
	Date   string `json:"date" validate:"required"` // Format: YYYY-MM-DD or RFC 3339
	Period string `json:"period" validate:"required,oneof=AM PM"`
	Doctor string `json:"doctor" validate:"required"`
}

type PatientInfoDTO struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type ChatContext struct {
	AvailableDates []AppointmentDTO `json:"availableDates" validate:"omitempty,dive"`
	CurrentStep    string           `json:"currentStep"`
	PatientInfo    PatientInfoDTO   `json:"patientInfo"`
	SelectedDate   *AppointmentDTO  `json:"selectedDate,omitempty" validate:"omitempty"`
}

type ChatRequest struct {
	Message string      `json:"message" validate:"required"`
	Context ChatContext `json:"context"`
}

// Response DTOs

type ChatResponse struct {
	Response         string           `json:"response"`
	Success          bool             `json:"success"`
	Timestamp        time.Time        `json:"timestamp"`
	ShowAppointments bool             `json:"showAppointments"`
	FilteredDates    []AppointmentDTO `json:"filteredDates"`
}

type HealthResponse struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
