package converter

import (
	"errors"
	"fmt"
	"time"

	"colonoscopy-scheduler/internal/delivery/dto"
	"colonoscopy-scheduler/internal/domain/entity"
)

var ErrInvalidDate = errors.New("invalid appointment date")

// Accepted appointment date layouts, tried in order. Browsers serialising a
// Date object send RFC 3339.
var dateLayouts = []string{entity.DateLayout, time.RFC3339}

// ParseAppointmentDate parses an appointment date sent by the chat client.
func ParseAppointmentDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// AppointmentFromDTO converts an AppointmentDTO to an Appointment entity
func AppointmentFromDTO(req *dto.AppointmentDTO) (*entity.Appointment, error) {
	if req == nil {
		return nil, nil
	}

	date, err := ParseAppointmentDate(req.Date)
	if err != nil {
		return nil, err
	}

	return &entity.Appointment{
		Date:    date,
		RawDate: req.Date,
		Period:  entity.Period(req.Period),
		Doctor:  req.Doctor,
	}, nil
}

// AppointmentsFromDTOs converts a slice of AppointmentDTOs, failing on the first invalid date
func AppointmentsFromDTOs(reqs []dto.AppointmentDTO) ([]entity.Appointment, error) {
	appointments := make([]entity.Appointment, 0, len(reqs))
	for i := range reqs {
		appointment, err := AppointmentFromDTO(&reqs[i])
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *appointment)
	}
	return appointments, nil
}

// AppointmentsToDTOs converts Appointment entities back to the wire format,
// echoing each date as the caller sent it
func AppointmentsToDTOs(appointments []entity.Appointment) []dto.AppointmentDTO {
	responses := make([]dto.AppointmentDTO, len(appointments))
	for i, appointment := range appointments {
		responses[i] = dto.AppointmentDTO{
			Date:   appointment.WireDate(),
			Period: string(appointment.Period),
			Doctor: appointment.Doctor,
		}
	}
	return responses
}

// ConversationStateFromDTO converts the request context to a ConversationState entity
func ConversationStateFromDTO(req *dto.ChatContext) (entity.ConversationState, error) {
	selected, err := AppointmentFromDTO(req.SelectedDate)
	if err != nil {
		return entity.ConversationState{}, err
	}

	return entity.ConversationState{
		CurrentStep: req.CurrentStep,
		PatientInfo: entity.PatientInfo{
			Name:  req.PatientInfo.Name,
			Phone: req.PatientInfo.Phone,
			Email: req.PatientInfo.Email,
		},
		SelectedDate: selected,
	}, nil
}
