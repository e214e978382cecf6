package models

import "time"

// Appointment statuses. New bookings always start in StatusPendente.
// StatusAprovado predates the five-state lifecycle and still occurs in
// stored records; aggregation treats it as an accepted booking.
const (
	StatusPendente   = "pendente"
	StatusAgendado   = "agendado"
	StatusConfirmado = "confirmado"
	StatusConcluido  = "concluido"
	StatusCancelado  = "cancelado"
	StatusAprovado   = "aprovado"
)

// appointmentTransitions enumerates the allowed status changes. Transitions
// are staff-driven; clients only ever create pendente bookings.
var appointmentTransitions = map[string][]string{
	StatusPendente:   {StatusAgendado, StatusAprovado, StatusCancelado},
	StatusAprovado:   {StatusAgendado, StatusConfirmado, StatusCancelado},
	StatusAgendado:   {StatusConfirmado, StatusCancelado},
	StatusConfirmado: {StatusConcluido, StatusCancelado},
}

// CanTransitionAppointment reports whether an appointment may move from one
// status to another. Terminal statuses (concluido, cancelado) allow nothing.
func CanTransitionAppointment(from, to string) bool {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Appointment is a booking request stored under "agendamento:{id}".
// The ID is derived from the creation timestamp.
type Appointment struct {
	ID          string `json:"id"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`

	// Service is the booked service name as entered in the booking form.
	Service string `json:"service"`

	// Date and Time are the requested slot, "2006-01-02" and "15:04".
	Date string `json:"date"`
	Time string `json:"time"`

	Status string `json:"status"`

	// ServicePrice in the salon's currency. Missing values decode as 0 and
	// contribute nothing to revenue sums.
	ServicePrice float64 `json:"servicePrice"`

	// ServiceDuration in minutes.
	ServiceDuration int `json:"serviceDuration,omitempty"`

	ProfessionalID string `json:"professionalId,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}
