package tui

import (
	"github.com/MKhiriev/salon-desk/models"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the login-flow router to another page. Payload, when
// non-nil, is replayed as the first message of the target page.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

type loginDoneMsg struct {
	result models.LoginResult
}

type passwordDoneMsg struct {
	result models.OpResult
}

type userCreatedMsg struct {
	result   models.OpResult
	username string
}

type statsLoadedMsg struct {
	appointments  models.AppointmentStats
	payments      models.PaymentStats
	professionals models.ProfessionalStats
	users         models.UserStats
}

type bookingsLoadedMsg struct {
	bookings []models.Appointment
	skipped  int
	err      error
}

type bookingSavedMsg struct {
	booking models.Appointment
	err     error
}

type statusChangedMsg struct {
	booking models.Appointment
	err     error
}

type bookingDeletedMsg struct {
	id  string
	err error
}

type paymentDoneMsg struct {
	payment models.Payment
	err     error
}

type scheduleLoadedMsg struct {
	bookings []models.Appointment
	err      error
}

type exportDoneMsg struct {
	path string
	err  error
}

type expiryTickMsg struct{}

// forcedChangeNotice switches the password screen into first-login mode,
// where backing out logs the user out instead of keeping the session.
type forcedChangeNotice struct{}

