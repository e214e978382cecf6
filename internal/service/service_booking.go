package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/store"
	"github.com/MKhiriev/salon-desk/models"
)

// bookingService implements [BookingService].
type bookingService struct {
	appointments store.AppointmentRepository
	payments     store.PaymentRepository
	logger       *logger.Logger

	now clock
}

// NewBookingService constructs a [BookingService].
func NewBookingService(appointments store.AppointmentRepository, payments store.PaymentRepository, log *logger.Logger) BookingService {
	return &bookingService{
		appointments: appointments,
		payments:     payments,
		logger:       log,
		now:          time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor models.User, appointment models.Appointment) (models.Appointment, error) {
	if !HasPermission(actor, PermManageAppointments) {
		return models.Appointment{}, ErrPermissionDenied
	}

	appointment.ClientName = strings.TrimSpace(appointment.ClientName)
	if appointment.ClientName == "" || appointment.Service == "" {
		return models.Appointment{}, fmt.Errorf("booking needs a client name and a service")
	}

	created, err := s.appointments.Create(ctx, appointment)
	if err != nil {
		return models.Appointment{}, err
	}

	s.logger.Info().Str("id", created.ID).Str("client", created.ClientName).
		Str("by", actor.Username).Msg("booking created")
	return created, nil
}

// UpdateStatus moves a booking along the lifecycle. Illegal moves (reviving
// a cancelado, skipping straight to concluido) return ErrInvalidTransition
// with the record untouched.
func (s *bookingService) UpdateStatus(ctx context.Context, actor models.User, id, to string) (models.Appointment, error) {
	if !HasPermission(actor, PermManageAppointments) {
		return models.Appointment{}, ErrPermissionDenied
	}

	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}

	if !models.CanTransitionAppointment(appointment.Status, to) {
		return models.Appointment{}, fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, appointment.Status, to)
	}

	from := appointment.Status
	appointment.Status = to
	if err = s.appointments.Save(ctx, appointment); err != nil {
		return models.Appointment{}, err
	}

	s.logger.Info().Str("id", id).Str("from", from).Str("to", to).
		Str("by", actor.Username).Msg("booking status changed")
	return appointment, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, actor models.User, id string) error {
	if !HasPermission(actor, PermManageAppointments) {
		return ErrPermissionDenied
	}

	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("id", id).Str("by", actor.Username).Msg("booking deleted")
	return nil
}

func (s *bookingService) ListBookings(ctx context.Context) ([]models.Appointment, int, error) {
	appointments, skipped, err := s.appointments.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].CreatedAt.After(appointments[j].CreatedAt)
	})
	return appointments, skipped, nil
}

func (s *bookingService) ScheduleFor(ctx context.Context, actor models.User, professionalID string) ([]models.Appointment, error) {
	if !CanViewSchedule(actor, professionalID) {
		return nil, ErrPermissionDenied
	}

	appointments, _, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}

	schedule := make([]models.Appointment, 0)
	for _, appointment := range appointments {
		if appointment.ProfessionalID == professionalID && appointment.Status != models.StatusCancelado {
			schedule = append(schedule, appointment)
		}
	}

	sort.SliceStable(schedule, func(i, j int) bool {
		if schedule[i].Date != schedule[j].Date {
			return schedule[i].Date < schedule[j].Date
		}
		return schedule[i].Time < schedule[j].Time
	})
	return schedule, nil
}

// RegisterPayment books the money side of an accepted appointment: a pago
// payment record carrying the booking's client and price.
func (s *bookingService) RegisterPayment(ctx context.Context, actor models.User, appointmentID, method string) (models.Payment, error) {
	if !HasPermission(actor, PermManagePayments) {
		return models.Payment{}, ErrPermissionDenied
	}

	appointment, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return models.Payment{}, err
	}

	if !revenueStatuses[appointment.Status] {
		return models.Payment{}, fmt.Errorf("%w: status %s", ErrBookingNotPayable, appointment.Status)
	}

	payment, err := s.payments.Create(ctx, models.Payment{
		Cliente: models.PaymentClient{
			Nome:     appointment.ClientName,
			Telefone: appointment.ClientPhone,
		},
		Valor:           appointment.ServicePrice,
		MetodoPagamento: method,
		Status:          models.PaymentPago,
		DataPagamento:   s.now(),
		AgendamentoID:   appointment.ID,
	})
	if err != nil {
		return models.Payment{}, err
	}

	s.logger.Info().Str("paymentId", payment.ID).Str("appointmentId", appointment.ID).
		Str("by", actor.Username).Msg("payment registered")
	return payment, nil
}

// MarkPaymentPaid settles a pendente payment.
func (s *bookingService) MarkPaymentPaid(ctx context.Context, actor models.User, paymentID string) (models.Payment, error) {
	if !HasPermission(actor, PermManagePayments) {
		return models.Payment{}, ErrPermissionDenied
	}

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	if payment.Status != models.PaymentPendente {
		return models.Payment{}, fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, payment.Status, models.PaymentPago)
	}

	payment.Status = models.PaymentPago
	payment.DataPagamento = s.now()
	if err = s.payments.Save(ctx, payment); err != nil {
		return models.Payment{}, err
	}

	s.logger.Info().Str("paymentId", payment.ID).Str("by", actor.Username).Msg("payment marked paid")
	return payment, nil
}

// CancelPayment voids a payment. Cancelado is terminal; a cancelled payment
// cannot be cancelled again.
func (s *bookingService) CancelPayment(ctx context.Context, actor models.User, paymentID string) (models.Payment, error) {
	if !HasPermission(actor, PermManagePayments) {
		return models.Payment{}, ErrPermissionDenied
	}

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	if payment.Status == models.PaymentCancelado {
		return models.Payment{}, fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, payment.Status, models.PaymentCancelado)
	}

	payment.Status = models.PaymentCancelado
	if err = s.payments.Save(ctx, payment); err != nil {
		return models.Payment{}, err
	}

	s.logger.Info().Str("paymentId", payment.ID).Str("by", actor.Username).Msg("payment cancelled")
	return payment, nil
}
