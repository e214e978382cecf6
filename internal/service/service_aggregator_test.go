package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/mock"
	"github.com/MKhiriev/salon-desk/models"
)

func newTestAggregator(t *testing.T, ctrl *gomock.Controller) (
	Aggregator,
	*mock.MockAppointmentRepository,
	*mock.MockPaymentRepository,
	*mock.MockProfessionalRepository,
	*mock.MockUserRepository,
) {
	t.Helper()
	appointments := mock.NewMockAppointmentRepository(ctrl)
	payments := mock.NewMockPaymentRepository(ctrl)
	professionals := mock.NewMockProfessionalRepository(ctrl)
	users := mock.NewMockUserRepository(ctrl)

	agg := NewAggregator(appointments, payments, professionals, users, 2, logger.Nop())
	return agg, appointments, payments, professionals, users
}

// TestAppointmentStats_Reduction checks the dashboard arithmetic: one
// pendente at 80 and one aprovado at 150 yield one pending booking, one
// approved booking and 150 in revenue.
func TestAppointmentStats_Reduction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, appointments, _, _, _ := newTestAggregator(t, ctrl)
	appointments.EXPECT().List(gomock.Any()).Return([]models.Appointment{
		{ID: "1", ClientName: "Ana", Status: models.StatusPendente, ServicePrice: 80},
		{ID: "2", ClientName: "Bia", Status: models.StatusAprovado, ServicePrice: 150},
	}, 0, nil)

	stats := agg.AppointmentStats(context.Background())

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 1, stats.ApprovedCount)
	assert.Equal(t, 150.0, stats.TotalRevenue)
	assert.Equal(t, 2, stats.UniqueClients)
}

// TestAppointmentStatsFor_FiltersByProfessional verifies the narrowed
// aggregate only counts the given professional's bookings.
func TestAppointmentStatsFor_FiltersByProfessional(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, appointments, _, _, _ := newTestAggregator(t, ctrl)
	appointments.EXPECT().List(gomock.Any()).Return([]models.Appointment{
		{ID: "1", ClientName: "Ana", Status: models.StatusAgendado, ServicePrice: 100, ProfessionalID: "p1"},
		{ID: "2", ClientName: "Bia", Status: models.StatusAgendado, ServicePrice: 200, ProfessionalID: "p2"},
		{ID: "3", ClientName: "Carla", Status: models.StatusPendente, ServicePrice: 50, ProfessionalID: "p1"},
	}, 0, nil)

	stats := agg.AppointmentStatsFor(context.Background(), "p1")

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 100.0, stats.TotalRevenue)
	assert.Equal(t, 2, stats.UniqueClients)
}

// TestAppointmentStats_RevenueStatuses verifies which statuses earn.
func TestAppointmentStats_RevenueStatuses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, appointments, _, _, _ := newTestAggregator(t, ctrl)
	appointments.EXPECT().List(gomock.Any()).Return([]models.Appointment{
		{Status: models.StatusAgendado, ServicePrice: 10},
		{Status: models.StatusConfirmado, ServicePrice: 20},
		{Status: models.StatusConcluido, ServicePrice: 40},
		{Status: models.StatusAprovado, ServicePrice: 80},
		{Status: models.StatusPendente, ServicePrice: 1000},
		{Status: models.StatusCancelado, ServicePrice: 1000},
	}, 0, nil)

	stats := agg.AppointmentStats(context.Background())
	assert.Equal(t, 150.0, stats.TotalRevenue)
}

// TestAppointmentStats_ClientDedup verifies phone-first deduplication: two
// bookings sharing a phone are one client even under different names.
func TestAppointmentStats_ClientDedup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, appointments, _, _, _ := newTestAggregator(t, ctrl)
	appointments.EXPECT().List(gomock.Any()).Return([]models.Appointment{
		{ClientName: "Ana Paula", ClientPhone: "119999", Status: models.StatusPendente},
		{ClientName: "Ana P.", ClientPhone: "119999", Status: models.StatusConcluido},
		{ClientName: "Carla", Status: models.StatusPendente},
		{ClientName: "Carla", Status: models.StatusPendente},
	}, 0, nil)

	stats := agg.AppointmentStats(context.Background())
	assert.Equal(t, 2, stats.UniqueClients)
}

// TestAppointmentStats_RecentOrder verifies newest-first ordering, zero
// CreatedAt sorting last, and the configured limit.
func TestAppointmentStats_RecentOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	agg, appointments, _, _, _ := newTestAggregator(t, ctrl)
	appointments.EXPECT().List(gomock.Any()).Return([]models.Appointment{
		{ID: "old", CreatedAt: base},
		{ID: "undated"},
		{ID: "new", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", CreatedAt: base.Add(time.Hour)},
	}, 0, nil)

	stats := agg.AppointmentStats(context.Background())

	assert.Len(t, stats.Recent, 2)
	assert.Equal(t, "new", stats.Recent[0].ID)
	assert.Equal(t, "mid", stats.Recent[1].ID)
}

// TestAppointmentStats_ScanFailure verifies a failed KEYS scan produces an
// empty aggregate instead of an error.
func TestAppointmentStats_ScanFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, appointments, _, _, _ := newTestAggregator(t, ctrl)
	appointments.EXPECT().List(gomock.Any()).Return(nil, 0, errors.New("store down"))

	stats := agg.AppointmentStats(context.Background())

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.TotalRevenue)
	assert.Empty(t, stats.Recent)
	assert.NotNil(t, stats.StatusCounts)
}

func TestAppointmentStats_SkippedPropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, appointments, _, _, _ := newTestAggregator(t, ctrl)
	appointments.EXPECT().List(gomock.Any()).Return([]models.Appointment{{ID: "1"}}, 3, nil)

	stats := agg.AppointmentStats(context.Background())
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 1, stats.Total)
}

func TestPaymentStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, _, payments, _, _ := newTestAggregator(t, ctrl)
	payments.EXPECT().List(gomock.Any()).Return([]models.Payment{
		{Valor: 100, Status: models.PaymentPago},
		{Valor: 50, Status: models.PaymentPago},
		{Valor: 30, Status: models.PaymentPendente},
		{Valor: 999, Status: models.PaymentCancelado},
	}, 0, nil)

	stats := agg.PaymentStats(context.Background())

	assert.Equal(t, 150.0, stats.PaidTotal)
	assert.Equal(t, 30.0, stats.PendingTotal)
	assert.Equal(t, 4, stats.Total)
}

func TestProfessionalStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, _, _, professionals, _ := newTestAggregator(t, ctrl)
	professionals.EXPECT().List(gomock.Any()).Return([]models.Professional{
		{Name: "Paula", Status: models.ProfessionalActive, Category: "cabelo"},
		{Name: "Rita", Status: models.ProfessionalActive, Category: "unhas"},
		{Name: "Vera", Status: models.ProfessionalInactive, Category: "cabelo"},
	}, 0, nil)

	stats := agg.ProfessionalStats(context.Background())

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ActiveCount)
	assert.Equal(t, 2, stats.CategoryCounts["cabelo"])
}

func TestUserStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	agg, _, _, _, users := newTestAggregator(t, ctrl)
	users.EXPECT().List(gomock.Any()).Return([]models.User{
		{Username: "admin", Roles: []models.Role{models.RoleSuperAdmin}, Active: true},
		{Username: "paula", Roles: []models.Role{models.RoleProfissional}, Active: true},
		{Username: "velha", Roles: []models.Role{models.RoleAtendente}},
	}, 0, nil)

	stats := agg.UserStats(context.Background())

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ActiveCount)
	assert.Equal(t, 1, stats.RoleCounts[models.RoleProfissional])
}
