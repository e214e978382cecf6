// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sort"

	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/store"
	"github.com/MKhiriev/salon-desk/models"
)

// revenueStatuses are the accepted-booking statuses whose ServicePrice counts
// toward revenue. Pendente is a request, cancelado is a refusal; neither
// earns anything.
var revenueStatuses = map[string]bool{
	models.StatusAprovado:   true,
	models.StatusAgendado:   true,
	models.StatusConfirmado: true,
	models.StatusConcluido:  true,
}

// aggregator implements [Aggregator] by scanning a whole namespace and
// reducing it in memory on every call. The record counts at a single salon
// stay small enough that the simplicity beats any caching.
type aggregator struct {
	appointments  store.AppointmentRepository
	payments      store.PaymentRepository
	professionals store.ProfessionalRepository
	users         store.UserRepository
	logger        *logger.Logger

	recentLimit int
}

// NewAggregator constructs an [Aggregator]. recentLimit bounds the
// dashboard's recent-bookings list.
func NewAggregator(
	appointments store.AppointmentRepository,
	payments store.PaymentRepository,
	professionals store.ProfessionalRepository,
	users store.UserRepository,
	recentLimit int,
	log *logger.Logger,
) Aggregator {
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &aggregator{
		appointments:  appointments,
		payments:      payments,
		professionals: professionals,
		users:         users,
		logger:        log,
		recentLimit:   recentLimit,
	}
}

// AppointmentStats reduces all bookings into the dashboard aggregate. A
// failed scan logs and yields the zero aggregate; the dashboard shows zeros
// rather than an error page.
func (a *aggregator) AppointmentStats(ctx context.Context) models.AppointmentStats {
	return a.AppointmentStatsFor(ctx, "")
}

// AppointmentStatsFor is AppointmentStats narrowed to one professional's
// bookings. An empty professionalID aggregates everything.
func (a *aggregator) AppointmentStatsFor(ctx context.Context, professionalID string) models.AppointmentStats {
	stats := models.AppointmentStats{StatusCounts: make(map[string]int)}

	appointments, skipped, err := a.appointments.List(ctx)
	if err != nil {
		a.logger.Err(err).Msg("appointment stats: scan failed")
		return stats
	}
	if professionalID != "" {
		filtered := appointments[:0]
		for _, appointment := range appointments {
			if appointment.ProfessionalID == professionalID {
				filtered = append(filtered, appointment)
			}
		}
		appointments = filtered
	}
	stats.Skipped = skipped
	stats.Total = len(appointments)

	clients := make(map[string]struct{})
	for _, appointment := range appointments {
		stats.StatusCounts[appointment.Status]++

		if revenueStatuses[appointment.Status] {
			stats.TotalRevenue += appointment.ServicePrice
		}

		// Dedup by phone when present, by name otherwise. The same person
		// booking once with a phone and once without counts twice; the
		// original bookkeeping had this imprecision and reports depend on
		// its numbers.
		key := appointment.ClientPhone
		if key == "" {
			key = appointment.ClientName
		}
		if key != "" {
			clients[key] = struct{}{}
		}
	}
	stats.PendingCount = stats.StatusCounts[models.StatusPendente]
	stats.ApprovedCount = stats.StatusCounts[models.StatusAprovado]
	stats.UniqueClients = len(clients)
	stats.Recent = recentAppointments(appointments, a.recentLimit)

	return stats
}

func (a *aggregator) PaymentStats(ctx context.Context) models.PaymentStats {
	stats := models.PaymentStats{StatusCounts: make(map[string]int)}

	payments, skipped, err := a.payments.List(ctx)
	if err != nil {
		a.logger.Err(err).Msg("payment stats: scan failed")
		return stats
	}
	stats.Skipped = skipped
	stats.Total = len(payments)

	for _, payment := range payments {
		stats.StatusCounts[payment.Status]++
		switch payment.Status {
		case models.PaymentPago:
			stats.PaidTotal += payment.Valor
		case models.PaymentPendente:
			stats.PendingTotal += payment.Valor
		}
	}

	return stats
}

func (a *aggregator) ProfessionalStats(ctx context.Context) models.ProfessionalStats {
	stats := models.ProfessionalStats{CategoryCounts: make(map[string]int)}

	professionals, skipped, err := a.professionals.List(ctx)
	if err != nil {
		a.logger.Err(err).Msg("professional stats: scan failed")
		return stats
	}
	stats.Skipped = skipped
	stats.Total = len(professionals)

	for _, professional := range professionals {
		if professional.Status == models.ProfessionalActive {
			stats.ActiveCount++
		}
		if professional.Category != "" {
			stats.CategoryCounts[professional.Category]++
		}
	}

	return stats
}

func (a *aggregator) UserStats(ctx context.Context) models.UserStats {
	stats := models.UserStats{RoleCounts: make(map[models.Role]int)}

	users, skipped, err := a.users.List(ctx)
	if err != nil {
		a.logger.Err(err).Msg("user stats: scan failed")
		return stats
	}
	stats.Skipped = skipped
	stats.Total = len(users)

	for _, user := range users {
		if user.Active {
			stats.ActiveCount++
		}
		stats.RoleCounts[user.PrimaryRole()]++
	}

	return stats
}

// recentAppointments returns the newest limit bookings by CreatedAt.
// Records without a CreatedAt sort as oldest.
func recentAppointments(appointments []models.Appointment, limit int) []models.Appointment {
	recent := make([]models.Appointment, len(appointments))
	copy(recent, appointments)

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}
