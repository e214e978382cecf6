// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "github.com/MKhiriev/salon-desk/models"

// Permission is a named capability checked before privileged operations.
type Permission string

const (
	PermManageStaff        Permission = "manage_staff"
	PermManageServices     Permission = "manage_services"
	PermManageClients      Permission = "manage_clients"
	PermManageQuotes       Permission = "manage_quotes"
	PermManagePayments     Permission = "manage_payments"
	PermManageAppointments Permission = "manage_appointments"
	PermViewReports        Permission = "view_reports"
	PermViewOwnSchedule    Permission = "view_own_schedule"
	PermExportData         Permission = "export_data"
)

// allPermissions enumerates every capability, granted wholesale to the
// all-access roles.
var allPermissions = []Permission{
	PermManageStaff,
	PermManageServices,
	PermManageClients,
	PermManageQuotes,
	PermManagePayments,
	PermManageAppointments,
	PermViewReports,
	PermViewOwnSchedule,
	PermExportData,
}

// rolePermissions is the static capability table for the non-master roles.
// The gerente runs the whole salon except staff accounts; the atendente
// works the front desk; the profissional only sees their own schedule.
var rolePermissions = map[models.Role][]Permission{
	models.RoleGerente: {
		PermManageServices,
		PermManageClients,
		PermManageQuotes,
		PermManagePayments,
		PermManageAppointments,
		PermViewReports,
		PermViewOwnSchedule,
		PermExportData,
	},
	models.RoleAtendente: {
		PermManageClients,
		PermManageQuotes,
		PermManageAppointments,
	},
	models.RoleProfissional: {
		PermViewOwnSchedule,
	},
}

// HasPermission reports whether the user holds perm through any of their
// roles. The master roles (proprietario, super_admin) hold everything.
func HasPermission(user models.User, perm Permission) bool {
	if user.IsMaster() {
		return true
	}

	roles := user.Roles
	if len(roles) == 0 && user.Role != "" {
		roles = []models.Role{user.Role}
	}

	for _, role := range roles {
		if role == models.RoleProprietario || role == models.RoleSuperAdmin {
			return true
		}
		for _, granted := range rolePermissions[role] {
			if granted == perm {
				return true
			}
		}
	}
	return false
}

// PermissionsFor returns the full capability set of the user, in the stable
// order of allPermissions.
func PermissionsFor(user models.User) []Permission {
	granted := make([]Permission, 0, len(allPermissions))
	for _, perm := range allPermissions {
		if HasPermission(user, perm) {
			granted = append(granted, perm)
		}
	}
	return granted
}

// CanViewSchedule reports whether the user may see the schedule of the given
// professional. Only the master roles and the gerente see every schedule; a
// profissional user sees the one linked to their account. The atendente works
// the bookings list and never the per-professional agenda.
func CanViewSchedule(user models.User, professionalID string) bool {
	if user.IsMaster() {
		return true
	}

	roles := user.Roles
	if len(roles) == 0 && user.Role != "" {
		roles = []models.Role{user.Role}
	}
	for _, role := range roles {
		switch role {
		case models.RoleProprietario, models.RoleSuperAdmin, models.RoleGerente:
			return true
		}
	}
	return HasPermission(user, PermViewOwnSchedule) && user.ProfessionalID == professionalID
}
