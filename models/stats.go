package models

// AppointmentStats is the dashboard aggregate computed over all appointment
// records matching the scan. Every invocation re-scans the store; nothing is
// cached between calls.
type AppointmentStats struct {
	// Total is the number of records that decoded successfully.
	Total int

	// Skipped counts records dropped due to fetch or parse failures.
	Skipped int

	// StatusCounts maps each observed status to its record count.
	StatusCounts map[string]int

	// PendingCount is the number of pendente bookings awaiting triage.
	PendingCount int

	// ApprovedCount is the number of aprovado bookings.
	ApprovedCount int

	// TotalRevenue sums ServicePrice over accepted bookings (aprovado,
	// agendado, confirmado, concluido). Pendente and cancelado records
	// contribute nothing.
	TotalRevenue float64

	// UniqueClients counts distinct clients, deduplicated by phone when
	// present and by name otherwise. A client who books once with a phone
	// and once without counts twice; a known imprecision carried over from
	// the original bookkeeping, not silently corrected here.
	UniqueClients int

	// Recent holds the newest bookings by CreatedAt descending. Records
	// without CreatedAt sort as oldest.
	Recent []Appointment
}

// PaymentStats aggregates payment records.
type PaymentStats struct {
	Total        int
	Skipped      int
	StatusCounts map[string]int

	// PaidTotal sums Valor over pago records.
	PaidTotal float64

	// PendingTotal sums Valor over pendente records.
	PendingTotal float64
}

// ProfessionalStats aggregates professional profiles.
type ProfessionalStats struct {
	Total          int
	Skipped        int
	ActiveCount    int
	CategoryCounts map[string]int
}

// UserStats aggregates user accounts for the staff screen.
type UserStats struct {
	Total       int
	Skipped     int
	ActiveCount int
	RoleCounts  map[Role]int
}
