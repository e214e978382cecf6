package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/salon-desk/internal/kvstore"
	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/utils"
	"github.com/MKhiriev/salon-desk/models"
)

// appointmentRepository is the KV-backed implementation of
// [AppointmentRepository].
type appointmentRepository struct {
	kv     kvstore.Client
	reader kvstore.BulkReader
	logger *logger.Logger

	// now is swapped out in tests to pin the timestamp-derived IDs.
	now func() time.Time
}

// NewAppointmentRepository constructs an [AppointmentRepository] backed by
// the hosted key-value store.
func NewAppointmentRepository(kv kvstore.Client, reader kvstore.BulkReader, logger *logger.Logger) AppointmentRepository {
	logger.Debug().Msg("creating appointment repository")
	return &appointmentRepository{
		kv:     kv,
		reader: reader,
		logger: logger,
		now:    time.Now,
	}
}

func (r *appointmentRepository) FindByID(ctx context.Context, id string) (models.Appointment, error) {
	return getRecord[models.Appointment](ctx, r.kv, appointmentKeyPrefix+id, ErrRecordNotFound)
}

// Create stores a new booking. Whatever status the caller set is discarded:
// every booking enters the pipeline as pendente and only staff move it
// onward. The ID combines the creation timestamp with a short random suffix
// so that two bookings landing in the same millisecond cannot collide.
func (r *appointmentRepository) Create(ctx context.Context, appointment models.Appointment) (models.Appointment, error) {
	createdAt := r.now()
	appointment.ID = fmt.Sprintf("%d-%s", createdAt.UnixMilli(), utils.ShortID())
	appointment.Status = models.StatusPendente
	appointment.CreatedAt = createdAt

	if err := r.Save(ctx, appointment); err != nil {
		return models.Appointment{}, err
	}
	return appointment, nil
}

func (r *appointmentRepository) Save(ctx context.Context, appointment models.Appointment) error {
	return putRecord(ctx, r.kv, appointmentKeyPrefix+appointment.ID, appointment)
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	return r.kv.Del(ctx, appointmentKeyPrefix+id)
}

func (r *appointmentRepository) List(ctx context.Context) ([]models.Appointment, int, error) {
	return listRecords[models.Appointment](ctx, r.kv, r.reader, appointmentKeyPrefix)
}
