package store

import (
	"context"
	"time"

	"github.com/MKhiriev/salon-desk/internal/kvstore"
	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/utils"
	"github.com/MKhiriev/salon-desk/models"
)

// professionalRepository is the KV-backed implementation of
// [ProfessionalRepository].
type professionalRepository struct {
	kv     kvstore.Client
	reader kvstore.BulkReader
	logger *logger.Logger
}

// NewProfessionalRepository constructs a [ProfessionalRepository] backed by
// the hosted key-value store.
func NewProfessionalRepository(kv kvstore.Client, reader kvstore.BulkReader, logger *logger.Logger) ProfessionalRepository {
	logger.Debug().Msg("creating professional repository")
	return &professionalRepository{
		kv:     kv,
		reader: reader,
		logger: logger,
	}
}

func (r *professionalRepository) FindByID(ctx context.Context, id string) (models.Professional, error) {
	return getRecord[models.Professional](ctx, r.kv, professionalKeyPrefix+id, ErrRecordNotFound)
}

func (r *professionalRepository) Create(ctx context.Context, professional models.Professional) (models.Professional, error) {
	if professional.ID == "" {
		professional.ID = utils.NewID()
	}
	if professional.CreatedAt.IsZero() {
		professional.CreatedAt = time.Now()
	}
	if professional.Status == "" {
		professional.Status = models.ProfessionalActive
	}

	if err := r.Save(ctx, professional); err != nil {
		return models.Professional{}, err
	}
	return professional, nil
}

func (r *professionalRepository) Save(ctx context.Context, professional models.Professional) error {
	professional.UpdatedAt = time.Now()
	return putRecord(ctx, r.kv, professionalKeyPrefix+professional.ID, professional)
}

func (r *professionalRepository) List(ctx context.Context) ([]models.Professional, int, error) {
	return listRecords[models.Professional](ctx, r.kv, r.reader, professionalKeyPrefix)
}
