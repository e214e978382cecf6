package store

import (
	"context"
	"time"

	"github.com/MKhiriev/salon-desk/internal/kvstore"
	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/utils"
	"github.com/MKhiriev/salon-desk/models"
)

// paymentRepository is the KV-backed implementation of [PaymentRepository].
type paymentRepository struct {
	kv     kvstore.Client
	reader kvstore.BulkReader
	logger *logger.Logger
}

// NewPaymentRepository constructs a [PaymentRepository] backed by the hosted
// key-value store.
func NewPaymentRepository(kv kvstore.Client, reader kvstore.BulkReader, logger *logger.Logger) PaymentRepository {
	logger.Debug().Msg("creating payment repository")
	return &paymentRepository{
		kv:     kv,
		reader: reader,
		logger: logger,
	}
}

func (r *paymentRepository) FindByID(ctx context.Context, id string) (models.Payment, error) {
	return getRecord[models.Payment](ctx, r.kv, paymentKeyPrefix+id, ErrRecordNotFound)
}

func (r *paymentRepository) Create(ctx context.Context, payment models.Payment) (models.Payment, error) {
	if payment.ID == "" {
		payment.ID = utils.NewID()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPendente
	}

	if err := r.Save(ctx, payment); err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

func (r *paymentRepository) Save(ctx context.Context, payment models.Payment) error {
	return putRecord(ctx, r.kv, paymentKeyPrefix+payment.ID, payment)
}

func (r *paymentRepository) List(ctx context.Context) ([]models.Payment, int, error) {
	return listRecords[models.Payment](ctx, r.kv, r.reader, paymentKeyPrefix)
}
