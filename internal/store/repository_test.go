package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/salon-desk/internal/kvstore"
	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/models"
)

// memoryKV is an in-memory stand-in for the hosted store.
type memoryKV struct {
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, kvstore.ErrKeyNotFound)
	}
	return value, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memoryKV) Del(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memoryKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	keys := make([]string, 0)
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func newUserRepo(kv *memoryKV) UserRepository {
	reader := kvstore.NewBulkReader(kv, kvstore.StrategySequential, 0, logger.Nop())
	return NewUserRepository(kv, reader, logger.Nop())
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := newUserRepo(newMemoryKV())

	created, err := repo.Create(context.Background(), models.User{
		Username: "admin",
		Name:     "Fabiane",
		Roles:    []models.Role{models.RoleSuperAdmin},
		Active:   true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "Fabiane", found.Name)
	assert.Equal(t, models.RoleSuperAdmin, found.Role, "legacy role field mirrors the list head")
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	repo := newUserRepo(newMemoryKV())

	_, err := repo.Create(context.Background(), models.User{Username: "admin"})
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), models.User{Username: "admin"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserRepository_FindMissing(t *testing.T) {
	repo := newUserRepo(newMemoryKV())

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

// TestUserRepository_LegacyRecordBackfill verifies that a record written by
// an older front-end (single role, no roles list) decodes with a seeded
// roles list.
func TestUserRepository_LegacyRecordBackfill(t *testing.T) {
	kv := newMemoryKV()
	kv.values["user:legado"] = `{"username":"legado","role":"gerente","password":"x","active":true}`

	found, err := newUserRepo(kv).FindByUsername(context.Background(), "legado")
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleGerente}, found.Roles)
}

// TestUserRepository_SaveStripsProfessional verifies the merged profile is
// never embedded in the persisted account record.
func TestUserRepository_SaveStripsProfessional(t *testing.T) {
	kv := newMemoryKV()
	repo := newUserRepo(kv)

	user := models.User{
		Username:     "paula",
		Roles:        []models.Role{models.RoleProfissional},
		Professional: &models.Professional{ID: "p1", Name: "Paula"},
	}
	require.NoError(t, repo.Save(context.Background(), user))

	assert.NotContains(t, kv.values["user:paula"], `"professional"`)
}

func TestUserRepository_ListSkipsUndecodable(t *testing.T) {
	kv := newMemoryKV()
	kv.values["user:a"] = `{"username":"a","active":true}`
	kv.values["user:broken"] = `{{{`

	users, skipped, err := newUserRepo(kv).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, skipped)
}

func TestAppointmentRepository_CreateForcesPendente(t *testing.T) {
	kv := newMemoryKV()
	reader := kvstore.NewBulkReader(kv, kvstore.StrategySequential, 0, logger.Nop())
	repo := NewAppointmentRepository(kv, reader, logger.Nop()).(*appointmentRepository)

	created := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return created }

	appointment, err := repo.Create(context.Background(), models.Appointment{
		ClientName: "Ana",
		Service:    "corte",
		Status:     models.StatusConcluido, // must be ignored
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPendente, appointment.Status)
	assert.True(t, strings.HasPrefix(appointment.ID, fmt.Sprintf("%d-", created.UnixMilli())))
	assert.Equal(t, created, appointment.CreatedAt)

	var stored models.Appointment
	require.NoError(t, json.Unmarshal([]byte(kv.values["agendamento:"+appointment.ID]), &stored))
	assert.Equal(t, models.StatusPendente, stored.Status)
}

func TestAppointmentRepository_Delete(t *testing.T) {
	kv := newMemoryKV()
	reader := kvstore.NewBulkReader(kv, kvstore.StrategySequential, 0, logger.Nop())
	repo := NewAppointmentRepository(kv, reader, logger.Nop())

	appointment, err := repo.Create(context.Background(), models.Appointment{
		ClientName: "Ana",
		Service:    "corte",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), appointment.ID))

	_, err = repo.FindByID(context.Background(), appointment.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.NoError(t, repo.Delete(context.Background(), "nunca-existiu"), "absent id is a no-op")
}

func TestPaymentRepository_CreateDefaults(t *testing.T) {
	kv := newMemoryKV()
	reader := kvstore.NewBulkReader(kv, kvstore.StrategySequential, 0, logger.Nop())
	repo := NewPaymentRepository(kv, reader, logger.Nop())

	payment, err := repo.Create(context.Background(), models.Payment{
		Cliente: models.PaymentClient{Nome: "Ana", Telefone: "11999990000"},
		Valor:   120,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, models.PaymentPendente, payment.Status)
}

func TestProfessionalRepository_RoundTrip(t *testing.T) {
	kv := newMemoryKV()
	reader := kvstore.NewBulkReader(kv, kvstore.StrategySequential, 0, logger.Nop())
	repo := NewProfessionalRepository(kv, reader, logger.Nop())

	created, err := repo.Create(context.Background(), models.Professional{Name: "Paula", Category: "cabelo"})
	require.NoError(t, err)
	assert.Equal(t, models.ProfessionalActive, created.Status)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paula", found.Name)

	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
