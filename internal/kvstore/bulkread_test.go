package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/salon-desk/internal/logger"
)

// fakeClient serves Get from an in-memory map and counts concurrent callers.
type fakeClient struct {
	mu     sync.Mutex
	values map[string]string
	failOn map[string]error

	inFlight    int
	maxInFlight int
}

func (f *fakeClient) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if err, ok := f.failOn[key]; ok {
		return "", err
	}
	value, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, ErrKeyNotFound)
	}
	return value, nil
}

func (f *fakeClient) Set(ctx context.Context, key, value string) error { return nil }
func (f *fakeClient) Del(ctx context.Context, key string) error        { return nil }
func (f *fakeClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	return nil, nil
}

func TestSequentialBulkRead_PreservesOrderAndSkipsFailures(t *testing.T) {
	client := &fakeClient{
		values: map[string]string{
			"agendamento:1": "a",
			"agendamento:3": "c",
		},
		failOn: map[string]error{
			"agendamento:2": errors.New("transport down"),
		},
	}
	reader := NewBulkReader(client, StrategySequential, 0, logger.Nop())

	records, err := reader.BulkRead(context.Background(), []string{
		"agendamento:1", "agendamento:2", "agendamento:3", "agendamento:4",
	})
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{Key: "agendamento:1", Value: "a"},
		{Key: "agendamento:3", Value: "c"},
	}, records)
}

func TestParallelBulkRead_PreservesOrder(t *testing.T) {
	values := make(map[string]string)
	keys := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("pagamento:%d", i)
		keys = append(keys, key)
		values[key] = fmt.Sprintf("v%d", i)
	}
	client := &fakeClient{values: values}
	reader := NewBulkReader(client, StrategyParallel, 4, logger.Nop())

	records, err := reader.BulkRead(context.Background(), keys)
	require.NoError(t, err)

	require.Len(t, records, 20)
	for i, record := range records {
		assert.Equal(t, keys[i], record.Key)
		assert.Equal(t, values[keys[i]], record.Value)
	}
	assert.LessOrEqual(t, client.maxInFlight, 4)
}

func TestParallelBulkRead_SkipsMissingKeys(t *testing.T) {
	client := &fakeClient{values: map[string]string{"user:admin": "a"}}
	reader := NewBulkReader(client, StrategyParallel, 2, logger.Nop())

	records, err := reader.BulkRead(context.Background(), []string{"user:admin", "user:ghost"})
	require.NoError(t, err)
	assert.Equal(t, []Record{{Key: "user:admin", Value: "a"}}, records)
}

func TestSequentialBulkRead_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewBulkReader(&fakeClient{}, StrategySequential, 0, logger.Nop())
	_, err := reader.BulkRead(ctx, []string{"user:admin"})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestNewBulkReader_UnknownStrategy verifies the fallback to sequential.
func TestNewBulkReader_UnknownStrategy(t *testing.T) {
	reader := NewBulkReader(&fakeClient{}, "bursty", 0, logger.Nop())
	_, ok := reader.(*sequentialReader)
	assert.True(t, ok)
}
