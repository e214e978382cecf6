package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/salon-desk/internal/kvstore"
	"github.com/MKhiriev/salon-desk/internal/logger"
)

// Key namespaces shared with every front-end that ever wrote to the store.
const (
	userKeyPrefix         = "user:"
	professionalKeyPrefix = "profissional:"
	appointmentKeyPrefix  = "agendamento:"
	paymentKeyPrefix      = "pagamento:"
)

// getRecord fetches and decodes one JSON record. An absent key is reported
// as notFound so each repository keeps its own sentinel.
func getRecord[T any](ctx context.Context, kv kvstore.Client, key string, notFound error) (T, error) {
	var record T

	raw, err := kv.Get(ctx, key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return record, notFound
	}
	if err != nil {
		return record, fmt.Errorf("fetch %q: %w", key, err)
	}

	if err = json.Unmarshal([]byte(raw), &record); err != nil {
		return record, fmt.Errorf("decode %q: %w", key, err)
	}
	return record, nil
}

// putRecord serializes and stores one record under key, replacing whatever
// was there. Concurrent writers race as last-writer-wins; the store offers no
// compare-and-set, and the desk workflow tolerates the occasional overwrite.
func putRecord(ctx context.Context, kv kvstore.Client, key string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err = kv.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}

// listRecords scans one namespace: KEYS on the prefix, a bulk fetch of every
// key, then a per-record decode. Records that fail to fetch or decode are
// counted as skipped, never fatal; a failed scan is fatal because the caller
// cannot tell an empty namespace from a lost one.
func listRecords[T any](ctx context.Context, kv kvstore.Client, reader kvstore.BulkReader, prefix string) ([]T, int, error) {
	log := logger.FromContext(ctx)

	keys, err := kv.Keys(ctx, prefix+"*")
	if err != nil {
		return nil, 0, fmt.Errorf("scan %q: %w", prefix, err)
	}

	fetched, err := reader.BulkRead(ctx, keys)
	if err != nil {
		return nil, 0, fmt.Errorf("bulk read %q: %w", prefix, err)
	}
	skipped := len(keys) - len(fetched)

	records := make([]T, 0, len(fetched))
	for _, item := range fetched {
		var record T
		if err = json.Unmarshal([]byte(item.Value), &record); err != nil {
			log.Warn().Err(err).Str("key", item.Key).Msg("skipping undecodable record")
			skipped++
			continue
		}
		records = append(records, record)
	}

	return records, skipped, nil
}
