// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package kvstore

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/salon-desk/internal/logger"
)

// Record is one key together with the raw value fetched for it.
type Record struct {
	Key   string
	Value string
}

// BulkReader fetches the values of many keys. A key whose fetch fails (or
// that disappeared between a KEYS scan and its GET) is skipped with a log
// entry rather than failing the whole read; the returned records preserve the
// order of the requested keys.
type BulkReader interface {
	BulkRead(ctx context.Context, keys []string) ([]Record, error)
}

// BulkRead strategies.
const (
	StrategySequential = "sequential"
	StrategyParallel   = "parallel"
)

// NewBulkReader selects a BulkReader implementation by strategy name.
// Unknown names fall back to the sequential reader.
func NewBulkReader(client Client, strategy string, workers int, log *logger.Logger) BulkReader {
	if strategy == StrategyParallel {
		if workers <= 0 {
			workers = 4
		}
		return &parallelReader{client: client, workers: workers, log: log}
	}
	return &sequentialReader{client: client, log: log}
}

// sequentialReader issues one GET at a time. This is the default: it matches
// the issuance pattern the hosted store's rate limiting is calibrated for.
type sequentialReader struct {
	client Client
	log    *logger.Logger
}

func (r *sequentialReader) BulkRead(ctx context.Context, keys []string) ([]Record, error) {
	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		value, err := r.client.Get(ctx, key)
		if err != nil {
			r.logSkip(key, err)
			continue
		}
		records = append(records, Record{Key: key, Value: value})
	}
	return records, nil
}

func (r *sequentialReader) logSkip(key string, err error) {
	event := r.log.Warn()
	if errors.Is(err, ErrKeyNotFound) {
		event = r.log.Debug()
	}
	event.Err(err).Str("key", key).Msg("bulk read: skipping key")
}

// parallelReader fans the GETs out over a bounded worker pool and reassembles
// the results in request order.
type parallelReader struct {
	client  Client
	workers int
	log     *logger.Logger
}

func (r *parallelReader) BulkRead(ctx context.Context, keys []string) ([]Record, error) {
	values := make([]*string, len(keys))

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)
	for i, key := range keys {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, key string) {
			defer wg.Done()
			defer func() { <-sem }()

			value, err := r.client.Get(ctx, key)
			if err != nil {
				event := r.log.Warn()
				if errors.Is(err, ErrKeyNotFound) {
					event = r.log.Debug()
				}
				event.Err(err).Str("key", key).Msg("bulk read: skipping key")
				return
			}
			values[i] = &value
		}(i, key)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(keys))
	for i, value := range values {
		if value != nil {
			records = append(records, Record{Key: keys[i], Value: *value})
		}
	}
	return records, nil
}
