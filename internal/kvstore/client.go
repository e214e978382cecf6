// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package kvstore implements the client for the hosted key-value store that
// backs all salon-desk data.
//
// Every command is a single HTTPS POST to the store's base URL whose body is
// a JSON array — the command name followed by its arguments, e.g.
// ["GET", "user:admin"] — authorized with a bearer token. The store answers
// with a {"result": ...} envelope: the stored string for GET (null when the
// key is absent), "OK" for SET, a deletion count for DEL and an array of key
// names for KEYS.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

// Client executes commands against the key-value store. Values are opaque
// strings; callers store JSON documents in them.
type Client interface {
	// Get returns the value stored under key. ErrKeyNotFound is returned
	// when the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value string) error

	// Del removes key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error

	// Keys lists all keys matching pattern, e.g. "agendamento:*".
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// ClientConfig configures the HTTP client for the store.
type ClientConfig struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	RetryAttempts int
}

type httpClient struct {
	client  *resty.Client
	retries uint64
}

// NewHTTPClient builds a Client speaking the store's REST command protocol.
func NewHTTPClient(cfg ClientConfig) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+cfg.Token)

	return &httpClient{client: cli, retries: uint64(max(cfg.RetryAttempts, 0))}
}

// commandEnvelope is the store's uniform response shape.
type commandEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (h *httpClient) Get(ctx context.Context, key string) (string, error) {
	result, err := h.execute(ctx, "GET", key)
	if err != nil {
		return "", err
	}
	if string(result) == "null" {
		return "", fmt.Errorf("get %q: %w", key, ErrKeyNotFound)
	}

	var value string
	if err = json.Unmarshal(result, &value); err != nil {
		return "", fmt.Errorf("get %q: %w: %v", key, ErrMalformedResponse, err)
	}
	return value, nil
}

func (h *httpClient) Set(ctx context.Context, key string, value string) error {
	if _, err := h.execute(ctx, "SET", key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (h *httpClient) Del(ctx context.Context, key string) error {
	if _, err := h.execute(ctx, "DEL", key); err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	return nil
}

func (h *httpClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	result, err := h.execute(ctx, "KEYS", pattern)
	if err != nil {
		return nil, fmt.Errorf("keys %q: %w", pattern, err)
	}

	var keys []string
	if err = json.Unmarshal(result, &keys); err != nil {
		return nil, fmt.Errorf("keys %q: %w: %v", pattern, ErrMalformedResponse, err)
	}
	return keys, nil
}

// execute posts one command and decodes the result envelope. Transport
// failures and 5xx answers are retried with exponential backoff; 4xx answers
// are returned immediately.
func (h *httpClient) execute(ctx context.Context, command ...string) (json.RawMessage, error) {
	var result json.RawMessage

	backoff := retry.WithMaxRetries(h.retries, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := h.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(command).
			Post("/")
		if err != nil {
			return retry.RetryableError(fmt.Errorf("store request: %w", err))
		}

		if err = mapHTTPError(resp); err != nil {
			if resp.StatusCode() >= http.StatusInternalServerError {
				return retry.RetryableError(err)
			}
			return err
		}

		var envelope commandEnvelope
		if err = json.Unmarshal(resp.Body(), &envelope); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if envelope.Error != "" {
			return fmt.Errorf("store error: %s", envelope.Error)
		}

		result = envelope.Result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
