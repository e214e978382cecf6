// Package http implements the HTTP transport of the kvd daemon: the single
// command endpoint speaking the hosted store's REST protocol, plus the
// authentication, tracing and logging middleware in front of it.
package http

import (
	"github.com/MKhiriev/salon-desk/internal/logger"
	"github.com/MKhiriev/salon-desk/internal/store"
)

// Handler carries the dependencies of the kvd HTTP endpoints.
type Handler struct {
	storage store.KVStorage

	// token is the single accepted bearer token. kvd serves one salon; a
	// shared secret is the whole authentication story.
	token string

	logger *logger.Logger
}

// NewHandler constructs the kvd HTTP handler.
func NewHandler(storage store.KVStorage, token string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		storage: storage,
		token:   token,
		logger:  logger,
	}
}
