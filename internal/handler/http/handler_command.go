// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/salon-desk/internal/logger"
)

// commandResponse is the uniform success envelope of the store protocol.
type commandResponse struct {
	Result any `json:"result"`
}

// errorResponse is the envelope for protocol-level failures.
type errorResponse struct {
	Error string `json:"error"`
}

// command executes one store command. The request body is a JSON array whose
// first element names the command and the rest are its arguments:
//
//	["GET", "user:admin"]
//	["SET", "user:admin", "{...}"]
//	["DEL", "agendamento:1"]
//	["KEYS", "pagamento:*"]
//
// The response always carries a {"result": ...} envelope: the stored string
// (or null) for GET, "OK" for SET, the deletion count for DEL and the key
// list for KEYS.
func (h *Handler) command(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var command []string
	if err := json.NewDecoder(r.Body).Decode(&command); err != nil {
		log.Warn().Err(err).Msg("undecodable command body")
		writeError(w, http.StatusBadRequest, "command must be a JSON array of strings")
		return
	}
	if len(command) == 0 {
		writeError(w, http.StatusBadRequest, "empty command")
		return
	}

	name := strings.ToUpper(command[0])
	args := command[1:]
	ctx := r.Context()

	switch name {
	case "GET":
		if len(args) != 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: GET takes one key", ErrWrongArgumentCount))
			return
		}
		value, found, err := h.storage.Get(ctx, args[0])
		if err != nil {
			h.internalError(w, r, err)
			return
		}
		if !found {
			writeResult(w, nil)
			return
		}
		writeResult(w, value)

	case "SET":
		if len(args) != 2 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: SET takes a key and a value", ErrWrongArgumentCount))
			return
		}
		if err := h.storage.Set(ctx, args[0], args[1]); err != nil {
			h.internalError(w, r, err)
			return
		}
		writeResult(w, "OK")

	case "DEL":
		if len(args) != 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: DEL takes one key", ErrWrongArgumentCount))
			return
		}
		affected, err := h.storage.Del(ctx, args[0])
		if err != nil {
			h.internalError(w, r, err)
			return
		}
		writeResult(w, affected)

	case "KEYS":
		if len(args) != 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: KEYS takes one pattern", ErrWrongArgumentCount))
			return
		}
		keys, err := h.storage.Keys(ctx, args[0])
		if err != nil {
			h.internalError(w, r, err)
			return
		}
		if keys == nil {
			keys = []string{}
		}
		writeResult(w, keys)

	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: %s", ErrUnknownCommand, name))
	}
}

// ping is the unauthenticated liveness probe.
func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeResult(w, "PONG")
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromRequest(r).Err(err).Msg("storage operation failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(commandResponse{Result: result})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}
