// Package httpapi holds the JSON plumbing shared by the HTTP services:
// response encoding, error rendering, and request decoding.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agorahq/agora/go/internal/apperrors"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// WriteError renders err as a JSON error body. Application errors map to
// their HTTP status; anything unclassified is a 500, with the detail kept
// out of the body.
func WriteError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	msg := err.Error()
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Msg("unclassified error")
		msg = "internal server error"
	}
	WriteJSON(w, status, errorBody{Error: msg})
}

// Decode reads the request body as JSON into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.Validation, err, "invalid request body")
	}
	return nil
}

// PathUUID parses the named path segment as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, apperrors.New(apperrors.Validation, "invalid %s", name)
	}
	return id, nil
}
