package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/travels-app/travels/internal/store"
)

// writeJSON writes v as the success body (spec §6: always 200 on
// success, Content-Type/Server headers set by the Travels middleware).
func writeJSON(w http.ResponseWriter, v any) {
	w.WriteHeader(http.StatusOK)
	if v == nil {
		w.Write([]byte("{}"))
		return
	}
	json.NewEncoder(w).Encode(v)
}

// writeOK writes the empty-object body every successful POST returns
// (spec §6: "200 {}").
func writeOK(w http.ResponseWriter) {
	writeJSON(w, nil)
}

// writeError maps the store's sentinel error taxonomy (spec §7) to a
// status code with an always-empty body — unlike knotserver's XrpcError
// envelope, nothing about the failure is disclosed on the wire.
func writeError(w http.ResponseWriter, err error) {
	w.WriteHeader(statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrMalformed),
		errors.Is(err, store.ErrDuplicateID),
		errors.Is(err, store.ErrFKMissing),
		errors.Is(err, store.ErrBadQuery):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// rawAvg wraps a pre-formatted numeric literal so it's emitted
// unquoted inside {"avg":...} rather than as a JSON string.
type rawAvg string

func (r rawAvg) MarshalJSON() ([]byte, error) { return []byte(string(r)), nil }

type avgResponse struct {
	Avg rawAvg `json:"avg"`
}

type visitsResponse struct {
	Visits []store.VisitProjection `json:"visits"`
}
