package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// idFromRequest parses the {id} route param as an int32. A
// non-numeric id can't belong to any entity, so it's treated the same
// as "not found" (spec §4.6: "If nothing matched or the id was not
// found, return 404").
func idFromRequest(r *http.Request) (int32, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
