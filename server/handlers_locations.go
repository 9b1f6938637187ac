package server

import (
	"net/http"
	"time"
)

// GetLocation implements GET /locations/{id} (spec §6).
func (t *Travels) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	loc, ok := t.store.LoadLocation(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, loc)
}

// CreateLocation implements POST /locations/new (spec §4.3.2).
func (t *Travels) CreateLocation(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := t.store.CreateLocation(body); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// UpdateLocation implements POST /locations/{id} (spec §4.3.5).
func (t *Travels) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := t.store.UpdateLocation(id, body); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// GetLocationAvg implements GET /locations/{id}/avg (spec §4.4.2).
func (t *Travels) GetLocationAvg(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	avg, exists, err := t.store.LocationAvgQuery(id, r.URL.RawQuery, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, avgResponse{Avg: rawAvg(avg)})
}
