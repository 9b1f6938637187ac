package server

import "net/http"

// GetVisit implements GET /visits/{id} (spec §6).
func (t *Travels) GetVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	visit, ok := t.store.LoadVisit(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, visit)
}

// CreateVisit implements POST /visits/new (spec §4.3.3).
func (t *Travels) CreateVisit(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := t.store.CreateVisit(body); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// UpdateVisit implements POST /visits/{id} (spec §4.3.6).
func (t *Travels) UpdateVisit(w http.ResponseWriter, r *http.Request) {
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
	if err := t.store.UpdateVisit(id, body); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}
