package server

import "net/http"

// GetUser implements GET /users/{id} (spec §6).
func (t *Travels) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	user, ok := t.store.LoadUser(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, user)
}

// CreateUser implements POST /users/new (spec §4.3.1).
func (t *Travels) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := t.store.CreateUser(body); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// UpdateUser implements POST /users/{id} (spec §4.3.4).
func (t *Travels) UpdateUser(w http.ResponseWriter, r *http.Request) {
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
	if err := t.store.UpdateUser(id, body); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// GetUserVisits implements GET /users/{id}/visits (spec §4.4.1).
func (t *Travels) GetUserVisits(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	visits, exists, err := t.store.UserVisitsQuery(id, r.URL.RawQuery)
	if err != nil {
		writeError(w, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, visitsResponse{Visits: visits})
}
