package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travels-app/travels/internal/store"
	tlog "github.com/travels-app/travels/log"
)

// Travels is the request dispatcher (C6): chi route table plus the
// store it dispatches against.
type Travels struct {
	store *store.Store
	l     *slog.Logger
}

// New wires a Travels dispatcher over an existing store.
func New(ctx context.Context, s *store.Store) *Travels {
	return &Travels{
		store: s,
		l:     tlog.FromContext(ctx),
	}
}

// Router builds the full HTTP surface from spec §6. Static routes
// ("/users/new") are registered alongside the id-bearing ones
// ("/users/{id}"); chi prefers the static match so POST ".../new" never
// reaches the id parser. Any other method on ".../new" falls through to
// the {id} route, where the non-numeric id yields 404.
func (t *Travels) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(t.RequestID)
	r.Use(t.RequestLogger)
	r.Use(t.TravelsHeaders)

	r.Route("/users", func(r chi.Router) {
		r.Post("/new", t.CreateUser)
		r.Get("/{id}", t.GetUser)
		r.Post("/{id}", t.UpdateUser)
		r.Get("/{id}/visits", t.GetUserVisits)
	})

	r.Route("/locations", func(r chi.Router) {
		r.Post("/new", t.CreateLocation)
		r.Get("/{id}", t.GetLocation)
		r.Post("/{id}", t.UpdateLocation)
		r.Get("/{id}/avg", t.GetLocationAvg)
	})

	r.Route("/visits", func(r chi.Router) {
		r.Post("/new", t.CreateVisit)
		r.Get("/{id}", t.GetVisit)
		r.Post("/{id}", t.UpdateVisit)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return r
}
