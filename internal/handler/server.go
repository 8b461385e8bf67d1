// Package handler implements the HTTP handlers for the stepsync API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, ...) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/stepsync/internal/domain"
	"github.com/pkordes/stepsync/internal/middleware"
)

// maxUploadBody bounds POST bodies; the only one carries a location id.
const maxUploadBody = 1 << 10

// TripServicer defines the business operations the trip handlers depend on.
// *service.TripService implements it.
type TripServicer interface {
	Trip(ctx context.Context) (domain.Trip, error)
	Steps(ctx context.Context) ([]domain.Step, error)
	Step(ctx context.Context, id string) (domain.Step, error)
	Locations(ctx context.Context) ([]domain.Location, error)
	UploadStep(ctx context.Context, stepID string, locationID int64) error
}

// Server serves the API endpoints.
type Server struct {
	trips TripServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer) *Server {
	return &Server{trips: trips}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil)
}

// Routes returns the chi router for all endpoints. Cross-cutting middleware
// (request ids, logging, CORS) is added by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trip", func(r chi.Router) {
		r.Get("/", s.GetTrip)
		r.Get("/steps", s.ListSteps)
		r.Get("/steps/{stepID}", s.GetStep)
		r.With(middleware.NewMaxBodySizeHandler(maxUploadBody)).
			Post("/steps/{stepID}/upload", s.UploadStep)
	})
	r.Get("/locations", s.ListLocations)
	return r
}
