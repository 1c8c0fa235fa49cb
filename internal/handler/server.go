// Package handler implements the HTTP handlers for the dispatch API.
// All handlers are methods on Server. They are split into files by resource
// (health.go, trip.go, assignment.go) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/schedule"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/service"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/spec"
)

// Dispatcher defines the business operations the handlers depend on.
// It is declared here, in the consumer package, so handler tests can inject
// a mock without touching the database or service layer.
type Dispatcher interface {
	CreateTrip(ctx context.Context, in service.TripInput) ([]domain.Trip, error)
	ImportLegacyTrip(ctx context.Context, lt service.LegacyTrip) (domain.Trip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListTrips(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) (service.TripPage, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, in service.TripInput) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
	TransitionStatus(ctx context.Context, id uuid.UUID, next domain.TripStatus) (domain.Trip, error)
	AssignDriver(ctx context.Context, tripID, driverID uuid.UUID, note string) (service.Assignment, error)
	ListAssignments(ctx context.Context, tripID uuid.UUID) ([]domain.TripAssignment, error)
	AvailableDrivers(ctx context.Context, tripID uuid.UUID) ([]schedule.DriverAvailability, error)
	ListMessages(ctx context.Context, tripID uuid.UUID) ([]domain.TripMessage, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	dispatch Dispatcher
	log      *slog.Logger
}

// NewServer constructs the Server. A nil logger falls back to slog.Default.
func NewServer(d Dispatcher, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{dispatch: d, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Mount registers every API route on r. Middleware is the caller's concern.
func (s *Server) Mount(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Post("/import", s.ImportTrip)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Post("/status", s.TransitionStatus)
			r.Get("/available-drivers", s.AvailableDrivers)
			r.Get("/assignments", s.ListAssignments)
			r.Post("/assignments", s.AssignDriver)
			r.Get("/messages", s.ListMessages)
		})
	})
}

// Handler returns a chi router with every API route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Mount(r)
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
