package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/notes"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/schedule"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/service"
)

const tripNotFound = "trip not found"

// CreateTrip handles POST /trips.
// A recurring request answers with every created occurrence.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.dispatch.CreateTrip(r.Context(), requestToInput(body))
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}

	data := make([]Trip, len(created))
	for i, t := range created {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusCreated, CreatedTrips{Data: data})
}

// ImportTrip handles POST /trips/import. Notes may carry a legacy status
// prefix, flight lines and a passenger list.
func (s *Server) ImportTrip(w http.ResponseWriter, r *http.Request) {
	var body ImportTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	lt := service.LegacyTrip{TripInput: requestToInput(body.TripRequest)}
	if body.Amount != nil {
		lt.Amount = *body.Amount
	}
	trip, err := s.dispatch.ImportLegacyTrip(r.Context(), lt)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= (defaults: page=1, limit=50, max=200) and the
// filters ?date=YYYY-MM-DD, ?driver_id= and ?status=.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := optionalInt(q.Get("page"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "page must be an integer"))
		return
	}
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "limit must be an integer"))
		return
	}

	var f domain.TripFilter
	if v := q.Get("date"); v != "" {
		d, err := time.Parse(domain.DateLayout, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "date must be YYYY-MM-DD"))
			return
		}
		f.Date = &d
	}
	if v := q.Get("driver_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "driver_id must be a UUID"))
			return
		}
		f.DriverID = &id
	}
	f.Status = domain.TripStatus(q.Get("status"))

	res, err := s.dispatch.ListTrips(r.Context(), f, domain.NewPaginationParams(page, limit))
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}

	data := make([]Trip, len(res.Trips))
	for i, t := range res.Trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  res.Page,
			Limit: res.Limit,
			Total: int(res.Total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	trip, err := s.dispatch.GetTrip(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}.
// The amount is never taken from the request; recurrence is ignored.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.dispatch.UpdateTrip(r.Context(), id, requestToInput(body))
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	if err := s.dispatch.DeleteTrip(r.Context(), id); err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransitionStatus handles POST /trips/{id}/status.
func (s *Server) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	var body StatusRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip, err := s.dispatch.TransitionStatus(r.Context(), id, domain.TripStatus(body.Status))
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// --- mapping helpers --------------------------------------------------------

// tripID parses the {id} path parameter, answering 400 when it is malformed.
func tripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "trip id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// requestToInput converts a TripRequest body into a service.TripInput.
// Field validation is left to the service.
func requestToInput(body TripRequest) service.TripInput {
	in := service.TripInput{
		Date:            body.Date.Time,
		StartTime:       body.StartTime,
		EndTime:         body.EndTime,
		ClientID:        body.ClientId,
		DriverID:        body.DriverId,
		VehicleID:       body.VehicleId,
		ServiceKind:     domain.ServiceKind(deref(body.ServiceKind)),
		Status:          domain.TripStatus(deref(body.Status)),
		PickupLocation:  deref(body.PickupLocation),
		DropoffLocation: deref(body.DropoffLocation),
		Notes:           deref(body.Notes),
		Passengers:      body.Passengers,
	}
	if body.Flight != nil {
		in.Flight = &domain.FlightInfo{
			Number:   deref(body.Flight.Flight),
			Airline:  deref(body.Flight.Airline),
			Terminal: deref(body.Flight.Terminal),
		}
	}
	if body.Recurrence != nil {
		in.IsRecurring = true
		in.Frequency = schedule.Frequency(body.Recurrence.Frequency)
		in.Occurrences = body.Recurrence.Occurrences
	}
	return in
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// tripToResponse converts a domain.Trip into its wire form.
func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		Id:              t.ID,
		Date:            openapi_types.Date{Time: t.Date},
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		ClientId:        t.ClientID,
		DriverId:        t.DriverID,
		VehicleId:       t.VehicleID,
		ServiceKind:     string(t.ServiceKind),
		Status:          string(t.Status),
		PickupLocation:  t.PickupLocation,
		DropoffLocation: t.DropoffLocation,
		Notes:           t.Notes,
		Passengers:      t.Passengers,
		Amount:          t.Amount,
		LegacyNotes: notes.Encode(notes.Annotated{
			Text:       t.Notes,
			Flight:     t.Flight,
			Passengers: t.Passengers,
		}),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if resp.Passengers == nil {
		resp.Passengers = []string{}
	}
	if t.Flight != nil {
		resp.Flight = &FlightDetails{
			Flight:   optional(t.Flight.Number),
			Airline:  optional(t.Flight.Airline),
			Terminal: optional(t.Flight.Terminal),
		}
	}
	return resp
}
