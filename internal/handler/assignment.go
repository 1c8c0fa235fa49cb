package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/schedule"
)

// AssignDriver handles POST /trips/{id}/assignments.
// A scheduling conflict does not block the assignment; it is returned as
// a warning next to the new assignment.
func (s *Server) AssignDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	var body AssignmentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := s.dispatch.AssignDriver(r.Context(), id, body.DriverId, deref(body.Notes))
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}

	out := AssignmentResult{
		Assignment: assignmentToResponse(res.Assignment),
		Trip:       tripToResponse(res.Trip),
	}
	if res.Warning != nil {
		out.Warning = &ConflictWarning{
			Message:       res.Warning.Message(),
			Count:         res.Warning.Count(),
			WindowMinutes: res.Warning.Window,
			TripIds:       res.Warning.TripIDs,
		}
	}
	writeJSON(w, http.StatusCreated, out)
}

// ListAssignments handles GET /trips/{id}/assignments.
func (s *Server) ListAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	list, err := s.dispatch.ListAssignments(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	data := make([]Assignment, len(list))
	for i, a := range list {
		data[i] = assignmentToResponse(a)
	}
	writeJSON(w, http.StatusOK, data)
}

// AvailableDrivers handles GET /trips/{id}/available-drivers.
func (s *Server) AvailableDrivers(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	list, err := s.dispatch.AvailableDrivers(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	data := make([]DriverAvailability, len(list))
	for i, a := range list {
		data[i] = availabilityToResponse(a)
	}
	writeJSON(w, http.StatusOK, data)
}

// ListMessages handles GET /trips/{id}/messages.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	list, err := s.dispatch.ListMessages(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	data := make([]Message, len(list))
	for i, m := range list {
		data[i] = Message{
			Id:        m.ID,
			TripId:    m.TripID,
			Sender:    m.Sender,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, data)
}

func assignmentToResponse(a domain.TripAssignment) Assignment {
	return Assignment{
		Id:         a.ID,
		TripId:     a.TripID,
		DriverId:   a.DriverID,
		AssignedAt: a.AssignedAt,
		Status:     string(a.Status),
		Notes:      a.Notes,
	}
}

func availabilityToResponse(a schedule.DriverAvailability) DriverAvailability {
	ids := make([]openapi_types.UUID, len(a.Conflicts))
	for i, t := range a.Conflicts {
		ids[i] = t.ID
	}
	return DriverAvailability{
		Driver: Driver{
			Id:    a.Driver.ID,
			Name:  a.Driver.Name,
			Phone: a.Driver.Phone,
		},
		IsAvailable:     a.IsAvailable,
		ConflictCount:   len(a.Conflicts),
		ConflictTripIds: ids,
	}
}
