package handler

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
)

// notificationFailuresHeader carries the number of confirmation emails that
// could not be delivered on an otherwise successful request.
const notificationFailuresHeader = "X-Notification-Failures"

type createTripRequest struct {
	Destination    string    `json:"destination" validate:"required,min=4"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required"`
	OwnerName      string    `json:"owner_name" validate:"required"`
	OwnerEmail     string    `json:"owner_email" validate:"required,email"`
	EmailsToInvite []string  `json:"emails_to_invite" validate:"dive,email"`
}

type updateTripRequest struct {
	Destination string    `json:"destination" validate:"required,min=4"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
}

type tripIDResponse struct {
	TripID uuid.UUID `json:"tripId"`
}

// TripResponse is the JSON shape of a trip.
type TripResponse struct {
	ID          uuid.UUID `json:"id"`
	Destination string    `json:"destination"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.svc.Trips.Create(r.Context(), domain.NewTrip{
		Destination:    body.Destination,
		StartsAt:       body.StartsAt,
		EndsAt:         body.EndsAt,
		OwnerName:      body.OwnerName,
		OwnerEmail:     body.OwnerEmail,
		EmailsToInvite: body.EmailsToInvite,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}

	s.reportDelivery(w, r, created.Trip.ID, created.Delivery)
	writeJSON(w, http.StatusCreated, tripIDResponse{TripID: created.Trip.ID})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	trip, err := s.svc.Trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body updateTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.svc.Trips.Update(r.Context(), domain.Trip{
		ID:          id,
		Destination: body.Destination,
		StartsAt:    body.StartsAt,
		EndsAt:      body.EndsAt,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripIDResponse{TripID: updated.ID})
}

// ConfirmTrip handles GET /trips/{tripId}/confirm.
// It is opened from an email, so success is a redirect to the trip page.
func (s *Server) ConfirmTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	res, err := s.svc.Trips.Confirm(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}

	s.reportDelivery(w, r, id, res.Delivery)
	http.Redirect(w, r, s.tripPage(id), http.StatusFound)
}

// reportDelivery logs undelivered emails and sets the failure header.
// It must run before the status line is written.
func (s *Server) reportDelivery(w http.ResponseWriter, r *http.Request, tripID uuid.UUID, report domain.DeliveryReport) {
	if report.OK() {
		return
	}
	w.Header().Set(notificationFailuresHeader, strconv.Itoa(len(report.Failed)))
	s.log.WarnContext(r.Context(), "notification delivery failed",
		"trip_id", tripID,
		"failed", report.FailedRecipients(),
		"sent", len(report.Sent),
		"error", report.Err(),
		"request_id", chimiddleware.GetReqID(r.Context()),
	)
}

func tripToResponse(t domain.Trip) TripResponse {
	return TripResponse{
		ID:          t.ID,
		Destination: t.Destination,
		StartsAt:    t.StartsAt,
		EndsAt:      t.EndsAt,
		IsConfirmed: t.IsConfirmed,
		CreatedAt:   t.CreatedAt,
	}
}
