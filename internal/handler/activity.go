package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pkordes/planner/internal/domain"
)

type createActivityRequest struct {
	Title    string    `json:"title" validate:"required,min=4"`
	OccursAt time.Time `json:"occurs_at" validate:"required"`
}

type activityIDResponse struct {
	ActivityID uuid.UUID `json:"activityId"`
}

// ActivityResponse is the JSON shape of an activity.
type ActivityResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	OccursAt time.Time `json:"occurs_at"`
}

// DayResponse is one calendar day of a trip with its activities.
type DayResponse struct {
	Date       string             `json:"date"`
	Activities []ActivityResponse `json:"activities"`
}

// CreateActivity handles POST /trips/{tripId}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body createActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.svc.Activities.Create(r.Context(), domain.Activity{
		TripID:   tripID,
		Title:    body.Title,
		OccursAt: body.OccursAt,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, activityIDResponse{ActivityID: created.ID})
}

// ListActivities handles GET /trips/{tripId}/activities.
// The body is a bare array with one entry per day of the trip.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	days, err := s.svc.Activities.ListByDay(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(days, func(d domain.DaySchedule, _ int) DayResponse {
		return DayResponse{
			Date: d.Date.Format(time.DateOnly),
			Activities: lo.Map(d.Activities, func(a domain.Activity, _ int) ActivityResponse {
				return ActivityResponse{ID: a.ID, Title: a.Title, OccursAt: a.OccursAt}
			}),
		}
	}))
}
