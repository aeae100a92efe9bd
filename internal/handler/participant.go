package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pkordes/planner/internal/domain"
)

type createInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type participantIDResponse struct {
	ParticipantID uuid.UUID `json:"participantId"`
}

// ParticipantResponse is the JSON shape of a participant.
// Name is null for invitees who have not given one.
type ParticipantResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        *string   `json:"name"`
	Email       string    `json:"email"`
	IsOwner     bool      `json:"is_owner"`
	IsConfirmed bool      `json:"is_confirmed"`
}

type participantListResponse struct {
	Participants []ParticipantResponse `json:"participants"`
}

// CreateInvite handles POST /trips/{tripId}/invites.
func (s *Server) CreateInvite(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body createInviteRequest
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := s.svc.Participants.Invite(r.Context(), tripID, body.Email)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}

	s.reportDelivery(w, r, tripID, res.Delivery)
	writeJSON(w, http.StatusCreated, participantIDResponse{ParticipantID: res.Participant.ID})
}

// ListParticipants handles GET /trips/{tripId}/participants.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	people, err := s.svc.Participants.ListByTripID(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, participantListResponse{
		Participants: lo.Map(people, func(p domain.Participant, _ int) ParticipantResponse {
			return participantToResponse(p)
		}),
	})
}

// GetParticipant handles GET /participants/{participantId}.
func (s *Server) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "participantId")
	if !ok {
		return
	}

	p, err := s.svc.Participants.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "participant")
		return
	}
	writeJSON(w, http.StatusOK, participantToResponse(p))
}

// ConfirmParticipant handles GET /participants/{participantId}/confirm.
// Like trip confirmation it is opened from an email and redirects.
func (s *Server) ConfirmParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "participantId")
	if !ok {
		return
	}

	p, err := s.svc.Participants.Confirm(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "participant")
		return
	}
	http.Redirect(w, r, s.tripPage(p.TripID), http.StatusFound)
}

func participantToResponse(p domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:          p.ID,
		Name:        lo.EmptyableToPtr(p.Name),
		Email:       p.Email,
		IsOwner:     p.IsOwner,
		IsConfirmed: p.IsConfirmed,
	}
}
