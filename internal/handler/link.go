package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pkordes/planner/internal/domain"
)

type createLinkRequest struct {
	Title string `json:"title" validate:"required,min=4"`
	URL   string `json:"url" validate:"required,url"`
}

type linkIDResponse struct {
	LinkID uuid.UUID `json:"linkId"`
}

// LinkResponse is the JSON shape of a link.
type LinkResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	URL   string    `json:"url"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type linkListResponse struct {
	Data       []LinkResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// CreateLink handles POST /trips/{tripId}/links.
func (s *Server) CreateLink(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body createLinkRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.svc.Links.Create(r.Context(), domain.Link{TripID: tripID, Title: body.Title, URL: body.URL})
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, linkIDResponse{LinkID: created.ID})
}

// ListLinks handles GET /trips/{tripId}/links.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListLinks(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var page, limit *int
	if !queryParam(w, r, "page", &page) || !queryParam(w, r, "limit", &limit) {
		return
	}
	params := domain.NewPaginationParams(page, limit)

	links, total, err := s.svc.Links.ListByTripIDPaged(r.Context(), tripID, params)
	if err != nil {
		s.writeServiceError(w, r, err, "trip")
		return
	}

	writeJSON(w, http.StatusOK, linkListResponse{
		Data: lo.Map(links, func(l domain.Link, _ int) LinkResponse {
			return LinkResponse{ID: l.ID, Title: l.Title, URL: l.URL}
		}),
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}
