// Package handler implements the HTTP handlers for the plann.er API.
// All handlers are methods on Server. Methods are split into resource files
// (trip.go, activity.go, etc.) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in domain.NewTrip) (service.TripCreated, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Confirm(ctx context.Context, id uuid.UUID) (service.TripConfirmation, error)
}

// ActivityServicer defines the operations the activity handlers depend on.
type ActivityServicer interface {
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.DaySchedule, error)
}

// LinkServicer defines the operations the link handlers depend on.
type LinkServicer interface {
	Create(ctx context.Context, link domain.Link) (domain.Link, error)
	ListByTripIDPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Link, int64, error)
}

// ParticipantServicer defines the operations the participant handlers depend on.
type ParticipantServicer interface {
	Invite(ctx context.Context, tripID uuid.UUID, email string) (service.ParticipantInvited, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error)
}

// ExportServicer defines the operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// Services groups every business dependency of the Server.
// Any field may be nil in tests that do not exercise it.
type Services struct {
	Trips        TripServicer
	Activities   ActivityServicer
	Links        LinkServicer
	Participants ParticipantServicer
	Export       ExportServicer
}

// Server serves every API endpoint.
type Server struct {
	svc        Services
	webBaseURL string
	openAPI    []byte
	log        *slog.Logger
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger used for 5xx causes and delivery failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithOpenAPI sets the document served at GET /openapi.yaml.
func WithOpenAPI(doc []byte) Option {
	return func(s *Server) { s.openAPI = doc }
}

// NewServer constructs the Server. webBaseURL is where confirmation links
// redirect the browser after the flag is written.
func NewServer(svc Services, webBaseURL string, opts ...Option) *Server {
	s := &Server{
		svc:        svc,
		webBaseURL: strings.TrimRight(webBaseURL, "/"),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns a chi router with every endpoint registered.
// Cross-cutting middleware is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Get("/confirm", s.ConfirmTrip)

			r.Post("/activities", s.CreateActivity)
			r.Get("/activities", s.ListActivities)

			r.Post("/links", s.CreateLink)
			r.Get("/links", s.ListLinks)

			r.Post("/invites", s.CreateInvite)
			r.Get("/participants", s.ListParticipants)

			r.Get("/export", s.GetExport)
		})
	})

	r.Route("/participants/{participantId}", func(r chi.Router) {
		r.Get("/", s.GetParticipant)
		r.Get("/confirm", s.ConfirmParticipant)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	})

	return r
}

// tripPage is the frontend URL a confirmation link lands on.
func (s *Server) tripPage(tripID uuid.UUID) string {
	return s.webBaseURL + "/trips/" + tripID.String()
}
