// Package service contains the business logic for the plann.er API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pkordes/planner/internal/clock"
	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/repo"
)

// Notifier sends the confirmation emails that follow trip writes.
// Implementations report per-recipient outcomes instead of failing.
type Notifier interface {
	TripCreated(ctx context.Context, trip domain.Trip, owner domain.Participant) domain.DeliveryReport
	ParticipantsInvited(ctx context.Context, trip domain.Trip, participants []domain.Participant) domain.DeliveryReport
}

// TripCreated is the outcome of TripService.Create.
type TripCreated struct {
	Trip         domain.Trip
	Participants []domain.Participant
	Delivery     domain.DeliveryReport
}

// TripConfirmation is the outcome of TripService.Confirm.
// AlreadyConfirmed is true when nothing changed and no email was sent.
type TripConfirmation struct {
	Trip             domain.Trip
	AlreadyConfirmed bool
	Delivery         domain.DeliveryReport
}

// TripService implements business logic for Trip operations.
type TripService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notifier     Notifier
	clock        clock.Clock
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, participants repo.ParticipantRepo, notifier Notifier, clk clock.Clock) *TripService {
	return &TripService{trips: trips, participants: participants, notifier: notifier, clock: clk}
}

// Create validates the request, writes the trip with its owner and invitees
// in one go, and emails the owner a confirmation link.
// Returns domain.ErrValidation if the dates or destination are invalid.
// A failed email is reported in TripCreated.Delivery, not as an error.
func (s *TripService) Create(ctx context.Context, in domain.NewTrip) (TripCreated, error) {
	if err := s.validateSchedule(in.Destination, in.StartsAt, in.EndsAt); err != nil {
		return TripCreated{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	owner := domain.Participant{
		Name:        strings.TrimSpace(in.OwnerName),
		Email:       normalizeEmail(in.OwnerEmail),
		IsOwner:     true,
		IsConfirmed: true,
	}
	guests := lo.Map(in.EmailsToInvite, func(email string, _ int) domain.Participant {
		return domain.Participant{Email: normalizeEmail(email)}
	})

	trip := domain.Trip{
		Destination: strings.TrimSpace(in.Destination),
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      in.EndsAt.UTC(),
	}

	created, people, err := s.trips.Create(ctx, trip, append([]domain.Participant{owner}, guests...))
	if err != nil {
		return TripCreated{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	if stored, ok := lo.Find(people, func(p domain.Participant) bool { return p.IsOwner }); ok {
		owner = stored
	}
	report := s.notifier.TripCreated(ctx, created, owner)

	return TripCreated{Trip: created, Participants: people, Delivery: report}, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if it does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Update changes destination and dates under the same rules as Create.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := s.validateSchedule(trip.Destination, trip.StartsAt, trip.EndsAt); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trip.Destination = strings.TrimSpace(trip.Destination)
	trip.StartsAt = trip.StartsAt.UTC()
	trip.EndsAt = trip.EndsAt.UTC()

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Confirm marks the trip confirmed and invites every non-owner participant.
// Confirming an already confirmed trip changes nothing and sends nothing.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Confirm(ctx context.Context, id uuid.UUID) (TripConfirmation, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return TripConfirmation{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	if trip.IsConfirmed {
		return TripConfirmation{Trip: trip, AlreadyConfirmed: true}, nil
	}

	flipped, err := s.trips.Confirm(ctx, id)
	if err != nil {
		return TripConfirmation{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	trip.IsConfirmed = true
	if !flipped {
		// A concurrent request confirmed it first and owns the invitations.
		return TripConfirmation{Trip: trip, AlreadyConfirmed: true}, nil
	}

	guests, err := s.participants.ListByTripID(ctx, id, domain.GuestsOnly)
	if err != nil {
		return TripConfirmation{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}

	report := s.notifier.ParticipantsInvited(ctx, trip, guests)
	return TripConfirmation{Trip: trip, Delivery: report}, nil
}

// validateSchedule enforces the rules shared by Create and Update:
//   - Destination must be non-empty (whitespace-only is rejected).
//   - StartsAt must not be in the past.
//   - EndsAt must not be before StartsAt.
func (s *TripService) validateSchedule(destination string, startsAt, endsAt time.Time) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if startsAt.Before(s.clock.Now()) {
		return fmt.Errorf("%w: invalid trip start date", domain.ErrValidation)
	}
	if endsAt.Before(startsAt) {
		return fmt.Errorf("%w: invalid trip end date", domain.ErrValidation)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
