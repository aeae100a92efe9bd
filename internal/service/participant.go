package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/repo"
)

// ParticipantInvited is the outcome of ParticipantService.Invite.
type ParticipantInvited struct {
	Participant domain.Participant
	Delivery    domain.DeliveryReport
}

// ParticipantService implements business logic for Participant operations.
type ParticipantService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notifier     Notifier
}

// NewParticipantService constructs a ParticipantService backed by the provided repos.
func NewParticipantService(trips repo.TripRepo, participants repo.ParticipantRepo, notifier Notifier) *ParticipantService {
	return &ParticipantService{trips: trips, participants: participants, notifier: notifier}
}

// Invite adds an unconfirmed participant to an existing trip and emails them
// a confirmation link.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ParticipantService) Invite(ctx context.Context, tripID uuid.UUID, email string) (ParticipantInvited, error) {
	email = normalizeEmail(email)
	if email == "" {
		return ParticipantInvited{}, fmt.Errorf("service.ParticipantService.Invite: %w: email is required", domain.ErrValidation)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return ParticipantInvited{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}

	created, err := s.participants.Create(ctx, domain.Participant{TripID: tripID, Email: email})
	if err != nil {
		return ParticipantInvited{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}

	report := s.notifier.ParticipantsInvited(ctx, trip, []domain.Participant{created})
	return ParticipantInvited{Participant: created, Delivery: report}, nil
}

// GetByID returns a single participant.
// Returns domain.ErrNotFound if it does not exist.
func (s *ParticipantService) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetByID: %w", err)
	}
	return p, nil
}

// ListByTripID returns every participant of a trip, owner first.
// Always returns a non-nil slice.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ParticipantService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTripID: %w", err)
	}
	people, err := s.participants.ListByTripID(ctx, tripID, domain.AllParticipants)
	if err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTripID: %w", err)
	}
	if people == nil {
		people = []domain.Participant{}
	}
	return people, nil
}

// Confirm marks the participant confirmed. Confirming twice is a no-op.
// Returns domain.ErrNotFound if the participant does not exist.
func (s *ParticipantService) Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	if p.IsConfirmed {
		return p, nil
	}
	if _, err := s.participants.Confirm(ctx, id); err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	p.IsConfirmed = true
	return p, nil
}
