package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/repo"
	"github.com/pkordes/planner/internal/service"
)

// Hand-written test doubles. Each method is a function field, set only the
// ones your test needs; calling an unset one panics, which fails the test
// loudly if the service touches something it should not.

type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, []domain.Participant, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	confirm func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, []domain.Participant, error) {
	return m.create(ctx, trip, participants)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.confirm(ctx, id)
}

type mockParticipantRepo struct {
	create       func(ctx context.Context, p domain.Participant) (domain.Participant, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID, filter domain.ParticipantFilter) ([]domain.Participant, error)
	confirm      func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockParticipantRepo) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	return m.create(ctx, p)
}
func (m *mockParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.getByID(ctx, id)
}
func (m *mockParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID, filter domain.ParticipantFilter) ([]domain.Participant, error) {
	return m.listByTripID(ctx, tripID, filter)
}
func (m *mockParticipantRepo) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.confirm(ctx, id)
}

type mockActivityRepo struct {
	create       func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTripID(ctx, tripID)
}

type mockLinkRepo struct {
	create            func(ctx context.Context, l domain.Link) (domain.Link, error)
	listByTripIDPaged func(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Link, int64, error)
}

func (m *mockLinkRepo) Create(ctx context.Context, l domain.Link) (domain.Link, error) {
	return m.create(ctx, l)
}
func (m *mockLinkRepo) ListByTripIDPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Link, int64, error) {
	return m.listByTripIDPaged(ctx, tripID, p)
}

// recordingNotifier remembers every call and reports every recipient as sent.
type recordingNotifier struct {
	created []domain.Participant
	invited [][]domain.Participant
}

func (n *recordingNotifier) TripCreated(_ context.Context, _ domain.Trip, owner domain.Participant) domain.DeliveryReport {
	n.created = append(n.created, owner)
	return domain.DeliveryReport{Sent: []string{owner.Email}}
}

func (n *recordingNotifier) ParticipantsInvited(_ context.Context, _ domain.Trip, ps []domain.Participant) domain.DeliveryReport {
	n.invited = append(n.invited, ps)
	sent := make([]string, 0, len(ps))
	for _, p := range ps {
		sent = append(sent, p.Email)
	}
	return domain.DeliveryReport{Sent: sent}
}

// compile-time checks
var (
	_ repo.TripRepo        = (*mockTripRepo)(nil)
	_ repo.ParticipantRepo = (*mockParticipantRepo)(nil)
	_ repo.ActivityRepo    = (*mockActivityRepo)(nil)
	_ repo.LinkRepo        = (*mockLinkRepo)(nil)
	_ service.Notifier     = (*recordingNotifier)(nil)
)

func notFoundTrip() *mockTripRepo {
	return &mockTripRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
}

func tripRepoReturning(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
}
