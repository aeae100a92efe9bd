package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/repo"
)

// ActivityService implements business logic for Activity operations.
// It holds the trips repo because every activity is checked against its
// parent trip's date range.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewActivityService constructs an ActivityService backed by the provided repos.
func NewActivityService(trips repo.TripRepo, activities repo.ActivityRepo) *ActivityService {
	return &ActivityService{trips: trips, activities: activities}
}

// Create verifies the parent trip exists and that the activity falls within
// it, then persists.
// Returns domain.ErrNotFound if the trip does not exist.
// Returns domain.ErrValidation if the activity is outside the trip.
func (s *ActivityService) Create(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	trip, err := s.trips.GetByID(ctx, activity.TripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	if err := validateActivity(trip, activity); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}

	activity.Title = strings.TrimSpace(activity.Title)
	activity.OccursAt = activity.OccursAt.UTC()

	created, err := s.activities.Create(ctx, activity)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	return created, nil
}

// ListByDay returns one DaySchedule per calendar day of the trip, in order,
// each holding that day's activities sorted by time.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ActivityService) ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.DaySchedule, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListByDay: %w", err)
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListByDay: %w", err)
	}
	return domain.BucketByDay(trip, activities), nil
}

// validateActivity enforces:
//   - Title must be non-empty.
//   - OccursAt must not be before the trip starts nor after it ends.
func validateActivity(trip domain.Trip, activity domain.Activity) error {
	if strings.TrimSpace(activity.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if activity.OccursAt.Before(trip.StartsAt) {
		return fmt.Errorf("%w: activity cannot be before the trip starts", domain.ErrValidation)
	}
	if activity.OccursAt.After(trip.EndsAt) {
		return fmt.Errorf("%w: activity cannot be after the trip ends", domain.ErrValidation)
	}
	return nil
}
