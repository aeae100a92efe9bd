package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/repo"
)

// ExportService assembles a flat itinerary export for one trip.
type ExportService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, activities repo.ActivityRepo) *ExportService {
	return &ExportService{trips: trips, activities: activities}
}

// Export returns one ExportRow per activity, in time order.
// A trip with no activities contributes one row with empty activity fields.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ExportRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	base := domain.ExportRow{
		TripID:          trip.ID.String(),
		Destination:     trip.Destination,
		TripStartsAt:    trip.StartsAt,
		TripEndsAt:      trip.EndsAt,
		TripIsConfirmed: trip.IsConfirmed,
	}
	if len(activities) == 0 {
		return []domain.ExportRow{base}, nil
	}

	days := domain.BucketByDay(trip, activities)
	rows := make([]domain.ExportRow, 0, len(activities))
	for i, day := range days {
		rows = append(rows, lo.Map(day.Activities, func(a domain.Activity, _ int) domain.ExportRow {
			row := base
			occursAt := a.OccursAt
			row.ActivityTitle = a.Title
			row.ActivityOccursAt = &occursAt
			row.Day = i + 1
			return row
		})...)
	}
	return rows, nil
}
