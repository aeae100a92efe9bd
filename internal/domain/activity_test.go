package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/internal/domain"
)

func threeDayTrip() domain.Trip {
	return domain.Trip{
		StartsAt: time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 7, 12, 18, 0, 0, 0, time.UTC),
	}
}

func TestTrip_Contains_Bounds(t *testing.T) {
	trip := threeDayTrip()

	assert.False(t, trip.Contains(trip.StartsAt.Add(-time.Second)), "one second before start")
	assert.True(t, trip.Contains(trip.StartsAt), "exactly at start")
	assert.True(t, trip.Contains(trip.StartsAt.Add(time.Second)), "one second after start")
	assert.True(t, trip.Contains(trip.EndsAt), "exactly at end")
	assert.False(t, trip.Contains(trip.EndsAt.Add(time.Second)), "one second after end")
}

func TestTrip_Days(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", time.Date(2026, 7, 10, 8, 0, 0, 0, time.UTC), time.Date(2026, 7, 10, 20, 0, 0, 0, time.UTC), 1},
		{"three calendar days", time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC), time.Date(2026, 7, 12, 18, 0, 0, 0, time.UTC), 3},
		// Less than 48h apart but touching three calendar days.
		{"short span over three days", time.Date(2026, 7, 10, 23, 0, 0, 0, time.UTC), time.Date(2026, 7, 12, 1, 0, 0, 0, time.UTC), 3},
		{"across month end", time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), 3},
		{"end before start", time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC), time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := domain.Trip{StartsAt: tt.start, EndsAt: tt.end}
			assert.Equal(t, tt.want, trip.Days())
		})
	}
}

func TestBucketByDay_ThreeDayTrip(t *testing.T) {
	trip := threeDayTrip()
	breakfast := domain.Activity{Title: "Breakfast", OccursAt: time.Date(2026, 7, 10, 9, 30, 0, 0, time.UTC)}
	museum := domain.Activity{Title: "Museum", OccursAt: time.Date(2026, 7, 10, 14, 0, 0, 0, time.UTC)}
	dinner := domain.Activity{Title: "Dinner", OccursAt: time.Date(2026, 7, 12, 17, 0, 0, 0, time.UTC)}

	days := domain.BucketByDay(trip, []domain.Activity{breakfast, museum, dinner})

	require.Len(t, days, 3)
	assert.Equal(t, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC), days[1].Date)
	assert.Equal(t, time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC), days[2].Date)

	assert.Equal(t, []domain.Activity{breakfast, museum}, days[0].Activities)
	assert.NotNil(t, days[1].Activities, "empty days must still carry a non-nil slice")
	assert.Empty(t, days[1].Activities)
	assert.Equal(t, []domain.Activity{dinner}, days[2].Activities)
}

func TestBucketByDay_DropsActivitiesOutsideTrip(t *testing.T) {
	trip := threeDayTrip()
	stray := domain.Activity{Title: "Stray", OccursAt: time.Date(2026, 7, 20, 9, 0, 0, 0, time.UTC)}

	days := domain.BucketByDay(trip, []domain.Activity{stray})

	require.Len(t, days, 3)
	for _, d := range days {
		assert.Empty(t, d.Activities)
	}
}
