package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a scheduled event inside a trip's date range.
type Activity struct {
	ID       uuid.UUID
	TripID   uuid.UUID
	Title    string
	OccursAt time.Time
}

// DaySchedule is one calendar day of a trip and the activities that occur on it.
type DaySchedule struct {
	Date       time.Time
	Activities []Activity
}

// BucketByDay groups activities into one DaySchedule per calendar day the
// trip spans, in ascending date order. Days without activities are kept with
// an empty (non-nil) slice. Activities are expected to be sorted by OccursAt;
// their relative order is preserved within a day. Activities outside the
// trip's days are dropped.
func BucketByDay(trip Trip, activities []Activity) []DaySchedule {
	days := trip.Days()
	first := startOfDay(trip.StartsAt)

	out := make([]DaySchedule, days)
	for i := range out {
		out[i] = DaySchedule{Date: first.AddDate(0, 0, i), Activities: []Activity{}}
	}

	for _, a := range activities {
		idx := int(startOfDay(a.OccursAt).Sub(first).Hours() / 24)
		if idx < 0 || idx >= days {
			continue
		}
		out[idx].Activities = append(out[idx].Activities, a)
	}
	return out
}
