package domain

import "time"

// ExportRow is a single row in a trip itinerary export.
// It is a flat, denormalized view: one row per activity, with trip fields
// repeated for every activity. Trips with no activities yield one row with
// zero values for all activity fields.
type ExportRow struct {
	// Trip fields, repeated for every activity on the trip.
	TripID          string
	Destination     string
	TripStartsAt    time.Time
	TripEndsAt      time.Time
	TripIsConfirmed bool

	// Activity fields, zero values when the trip has no activities.
	ActivityTitle    string
	ActivityOccursAt *time.Time

	// Day is the 1-based day of the trip the activity falls on, 0 when empty.
	Day int
}
