// Package domain contains the core data types for the plann.er API.
// It is imported by every other internal package (repo, service, handler)
// and depends on nothing but uuid.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level planning aggregate. Participants, activities and
// links all belong to a trip.
type Trip struct {
	ID          uuid.UUID
	Destination string
	StartsAt    time.Time
	EndsAt      time.Time
	IsConfirmed bool
	CreatedAt   time.Time
}

// Contains reports whether t falls within [StartsAt, EndsAt], bounds included.
func (tr Trip) Contains(t time.Time) bool {
	return !t.Before(tr.StartsAt) && !t.After(tr.EndsAt)
}

// Days returns the number of calendar days (UTC) the trip touches,
// counting both the first and the last day. A trip that starts and ends on
// the same day spans one day.
func (tr Trip) Days() int {
	first := startOfDay(tr.StartsAt)
	last := startOfDay(tr.EndsAt)
	if last.Before(first) {
		return 0
	}
	return int(last.Sub(first).Hours()/24) + 1
}

// startOfDay truncates t to midnight UTC of its calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewTrip carries everything needed to create a trip in one write:
// the trip itself, its owner, and the addresses to invite.
type NewTrip struct {
	Destination    string
	StartsAt       time.Time
	EndsAt         time.Time
	OwnerName      string
	OwnerEmail     string
	EmailsToInvite []string
}
