package domain

import "github.com/google/uuid"

// Link is a reference URL attached to a trip (bookings, maps, documents).
type Link struct {
	ID     uuid.UUID
	TripID uuid.UUID
	Title  string
	URL    string
}
