package domain

import "github.com/google/uuid"

// Participant is a person attached to a trip: either its owner or an invitee.
// The owner is created already confirmed; invitees confirm through an emailed link.
type Participant struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Name        string // empty for invitees who have not given a name
	Email       string
	IsOwner     bool
	IsConfirmed bool
}

// ParticipantFilter narrows a participant listing by ownership.
type ParticipantFilter int

const (
	AllParticipants ParticipantFilter = iota
	OwnersOnly
	GuestsOnly
)
