package application

import (
	"slices"
	"time"

	"github.com/example/roombook/internal/catalog"
)

// PartySize is the fixed headcount of every booking.
const PartySize = 4

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	// StatusConfirmed marks a booking that holds its room and attendees.
	StatusConfirmed BookingStatus = "confirmed"
	// StatusCancelled marks a booking that no longer counts toward availability.
	StatusCancelled BookingStatus = "cancelled"
)

// Session is the identity currently signed in on this client.
type Session struct {
	Identity    string
	DisplayName string
}

// Booking is a single ledger record. Attendee names are plain display names
// and are not linked back to directory entries.
type Booking struct {
	ID            string
	RoomID        string
	AttendeeNames []string
	Status        BookingStatus
	CreatedAt     time.Time
}

// Confirmed reports whether the booking still counts toward availability.
func (b Booking) Confirmed() bool {
	return b.Status == StatusConfirmed
}

// HasAttendee reports whether name appears in the attendee list.
func (b Booking) HasAttendee(name string) bool {
	return slices.Contains(b.AttendeeNames, name)
}

func cloneBooking(b Booking) Booking {
	b.AttendeeNames = slices.Clone(b.AttendeeNames)
	return b
}

// BookParams carries a booking request from the presentation layer. When
// RoomID is empty the currently selected room is used. AttendeeIdentities are
// roll numbers; the session's own identity is always included.
type BookParams struct {
	Session            Session
	RoomID             string
	AttendeeIdentities []string
}

// RoomStatus is one cell of the room grid.
type RoomStatus struct {
	Room      catalog.Room
	Available bool
	BookedBy  []string
}

// BookingView pairs a booking with the room it references. Room is the zero
// value when the catalog no longer lists the room.
type BookingView struct {
	Booking Booking
	Room    catalog.Room
}

// SelectionChange describes a selection update. Nil fields keep the current
// value; ClearRoom wins over RoomID.
type SelectionChange struct {
	Floor     *int
	Wing      *string
	RoomID    *string
	ClearRoom bool
}

// SelectionState is a snapshot of the current floor, wing and room choice.
type SelectionState struct {
	Floor int
	Wing  string
	Room  *catalog.Room
}
