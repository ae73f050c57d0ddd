package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when an operation needs a signed-in session and none is held.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned when no directory entry matches the identity and secret pair.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAttendeeCountInvalid is returned when a booking does not name exactly PartySize distinct attendees.
	ErrAttendeeCountInvalid = errors.New("application: exactly 4 students are required for booking")
	// ErrAttendeeAlreadyBooked is matched by AttendeeAlreadyBookedError.
	ErrAttendeeAlreadyBooked = errors.New("application: attendee already has a room booked")
	// ErrRoomUnavailable is returned when the room already carries a confirmed booking.
	ErrRoomUnavailable = errors.New("application: room is already booked")
	// ErrLedgerUnavailable is returned when the persisted ledger could not be read.
	// The ledger refuses writes until a later Load succeeds so stored bookings are never overwritten.
	ErrLedgerUnavailable = errors.New("application: booking ledger could not be read")
)

// AttendeeAlreadyBookedError names the first attendee found holding a confirmed booking.
type AttendeeAlreadyBookedError struct {
	Name string
}

// Error implements the error interface.
func (e *AttendeeAlreadyBookedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s already has a room booked", e.Name)
}

// Is lets errors.Is match the ErrAttendeeAlreadyBooked sentinel.
func (e *AttendeeAlreadyBookedError) Is(target error) bool {
	return target == ErrAttendeeAlreadyBooked
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v.FieldErrors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
