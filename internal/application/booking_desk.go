package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/example/roombook/internal/catalog"
	"github.com/example/roombook/internal/directory"
)

// DefaultSearchLimit caps directory search results.
const DefaultSearchLimit = 10

// BookingDesk applies the booking eligibility rules before anything reaches
// the ledger, and serves the read views the booking screens are built from.
type BookingDesk struct {
	people    PersonDirectory
	rooms     RoomCatalog
	ledger    *Ledger
	selection *Selection
	logger    *slog.Logger
}

// NewBookingDesk wires the desk to its collaborators.
func NewBookingDesk(people PersonDirectory, rooms RoomCatalog, ledger *Ledger, selection *Selection, logger *slog.Logger) *BookingDesk {
	if people == nil {
		people = directory.Empty()
	}
	if selection == nil {
		selection = NewSelection()
	}
	return &BookingDesk{
		people:    people,
		rooms:     rooms,
		ledger:    ledger,
		selection: selection,
		logger:    defaultLogger(logger),
	}
}

func (d *BookingDesk) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, d.logger, "BookingDesk", operation, attrs...)
}

// Book validates a booking request and, when every rule passes, creates the
// booking. Nothing is written when a rule fails.
func (d *BookingDesk) Book(ctx context.Context, params BookParams) (booking Booking, err error) {
	if d == nil || d.ledger == nil || d.rooms == nil {
		err = fmt.Errorf("booking desk not configured")
		return
	}

	roomID := strings.TrimSpace(params.RoomID)
	if roomID == "" {
		if room, ok := d.selection.Room(); ok {
			roomID = room.ID
		}
	}

	logger := d.loggerWith(ctx, "Book",
		"room_id", roomID,
		"roll_number", params.Session.Identity,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "booking rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking confirmed", "booking_id", booking.ID)
	}()

	if strings.TrimSpace(params.Session.Identity) == "" {
		err = ErrUnauthorized
		return
	}

	if roomID == "" {
		vErr := &ValidationError{}
		vErr.add("room_id", "room is required")
		err = vErr
		return
	}
	if _, ok := d.rooms.Room(roomID); !ok {
		err = fmt.Errorf("room %s: %w", roomID, ErrNotFound)
		return
	}
	if !d.ledger.IsAvailable(roomID) {
		err = ErrRoomUnavailable
		return
	}

	var attendees []directory.Person
	attendees, err = d.resolveAttendees(params.Session, params.AttendeeIdentities)
	if err != nil {
		return
	}

	if len(attendees) != PartySize {
		err = ErrAttendeeCountInvalid
		return
	}

	names := make([]string, 0, len(attendees))
	for _, person := range attendees {
		if !d.ledger.CanBook(person.DisplayName) {
			err = &AttendeeAlreadyBookedError{Name: person.DisplayName}
			return
		}
		names = append(names, person.DisplayName)
	}

	booking, err = d.ledger.Create(ctx, roomID, names)
	return
}

// resolveAttendees maps roll numbers to directory entries, with the session's
// own entry first. A repeated roll number makes the party invalid.
func (d *BookingDesk) resolveAttendees(session Session, identities []string) ([]directory.Person, error) {
	ordered := make([]string, 0, len(identities)+1)
	ordered = append(ordered, session.Identity)
	for _, id := range identities {
		id = strings.TrimSpace(id)
		if id == "" || id == session.Identity {
			continue
		}
		ordered = append(ordered, id)
	}

	seen := make(map[string]struct{}, len(ordered))
	var unknown []string
	people := make([]directory.Person, 0, len(ordered))
	duplicate := false
	for _, id := range ordered {
		if _, dup := seen[id]; dup {
			duplicate = true
			continue
		}
		seen[id] = struct{}{}

		person, ok := d.people.Lookup(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		people = append(people, person)
	}

	if len(unknown) > 0 {
		vErr := &ValidationError{}
		vErr.add("attendees", "unknown roll numbers: "+strings.Join(unknown, ", "))
		return nil, vErr
	}
	if duplicate {
		return nil, ErrAttendeeCountInvalid
	}
	return people, nil
}

// Search returns directory entries whose display name or roll number contains
// query, ignoring case. Entries listed in exclude are skipped. An empty query
// matches nothing.
func (d *BookingDesk) Search(query string, exclude []string, limit int) []directory.Person {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []directory.Person{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results := make([]directory.Person, 0, limit)
	for _, person := range d.people.People() {
		if slices.Contains(exclude, person.Identity) {
			continue
		}
		if !strings.Contains(strings.ToLower(person.DisplayName), needle) &&
			!strings.Contains(strings.ToLower(person.Identity), needle) {
			continue
		}
		results = append(results, person)
		if len(results) == limit {
			break
		}
	}
	return results
}

// SelectRoom makes roomID the selected room. Rooms holding a confirmed booking
// cannot be selected.
func (d *BookingDesk) SelectRoom(roomID string) (catalog.Room, error) {
	room, err := d.selectableRoom(roomID)
	if err != nil {
		return catalog.Room{}, err
	}
	d.selection.SetRoom(&room)
	return room, nil
}

func (d *BookingDesk) selectableRoom(roomID string) (catalog.Room, error) {
	room, ok := d.rooms.Room(strings.TrimSpace(roomID))
	if !ok {
		return catalog.Room{}, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	if !d.ledger.IsAvailable(room.ID) {
		return catalog.Room{}, ErrRoomUnavailable
	}
	return room, nil
}

// Selection exposes the desk's selection state.
func (d *BookingDesk) Selection() *Selection {
	return d.selection
}

// Navigate moves the selection to another floor or wing. A nil argument keeps
// the current value. The selected room is left as it is.
func (d *BookingDesk) Navigate(floor *int, wing *string) (SelectionState, error) {
	return d.UpdateSelection(SelectionChange{Floor: floor, Wing: wing})
}

// UpdateSelection validates every part of change before applying any of it,
// so a rejected update leaves the selection untouched.
func (d *BookingDesk) UpdateSelection(change SelectionChange) (SelectionState, error) {
	next := d.selection.Snapshot()
	if change.Floor != nil {
		next.Floor = *change.Floor
	}
	if change.Wing != nil {
		next.Wing = strings.ToUpper(strings.TrimSpace(*change.Wing))
	}

	vErr := &ValidationError{}
	if change.Floor != nil && !slices.Contains(d.rooms.Floors(), next.Floor) {
		vErr.add("floor", "unknown floor")
	} else if change.Wing != nil && !slices.Contains(d.rooms.WingsFor(next.Floor), next.Wing) {
		vErr.add("wing", "unknown wing")
	}
	if vErr.HasErrors() {
		return d.selection.Snapshot(), vErr
	}

	var room *catalog.Room
	if !change.ClearRoom && change.RoomID != nil && strings.TrimSpace(*change.RoomID) != "" {
		picked, err := d.selectableRoom(*change.RoomID)
		if err != nil {
			return d.selection.Snapshot(), err
		}
		room = &picked
	}

	d.selection.SetFloor(next.Floor)
	d.selection.SetWing(next.Wing)
	switch {
	case change.ClearRoom:
		d.selection.SetRoom(nil)
	case room != nil:
		d.selection.SetRoom(room)
	}
	return d.selection.Snapshot(), nil
}

// RoomGrid lists the rooms on floor in wing with their availability.
func (d *BookingDesk) RoomGrid(floor int, wing string) []RoomStatus {
	rooms := d.rooms.RoomsIn(floor, wing)
	grid := make([]RoomStatus, 0, len(rooms))
	for _, room := range rooms {
		status := RoomStatus{Room: room, Available: true}
		if booking, booked := d.ledger.ConfirmedFor(room.ID); booked {
			status.Available = false
			status.BookedBy = booking.AttendeeNames
		}
		grid = append(grid, status)
	}
	return grid
}

// BookingsFor returns the session holder's confirmed bookings with room details.
func (d *BookingDesk) BookingsFor(session Session) []BookingView {
	bookings := d.ledger.BookingsFor(session.DisplayName)
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		room, _ := d.rooms.Room(b.RoomID)
		views = append(views, BookingView{Booking: b, Room: room})
	}
	return views
}

// Cancel cancels bookingID on behalf of session. Only attendees of a booking
// may cancel it; unknown ids are ignored.
func (d *BookingDesk) Cancel(ctx context.Context, session Session, bookingID string) error {
	if strings.TrimSpace(session.Identity) == "" {
		return ErrUnauthorized
	}
	for _, b := range d.ledger.Bookings() {
		if b.ID == bookingID && !b.HasAttendee(session.DisplayName) {
			d.loggerWith(ctx, "Cancel", "booking_id", bookingID).WarnContext(ctx, "cancel refused for non-attendee", "error_kind", ErrorKind(ErrUnauthorized))
			return ErrUnauthorized
		}
	}
	return d.ledger.Cancel(ctx, bookingID)
}
