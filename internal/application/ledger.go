package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/roombook/internal/catalog"
	"github.com/example/roombook/internal/persistence"
)

// RoomCatalog exposes the static room list.
type RoomCatalog interface {
	Rooms() []catalog.Room
	Room(id string) (catalog.Room, bool)
	Floors() []int
	WingsFor(floor int) []string
	RoomsIn(floor int, wing string) []catalog.Room
}

// bookingRecord is the persisted shape of a booking.
type bookingRecord struct {
	ID            string        `json:"id"`
	RoomID        string        `json:"roomId"`
	AttendeeNames []string      `json:"attendeeNames"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// NewBookingID returns a fresh booking identifier.
func NewBookingID() string {
	return "booking-" + uuid.NewString()
}

// Ledger holds every booking in memory and mirrors the full list to client
// storage after each mutation.
//
// Create never rejects a booking because of existing confirmed state. The
// eligibility rules live with the caller (see BookingDesk), so two callers
// working from stale views can confirm the same room.
type Ledger struct {
	mu       sync.RWMutex
	bookings []Booking
	unread   bool
	rooms    RoomCatalog
	storage  ClientStorage
	newID    func() string
	now      func() time.Time
	logger   *slog.Logger
}

// NewLedger constructs an empty Ledger. Call Load to read persisted bookings.
func NewLedger(rooms RoomCatalog, storage ClientStorage, idGenerator func() string, now func() time.Time, logger *slog.Logger) *Ledger {
	if idGenerator == nil {
		idGenerator = NewBookingID
	}
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		rooms:   rooms,
		storage: storage,
		newID:   idGenerator,
		now:     now,
		logger:  defaultLogger(logger),
	}
}

func (l *Ledger) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, l.logger, "Ledger", operation, attrs...)
}

// Load replaces the in-memory ledger with the persisted one. An absent key
// yields an empty ledger; an undecodable value also yields an empty ledger and
// is reported to the caller. A failed read leaves the in-memory ledger as it
// was and blocks Create and Cancel with ErrLedgerUnavailable until a later
// Load succeeds.
func (l *Ledger) Load(ctx context.Context) (err error) {
	logger := l.loggerWith(ctx, "Load")

	var loaded []Booking
	readFailed := false
	defer func() {
		l.mu.Lock()
		l.unread = readFailed
		if !readFailed {
			l.bookings = loaded
		}
		l.mu.Unlock()

		if err != nil {
			logger.ErrorContext(ctx, "failed to load ledger", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "ledger loaded", "bookings", len(loaded))
	}()

	if l.storage == nil {
		return nil
	}

	raw, err := l.storage.Get(ctx, persistence.LedgerKey)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		readFailed = true
		return fmt.Errorf("%w: %w", ErrLedgerUnavailable, err)
	}

	loaded, err = DecodeLedger(raw)
	return err
}

// IsAvailable reports whether no confirmed booking references roomID.
func (l *Ledger) IsAvailable(roomID string) bool {
	_, booked := l.ConfirmedFor(roomID)
	return !booked
}

// CanBook reports whether no confirmed booking lists name as an attendee.
func (l *Ledger) CanBook(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, b := range l.bookings {
		if b.Confirmed() && b.HasAttendee(name) {
			return false
		}
	}
	return true
}

// ConfirmedFor returns the first confirmed booking referencing roomID.
func (l *Ledger) ConfirmedFor(roomID string) (Booking, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, b := range l.bookings {
		if b.RoomID == roomID && b.Confirmed() {
			return cloneBooking(b), true
		}
	}
	return Booking{}, false
}

// Create appends a new confirmed booking and persists the ledger. It does not
// consult IsAvailable or CanBook.
func (l *Ledger) Create(ctx context.Context, roomID string, attendeeNames []string) (booking Booking, err error) {
	roomID = strings.TrimSpace(roomID)
	logger := l.loggerWith(ctx, "Create", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "booking creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking created", "booking_id", booking.ID, "attendees", len(booking.AttendeeNames))
	}()

	if roomID == "" {
		vErr := &ValidationError{}
		vErr.add("room_id", "room is required")
		err = vErr
		return
	}

	names := make([]string, len(attendeeNames))
	copy(names, attendeeNames)

	booking = Booking{
		ID:            l.newID(),
		RoomID:        roomID,
		AttendeeNames: names,
		Status:        StatusConfirmed,
		CreatedAt:     l.now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unread {
		booking = Booking{}
		err = ErrLedgerUnavailable
		return
	}

	l.bookings = append(l.bookings, booking)
	if err = l.persistLocked(ctx); err != nil {
		l.bookings = l.bookings[:len(l.bookings)-1]
		booking = Booking{}
		return
	}

	booking = cloneBooking(booking)
	return
}

// Cancel flips the booking with bookingID to cancelled and persists the
// ledger. Unknown ids are ignored.
func (l *Ledger) Cancel(ctx context.Context, bookingID string) (err error) {
	logger := l.loggerWith(ctx, "Cancel", "booking_id", bookingID)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unread {
		logger.ErrorContext(ctx, "booking cancellation refused", "error", ErrLedgerUnavailable, "error_kind", ErrorKind(ErrLedgerUnavailable))
		return ErrLedgerUnavailable
	}

	idx := -1
	for i, b := range l.bookings {
		if b.ID == bookingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		logger.InfoContext(ctx, "cancel ignored for unknown booking")
		return nil
	}

	previous := l.bookings[idx].Status
	l.bookings[idx].Status = StatusCancelled
	if err = l.persistLocked(ctx); err != nil {
		l.bookings[idx].Status = previous
		logger.ErrorContext(ctx, "booking cancellation failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "booking cancelled", "room_id", l.bookings[idx].RoomID)
	return nil
}

// BookingsFor returns the confirmed bookings listing name, in ledger order.
func (l *Ledger) BookingsFor(name string) []Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Booking, 0)
	for _, b := range l.bookings {
		if b.Confirmed() && b.HasAttendee(name) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

// Bookings returns the full ledger, confirmed and cancelled, in ledger order.
func (l *Ledger) Bookings() []Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		out = append(out, cloneBooking(b))
	}
	return out
}

// Floors returns the distinct catalog floors in ascending order.
func (l *Ledger) Floors() []int {
	if l.rooms == nil {
		return []int{}
	}
	return l.rooms.Floors()
}

// WingsFor returns the distinct wings on floor in ascending order.
func (l *Ledger) WingsFor(floor int) []string {
	if l.rooms == nil {
		return []string{}
	}
	return l.rooms.WingsFor(floor)
}

// Encode serializes the ledger in its persisted form.
func (l *Ledger) Encode() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return EncodeLedger(l.bookings)
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	if l.storage == nil {
		return nil
	}
	raw, err := EncodeLedger(l.bookings)
	if err != nil {
		return err
	}
	if err := l.storage.Set(ctx, persistence.LedgerKey, raw); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// EncodeLedger serializes bookings as an ordered JSON array.
func EncodeLedger(bookings []Booking) ([]byte, error) {
	records := make([]bookingRecord, 0, len(bookings))
	for _, b := range bookings {
		names := b.AttendeeNames
		if names == nil {
			names = []string{}
		}
		records = append(records, bookingRecord{
			ID:            b.ID,
			RoomID:        b.RoomID,
			AttendeeNames: names,
			Status:        b.Status,
			CreatedAt:     b.CreatedAt,
		})
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return raw, nil
}

// DecodeLedger parses a serialized ledger. Records with an unknown status are
// rejected.
func DecodeLedger(raw []byte) ([]Booking, error) {
	var records []bookingRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}

	bookings := make([]Booking, 0, len(records))
	for i, r := range records {
		if r.Status != StatusConfirmed && r.Status != StatusCancelled {
			return nil, fmt.Errorf("decode ledger: record %d has unknown status %q", i, r.Status)
		}
		bookings = append(bookings, Booking{
			ID:            r.ID,
			RoomID:        r.RoomID,
			AttendeeNames: r.AttendeeNames,
			Status:        r.Status,
			CreatedAt:     r.CreatedAt,
		})
	}
	return bookings, nil
}
