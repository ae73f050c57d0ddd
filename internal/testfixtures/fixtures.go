package testfixtures

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/example/roombook/internal/catalog"
	"github.com/example/roombook/internal/directory"
)

var personCounter uint64

// ----------------------------- Directory fixtures -----------------------------

// PersonOption configures a generated directory entry.
type PersonOption func(*directory.Person)

// NewPerson returns a deterministic directory entry with optional overrides.
func NewPerson(opts ...PersonOption) directory.Person {
	idx := atomic.AddUint64(&personCounter, 1)
	person := directory.Person{
		Contact:     fmt.Sprintf("person-%03d@example.edu", idx),
		DisplayName: fmt.Sprintf("Person %03d", idx),
		Identity:    fmt.Sprintf("P%03d", idx),
		Secret:      fmt.Sprintf("SECRET%03d", idx),
	}
	for _, opt := range opts {
		opt(&person)
	}
	return person
}

// WithIdentity overrides the roll number.
func WithIdentity(identity string) PersonOption {
	return func(p *directory.Person) { p.Identity = identity }
}

// WithDisplayName overrides the display name.
func WithDisplayName(name string) PersonOption {
	return func(p *directory.Person) { p.DisplayName = name }
}

// WithSecret overrides the shared secret.
func WithSecret(secret string) PersonOption {
	return func(p *directory.Person) { p.Secret = secret }
}

// ScenarioPeople returns the four-person party used across booking tests,
// followed by a second, disjoint party of four.
func ScenarioPeople() []directory.Person {
	return []directory.Person{
		{Contact: "alice@example.edu", DisplayName: "Alice", Identity: "R1", Secret: "S1"},
		{Contact: "bob@example.edu", DisplayName: "Bob", Identity: "R2", Secret: "S2"},
		{Contact: "carl@example.edu", DisplayName: "Carl", Identity: "R3", Secret: "S3"},
		{Contact: "dee@example.edu", DisplayName: "Dee", Identity: "R4", Secret: "S4"},
		{Contact: "eve@example.edu", DisplayName: "Eve", Identity: "R5", Secret: "S5"},
		{Contact: "finn@example.edu", DisplayName: "Finn", Identity: "R6", Secret: "S6"},
		{Contact: "gia@example.edu", DisplayName: "Gia", Identity: "R7", Secret: "S7"},
		{Contact: "hal@example.edu", DisplayName: "Hal", Identity: "R8", Secret: "S8"},
	}
}

// ScenarioDirectory wraps ScenarioPeople in a Directory.
func ScenarioDirectory() *directory.Directory {
	return directory.New(ScenarioPeople())
}

// FirstParty returns the display names of the first scenario party.
func FirstParty() []string {
	return []string{"Alice", "Bob", "Carl", "Dee"}
}

// SecondParty returns the display names of the second scenario party.
func SecondParty() []string {
	return []string{"Eve", "Finn", "Gia", "Hal"}
}

// ------------------------------- Room fixtures -------------------------------

// ScenarioRoomID is the room most booking tests reserve.
const ScenarioRoomID = "F4E-101"

// ScenarioRooms returns a small catalog spanning two floors and three wings.
func ScenarioRooms() []catalog.Room {
	return []catalog.Room{
		{ID: ScenarioRoomID, Floor: 4, Wing: "E", RoomNumber: 101, MaxOccupancy: 4},
		{ID: "F4E-102", Floor: 4, Wing: "E", RoomNumber: 102, MaxOccupancy: 4},
		{ID: "F4W-103", Floor: 4, Wing: "W", RoomNumber: 103, MaxOccupancy: 4},
		{ID: "F3N-201", Floor: 3, Wing: "N", RoomNumber: 201, MaxOccupancy: 4},
	}
}

// ScenarioCatalog builds a Catalog from ScenarioRooms.
func ScenarioCatalog(tb testing.TB) *catalog.Catalog {
	tb.Helper()
	c, err := catalog.New(ScenarioRooms())
	if err != nil {
		tb.Fatalf("failed to build scenario catalog: %v", err)
	}
	return c
}
