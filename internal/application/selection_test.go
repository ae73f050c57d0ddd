package application

import (
	"sync"
	"testing"

	"github.com/example/roombook/internal/catalog"
)

func TestSelection_Defaults(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	if s.Floor() != DefaultFloor || s.Wing() != DefaultWing {
		t.Fatalf("expected %d%s, got %d%s", DefaultFloor, DefaultWing, s.Floor(), s.Wing())
	}
	if _, ok := s.Room(); ok {
		t.Fatal("expected no room selected")
	}
}

func TestSelection_RoomSurvivesFloorAndWingChanges(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	room := catalog.Room{ID: "F4E-101", Floor: 4, Wing: "E", RoomNumber: 101}
	s.SetRoom(&room)
	room.ID = "mutated"

	s.SetFloor(3)
	s.SetWing("W")

	got, ok := s.Room()
	if !ok || got.ID != "F4E-101" {
		t.Fatalf("expected selected room to survive navigation, got %#v ok=%v", got, ok)
	}

	snap := s.Snapshot()
	if snap.Floor != 3 || snap.Wing != "W" || snap.Room == nil || snap.Room.ID != "F4E-101" {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
	snap.Room.ID = "changed"
	if got, _ := s.Room(); got.ID != "F4E-101" {
		t.Fatal("snapshot must not alias selection state")
	}

	s.SetRoom(nil)
	if _, ok := s.Room(); ok {
		t.Fatal("expected nil to clear the room")
	}
}

func TestSelection_Reset(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	s.SetFloor(5)
	s.SetWing("W")
	s.SetRoom(&catalog.Room{ID: "F5W-501"})
	s.Reset()

	if snap := s.Snapshot(); snap.Floor != DefaultFloor || snap.Wing != DefaultWing || snap.Room != nil {
		t.Fatalf("expected defaults after reset, got %#v", snap)
	}
}

func TestSelection_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.SetFloor(i)
			s.SetRoom(&catalog.Room{ID: "R"})
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
}
