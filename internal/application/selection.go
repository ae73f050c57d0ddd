package application

import (
	"sync"

	"github.com/example/roombook/internal/catalog"
)

// Starting floor and wing shown after every start.
const (
	DefaultFloor = 4
	DefaultWing  = "E"
)

// Selection tracks the floor, wing and room the user is looking at. It is
// never persisted. Changing floor or wing leaves the selected room untouched.
type Selection struct {
	mu    sync.RWMutex
	floor int
	wing  string
	room  *catalog.Room
}

// NewSelection returns a Selection positioned at the defaults.
func NewSelection() *Selection {
	return &Selection{floor: DefaultFloor, wing: DefaultWing}
}

// Floor returns the selected floor.
func (s *Selection) Floor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.floor
}

// Wing returns the selected wing.
func (s *Selection) Wing() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wing
}

// Room returns the selected room, if any.
func (s *Selection) Room() (catalog.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.room == nil {
		return catalog.Room{}, false
	}
	return *s.room, true
}

func (s *Selection) SetFloor(floor int) {
	s.mu.Lock()
	s.floor = floor
	s.mu.Unlock()
}

func (s *Selection) SetWing(wing string) {
	s.mu.Lock()
	s.wing = wing
	s.mu.Unlock()
}

// SetRoom selects room, or clears the selection when room is nil.
func (s *Selection) SetRoom(room *catalog.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room == nil {
		s.room = nil
		return
	}
	selected := *room
	s.room = &selected
}

// Snapshot returns a consistent copy of the selection.
func (s *Selection) Snapshot() SelectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := SelectionState{Floor: s.floor, Wing: s.wing}
	if s.room != nil {
		room := *s.room
		state.Room = &room
	}
	return state
}

// Reset restores the defaults and clears the room.
func (s *Selection) Reset() {
	s.mu.Lock()
	s.floor = DefaultFloor
	s.wing = DefaultWing
	s.room = nil
	s.mu.Unlock()
}
