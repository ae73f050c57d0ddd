// Package catalog holds the static list of bookable rooms.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed data/rooms.json
var bundled []byte

// ErrInvalidCatalog is returned when the room list cannot be decoded or holds
// inconsistent entries.
var ErrInvalidCatalog = errors.New("catalog: invalid room list")

// Room is a bookable room. Rooms are never mutated at runtime.
type Room struct {
	ID           string `json:"id"`
	Floor        int    `json:"floor"`
	Wing         string `json:"wing"`
	RoomNumber   int    `json:"roomNumber"`
	Occupancy    int    `json:"occupancy"`
	MaxOccupancy int    `json:"maxOccupancy"`
}

// Catalog is the ordered, read-only room list.
type Catalog struct {
	rooms []Room
	byID  map[string]int
}

// New validates rooms and builds a Catalog preserving their order.
func New(rooms []Room) (*Catalog, error) {
	c := &Catalog{
		rooms: make([]Room, 0, len(rooms)),
		byID:  make(map[string]int, len(rooms)),
	}
	for i, room := range rooms {
		room.ID = strings.TrimSpace(room.ID)
		room.Wing = strings.TrimSpace(room.Wing)
		if room.ID == "" {
			return nil, fmt.Errorf("%w: room %d has no id", ErrInvalidCatalog, i)
		}
		if room.Wing == "" {
			return nil, fmt.Errorf("%w: room %s has no wing", ErrInvalidCatalog, room.ID)
		}
		if _, dup := c.byID[room.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate room id %s", ErrInvalidCatalog, room.ID)
		}
		c.byID[room.ID] = len(c.rooms)
		c.rooms = append(c.rooms, room)
	}
	return c, nil
}

// Load reads the catalog from path, or from the bundled list when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(bytes.NewReader(bundled))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open room catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a JSON array of rooms from r.
func Parse(r io.Reader) (*Catalog, error) {
	var rooms []Room
	if err := json.NewDecoder(r).Decode(&rooms); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(rooms)
}

// Rooms returns every room in catalog order.
func (c *Catalog) Rooms() []Room {
	out := make([]Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

// Room looks a room up by id.
func (c *Catalog) Room(id string) (Room, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Room{}, false
	}
	return c.rooms[i], true
}

// Len reports the number of rooms.
func (c *Catalog) Len() int {
	return len(c.rooms)
}

// Floors returns the distinct floors in ascending order.
func (c *Catalog) Floors() []int {
	seen := make(map[int]struct{})
	floors := make([]int, 0)
	for _, room := range c.rooms {
		if _, ok := seen[room.Floor]; ok {
			continue
		}
		seen[room.Floor] = struct{}{}
		floors = append(floors, room.Floor)
	}
	sort.Ints(floors)
	return floors
}

// WingsFor returns the distinct wing codes present on floor in ascending order.
func (c *Catalog) WingsFor(floor int) []string {
	seen := make(map[string]struct{})
	wings := make([]string, 0)
	for _, room := range c.rooms {
		if room.Floor != floor {
			continue
		}
		if _, ok := seen[room.Wing]; ok {
			continue
		}
		seen[room.Wing] = struct{}{}
		wings = append(wings, room.Wing)
	}
	sort.Strings(wings)
	return wings
}

// RoomsIn returns the rooms on floor in wing, in catalog order.
func (c *Catalog) RoomsIn(floor int, wing string) []Room {
	rooms := make([]Room, 0)
	for _, room := range c.rooms {
		if room.Floor == floor && room.Wing == wing {
			rooms = append(rooms, room)
		}
	}
	return rooms
}
