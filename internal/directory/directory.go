// Package directory loads the fixed list of people who may sign in and be
// booked as attendees.
//
// The bundled list is a CSV file with a header row followed by
// email,name,rollNumber,secret records. Columns are positional; the header
// content is ignored.
package directory

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed data/students.csv
var bundled []byte

// ErrLoadFailed wraps any failure to read or parse the directory source.
var ErrLoadFailed = errors.New("directory: load failed")

// Person is a single directory entry. Entries never change after load.
type Person struct {
	Contact     string
	DisplayName string
	Identity    string
	Secret      string
}

// Directory is a read-only, ordered list of people.
type Directory struct {
	people     []Person
	byIdentity map[string]int
}

// New builds a Directory from people in the given order. When identities
// repeat, Lookup resolves to the first entry.
func New(people []Person) *Directory {
	d := &Directory{
		people:     make([]Person, len(people)),
		byIdentity: make(map[string]int, len(people)),
	}
	copy(d.people, people)
	for i, p := range d.people {
		if _, ok := d.byIdentity[p.Identity]; !ok {
			d.byIdentity[p.Identity] = i
		}
	}
	return d
}

// Empty returns a Directory with no entries.
func Empty() *Directory {
	return New(nil)
}

// Load reads the directory from path, or from the bundled list when path is
// empty.
func Load(path string) (*Directory, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(bytes.NewReader(bundled))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes CSV records from r. The first record is treated as a header.
func Parse(r io.Reader) (*Directory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrLoadFailed)
	}

	people := make([]Person, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 4 {
			return nil, fmt.Errorf("%w: line %d: expected 4 columns, got %d", ErrLoadFailed, i+2, len(record))
		}
		person := Person{
			Contact:     strings.TrimSpace(record[0]),
			DisplayName: strings.TrimSpace(record[1]),
			Identity:    strings.TrimSpace(record[2]),
			Secret:      strings.TrimSpace(record[3]),
		}
		if person.Identity == "" {
			return nil, fmt.Errorf("%w: line %d: roll number is empty", ErrLoadFailed, i+2)
		}
		people = append(people, person)
	}

	return New(people), nil
}

// People returns a copy of all entries in source order.
func (d *Directory) People() []Person {
	if d == nil {
		return nil
	}
	out := make([]Person, len(d.people))
	copy(out, d.people)
	return out
}

// Lookup finds the entry registered under identity. Matching is exact.
func (d *Directory) Lookup(identity string) (Person, bool) {
	if d == nil {
		return Person{}, false
	}
	i, ok := d.byIdentity[identity]
	if !ok {
		return Person{}, false
	}
	return d.people[i], true
}

// Len reports the number of entries.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.people)
}
