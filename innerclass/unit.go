package innerclass

import (
	"errors"
	"fmt"
)

// ErrState is returned when unit callbacks are invoked out of structural order
var ErrState = errors.New("invalid unit state")

// State of a unit visit
type State int

const (
	Idle State = iota
	Started
	Observing
	Finalized
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Started:
		return "started"
	case Observing:
		return "observing"
	case Finalized:
		return "finalized"
	}
	return "unknown"
}

// Unit tracks the visit of one compiled type. It only injects records when the type
// carried none, it never edits or merges existing ones. A Unit must not be shared.
type Unit struct {
	index       *Index
	state       State
	name        string
	hasExisting bool
	modified    bool
}

// NewUnit creates a unit visit bound to a built index
func NewUnit(index *Index) *Unit {
	return &Unit{index: index}
}

// Start records the name of the visited type
func (u *Unit) Start(name string) error {
	if u.state != Idle {
		return fmt.Errorf("%w: start in %v", ErrState, u.state)
	}
	u.name = name
	u.state = Started
	return nil
}

// Observe notes a pre-existing record and passes it through unchanged
func (u *Unit) Observe(record Record) (Record, error) {
	if u.state != Started && u.state != Observing {
		return record, fmt.Errorf("%w: observe in %v", ErrState, u.state)
	}
	u.hasExisting = true
	u.state = Observing
	return record, nil
}

// End finalizes the visit and returns records to inject, in index order
func (u *Unit) End() ([]Record, error) {
	if u.state != Started && u.state != Observing {
		return nil, fmt.Errorf("%w: end in %v", ErrState, u.state)
	}
	u.state = Finalized
	if u.hasExisting || u.index == nil {
		return nil, nil
	}
	records := u.index.Lookup(u.name)
	if len(records) == 0 {
		return nil, nil
	}
	u.modified = true
	result := make([]Record, len(records))
	copy(result, records)
	return result, nil
}

// Name returns the visited type name
func (u *Unit) Name() string {
	return u.name
}

// State returns the current visit state
func (u *Unit) State() State {
	return u.state
}

// Modified reports whether End injected records
func (u *Unit) Modified() bool {
	return u.modified
}
