package inheritance

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSealed is returned when adding to a published index
var ErrSealed = errors.New("inheritance index is sealed")

// Index holds every known type of a program in insertion order.
// It is written by a single builder and becomes read-only once sealed.
type Index struct {
	mux     sync.RWMutex
	types   []*TypeInfo
	typeMap map[string]int // position
	sealed  bool
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{typeMap: make(map[string]int)}
}

// Add registers a type; a later type with the same name replaces the earlier one in place
func (i *Index) Add(info *TypeInfo) error {
	i.mux.Lock()
	defer i.mux.Unlock()
	if i.sealed {
		return fmt.Errorf("failed to add %s: %w", info.Name, ErrSealed)
	}
	if idx, ok := i.typeMap[info.Name]; ok {
		i.types[idx] = info
		return nil
	}
	i.types = append(i.types, info)
	i.typeMap[info.Name] = len(i.types) - 1
	return nil
}

// Seal publishes the index; no type can be added afterwards
func (i *Index) Seal() {
	i.mux.Lock()
	i.sealed = true
	i.mux.Unlock()
}

// Sealed reports whether the index was published
func (i *Index) Sealed() bool {
	i.mux.RLock()
	defer i.mux.RUnlock()
	return i.sealed
}

// Get retrieves a type by internal name
func (i *Index) Get(name string) *TypeInfo {
	i.mux.RLock()
	defer i.mux.RUnlock()
	if idx, ok := i.typeMap[name]; ok {
		return i.types[idx]
	}
	return nil
}

// Types returns all types in insertion order
func (i *Index) Types() []*TypeInfo {
	i.mux.RLock()
	defer i.mux.RUnlock()
	result := make([]*TypeInfo, len(i.types))
	copy(result, i.types)
	return result
}

// Len returns number of indexed types
func (i *Index) Len() int {
	i.mux.RLock()
	defer i.mux.RUnlock()
	return len(i.types)
}
