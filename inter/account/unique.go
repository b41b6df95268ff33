package account

import (
	"errors"
	"fmt"
)

// ErrDuplicate is matched by every DuplicateError.
var ErrDuplicate = errors.New("duplicate identity")

// DuplicateError reports an identity that appears twice where uniqueness is required.
type DuplicateError struct {
	// Kind names the list the identity was found in ("authority", "nominator", ...).
	Kind string
	// Index is the position of the second occurrence within Kind.
	Index int
	// ID is the repeated identity.
	ID ID
	// Previous names where the identity was first seen.
	Previous string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s[%d]: %v %s (already registered as %s)", e.Kind, e.Index, ErrDuplicate, e.ID, e.Previous)
}

// Is makes errors.Is(err, ErrDuplicate) succeed.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// Registry tracks identities across several lists and rejects repeats.
type Registry struct {
	seen map[ID]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[ID]string)}
}

// Add records id as entry index of kind.
func (r *Registry) Add(kind string, index int, id ID) error {
	if prev, ok := r.seen[id]; ok {
		return &DuplicateError{Kind: kind, Index: index, ID: id, Previous: prev}
	}
	r.seen[id] = fmt.Sprintf("%s[%d]", kind, index)
	return nil
}

// AddAll records every id of the list, stopping at the first repeat.
func (r *Registry) AddAll(kind string, ids []ID) error {
	for i, id := range ids {
		if err := r.Add(kind, i, id); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether id was recorded.
func (r *Registry) Contains(id ID) bool {
	_, ok := r.seen[id]
	return ok
}
