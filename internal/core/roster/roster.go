// Package roster is the registry that owns every adventurer in a session.
// Parties borrow pointers from it; the roster is the single owner.
package roster

import (
	"fmt"
	"strings"

	"github.com/example/guild/internal/core/adventurer"
	"github.com/example/guild/internal/models"
)

// Roster stores adventurers by id in insertion order.
type Roster struct {
	byID  map[string]*adventurer.State
	order []string
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{byID: make(map[string]*adventurer.State)}
}

// Add registers an adventurer. Duplicate ids are rejected and the existing
// entry is left untouched.
func (r *Roster) Add(a *adventurer.State) error {
	if a == nil {
		return fmt.Errorf("adventurer is required: %w", models.ErrInvalidArgument)
	}
	if _, exists := r.byID[a.ID()]; exists {
		return fmt.Errorf("adventurer %s: %w", a.ID(), models.ErrAlreadyExists)
	}
	r.byID[a.ID()] = a
	r.order = append(r.order, a.ID())
	return nil
}

// Remove drops the adventurer and reports whether it was present.
func (r *Roster) Remove(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// FindByID returns the adventurer with the given id.
func (r *Roster) FindByID(id string) models.Optional[*adventurer.State] {
	if strings.TrimSpace(id) == "" {
		return models.None[*adventurer.State]()
	}
	if a, ok := r.byID[id]; ok {
		return models.Some(a)
	}
	return models.None[*adventurer.State]()
}

// GetAll returns every adventurer in insertion order.
func (r *Roster) GetAll() []*adventurer.State {
	out := make([]*adventurer.State, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// GetIdleAdventurers returns adventurers whose availability is Idle.
func (r *Roster) GetIdleAdventurers() []*adventurer.State {
	var out []*adventurer.State
	for _, id := range r.order {
		if a := r.byID[id]; a.Availability() == models.AvailabilityIdle {
			out = append(out, a)
		}
	}
	return out
}

// GetDeployable returns adventurers that pass the deployability guard.
func (r *Roster) GetDeployable() []*adventurer.State {
	var out []*adventurer.State
	for _, id := range r.order {
		if a := r.byID[id]; a.IsDeployable() {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of registered adventurers.
func (r *Roster) Len() int {
	return len(r.order)
}
