package console

import (
	"sort"

	"github.com/bookingops/console/internal/domain/shared"
)

// Registry maps entity names to their screens
type Registry struct {
	screens map[string]Screen
}

// NewRegistry creates a registry holding the given screens
func NewRegistry(screens ...Screen) *Registry {
	r := &Registry{screens: make(map[string]Screen, len(screens))}
	for _, s := range screens {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a screen
func (r *Registry) Register(s Screen) {
	r.screens[s.Entity()] = s
}

// Get returns the screen of an entity
func (r *Registry) Get(entity string) (Screen, error) {
	s, ok := r.screens[entity]
	if !ok {
		return nil, shared.Errorf(shared.CodeNotFound, "unknown screen %q", entity)
	}
	return s, nil
}

// Entities returns the registered entity names sorted
func (r *Registry) Entities() []string {
	names := make([]string, 0, len(r.screens))
	for name := range r.screens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
