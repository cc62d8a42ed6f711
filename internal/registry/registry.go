// Package registry provides a global registry for scenario factories.
// Built-in scenarios register themselves in init() functions; documents
// loaded from disk can be registered at startup, allowing the platform to
// discover and instantiate scenarios without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/hullbreach/internal/layout"
)

// Info contains metadata about a registered scenario.
type Info struct {
	ID          string
	Title       string
	Description string
	Structures  int
}

// Factory builds a fresh structures document for a scenario.
// Each call must return a document the caller is free to modify.
type Factory func() layout.Document

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f

	// Get metadata by building a temporary document
	doc := f()
	infos[id] = Info{
		ID:          id,
		Title:       doc.Title(),
		Description: doc.Description,
		Structures:  len(doc.Structures),
	}
}

// RegisterDocument registers a loaded document under its own ID.
// Returns an error instead of panicking when the ID is taken.
func RegisterDocument(doc layout.Document) error {
	if Exists(doc.ID) {
		return fmt.Errorf("registry: scenario %q already registered", doc.ID)
	}
	Register(doc.ID, func() layout.Document { return clone(doc) })
	return nil
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, infos[id])
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a new document for the scenario ID.
// Returns an error if the ID is not registered.
func Create(id string) (layout.Document, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return layout.Document{}, fmt.Errorf("registry: unknown scenario %q", id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// clone copies the slices of a document so factories never share state.
func clone(doc layout.Document) layout.Document {
	out := doc
	out.Structures = make([]layout.StructureSpec, len(doc.Structures))
	for i, s := range doc.Structures {
		s.Layout = append([]string(nil), s.Layout...)
		out.Structures[i] = s
	}
	out.Agents = make([]layout.AgentSpec, len(doc.Agents))
	for i, a := range doc.Agents {
		if a.Position != nil {
			p := *a.Position
			a.Position = &p
		}
		out.Agents[i] = a
	}
	out.Gunners = append([]layout.GunnerSpec(nil), doc.Gunners...)
	return out
}
