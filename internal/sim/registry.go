package sim

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/pixil98/go-arena/internal/storage"
)

// Registry owns every simulated entity, tool instance, and controller for
// the current session. Controllers resolve their targets through it on every
// command, which is what makes their bindings weak: a despawned entity is
// simply not found.
type Registry struct {
	mu          sync.RWMutex
	entities    map[EntityID]*Entity
	tools       map[ToolID]*Tool
	controllers map[EntityID]*Controller

	specs   storage.Storer[*ToolSpec]
	journal *Journal
}

func NewRegistry(specs storage.Storer[*ToolSpec]) *Registry {
	return &Registry{
		entities:    map[EntityID]*Entity{},
		tools:       map[ToolID]*Tool{},
		controllers: map[EntityID]*Controller{},
		specs:       specs,
		journal:     NewJournal(),
	}
}

// SpawnEntity adds the entity and a controller bound to it. The entity's
// orientation is normalized on the way in.
func (r *Registry) SpawnEntity(kind string, e Entity) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return nil, fmt.Errorf("entity id must be set")
	}
	if _, ok := r.entities[e.ID]; ok {
		return nil, fmt.Errorf("entity %s already spawned", e.ID)
	}

	e.Orientation = e.Orientation.Normalize()
	r.entities[e.ID] = &e

	c := &Controller{
		Kind:   kind,
		ID:     uuid.New().String(),
		reg:    r,
		target: e.ID,
	}
	r.controllers[e.ID] = c

	return c, nil
}

// DespawnEntity removes the entity and its held tool instance. The
// controller stays registered; commands that still reference the entity
// degrade to no-ops.
func (r *Registry) DespawnEntity(id EntityID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entities[id]
	if !ok {
		return false
	}

	if e.Tool != "" {
		delete(r.tools, e.Tool)
	}
	delete(r.entities, id)
	return true
}

// AddTool instantiates specID from the spec store and puts it in the
// entity's hands, replacing anything already held.
func (r *Registry) AddTool(owner EntityID, id ToolID, specID string) error {
	spec := r.specs.Get(specID)
	if spec == nil {
		return fmt.Errorf("unknown tool spec %q", specID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entities[owner]
	if !ok {
		return fmt.Errorf("entity %s not spawned", owner)
	}

	if e.Tool != "" {
		delete(r.tools, e.Tool)
	}

	r.tools[id] = newTool(id, specID, spec)
	e.Tool = id

	return nil
}

// RemoveTool empties the entity's hands, dropping the instance.
func (r *Registry) RemoveTool(owner EntityID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entities[owner]
	if !ok || e.Tool == "" {
		return
	}

	delete(r.tools, e.Tool)
	e.Tool = ""
}

// ControllerFor resolves the controller applied to the given entity.
func (r *Registry) ControllerFor(id EntityID) (*Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.controllers[id]
	return c, ok
}

// EntityState returns a copy of the entity, if it is spawned.
func (r *Registry) EntityState(id EntityID) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// ToolState returns a copy of the tool instance, if it exists.
func (r *Registry) ToolState(id ToolID) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[id]
	if !ok {
		return Tool{}, false
	}
	return *t, true
}

// Snapshot copies all entities, ordered by id, for display.
func (r *Registry) Snapshot() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Journal() *Journal {
	return r.journal
}

// Reset drops all session state: entities, tools, and controllers.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entities = map[EntityID]*Entity{}
	r.tools = map[ToolID]*Tool{}
	r.controllers = map[EntityID]*Controller{}
}
