package ability

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog ids of the shipped skills.
const (
	IDSlash       = "slash"
	IDDash        = "dash"
	IDArcaneBurst = "arcane_burst"
)

// DefaultLoadout is the slot layout a new player starts with.
var DefaultLoadout = [SlotCount]string{IDSlash, IDDash, IDArcaneBurst, ""}

// Info describes a registered skill.
type Info struct {
	ID   string
	Name string
	Kind Kind
}

// Factory creates a fresh level-1 ability.
type Factory func() *Ability

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

func init() {
	Register(IDSlash, NewSlash)
	Register(IDDash, NewDash)
	Register(IDArcaneBurst, NewArcaneBurst)
}

// Register adds a skill factory to the catalog.
// Panics if the id is already registered or the factory builds another id.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("ability: skill %q already registered", id))
	}

	a := f()
	if a.ID() != id {
		panic(fmt.Sprintf("ability: factory for %q builds %q", id, a.ID()))
	}
	factories[id] = f
	infos[id] = Info{ID: id, Name: a.Name(), Kind: a.Kind()}
}

// New creates a fresh instance of the skill registered under id.
func New(id string) (*Ability, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAbility, id)
	}
	return f(), nil
}

// Known reports whether a skill is registered under id.
func Known(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// List returns every registered skill, sorted by id.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}
