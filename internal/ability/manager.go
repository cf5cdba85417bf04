package ability

import (
	"fmt"
	"sort"
)

// SlotCount is the number of equip slots per player.
const SlotCount = 4

// LoadoutVersion is the current version of the manager save record.
const LoadoutVersion = 1

// Loadout is the persisted form of a Manager.
type Loadout struct {
	Version   int               `msgpack:"v,omitempty" json:"v,omitempty"`
	Abilities map[string]State  `msgpack:"abilities,omitempty" json:"abilities,omitempty"`
	Equipped  [SlotCount]string `msgpack:"equipped" json:"equipped"`
}

// Manager owns one player's abilities and equip slots.
// Every non-nil slot references an ability held in the registry map.
type Manager struct {
	owner Owner
	arena Arena

	abilities map[string]*Ability
	order     []string // registration order, used for deterministic updates
	slots     [SlotCount]*Ability
	active    map[string]*Ability
}

// NewManager creates an empty manager. The owner is required.
func NewManager(owner Owner) (*Manager, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	return &Manager{
		owner:     owner,
		abilities: make(map[string]*Ability),
		active:    make(map[string]*Ability),
	}, nil
}

// NewDefaultManager creates a manager that knows and equips DefaultLoadout.
func NewDefaultManager(owner Owner) (*Manager, error) {
	m, err := NewManager(owner)
	if err != nil {
		return nil, err
	}
	for slot, id := range DefaultLoadout {
		if id == "" {
			continue
		}
		if _, err := m.Learn(id); err != nil {
			return nil, err
		}
		if err := m.Equip(slot, id); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetArena sets the spatial query target used by ability effects.
func (m *Manager) SetArena(a Arena) {
	m.arena = a
}

func (m *Manager) context() Context {
	return Context{Owner: m.owner, Arena: m.arena}
}

// Register adds an ability instance to the registry.
func (m *Manager) Register(a *Ability) error {
	if _, exists := m.abilities[a.ID()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAbility, a.ID())
	}
	m.abilities[a.ID()] = a
	m.order = append(m.order, a.ID())
	return nil
}

// Learn creates the catalog skill id and registers it. Learning a known
// skill returns the existing instance.
func (m *Manager) Learn(id string) (*Ability, error) {
	if a, ok := m.abilities[id]; ok {
		return a, nil
	}
	a, err := New(id)
	if err != nil {
		return nil, err
	}
	if err := m.Register(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns the registered ability with the given id.
func (m *Manager) Get(id string) (*Ability, bool) {
	a, ok := m.abilities[id]
	return a, ok
}

// Abilities returns every registered ability in registration order.
func (m *Manager) Abilities() []*Ability {
	result := make([]*Ability, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.abilities[id])
	}
	return result
}

// Equip places a registered ability into slot.
func (m *Manager) Equip(slot int, id string) error {
	if slot < 0 || slot >= SlotCount {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	a, ok := m.abilities[id]
	if !ok {
		return fmt.Errorf("%w: %q is not registered", ErrUnknownAbility, id)
	}
	m.slots[slot] = a
	return nil
}

// Unequip clears slot.
func (m *Manager) Unequip(slot int) error {
	if slot < 0 || slot >= SlotCount {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	m.slots[slot] = nil
	return nil
}

// Slot returns the ability equipped in slot, or nil.
func (m *Manager) Slot(slot int) *Ability {
	if slot < 0 || slot >= SlotCount {
		return nil
	}
	return m.slots[slot]
}

// ActivateSlot activates the ability in slot and reports whether it did.
// Empty and out-of-range slots are a no-op.
func (m *Manager) ActivateSlot(slot int) bool {
	a := m.Slot(slot)
	if a == nil {
		return false
	}
	if !a.TryActivate(m.context()) {
		return false
	}
	if a.Active() {
		m.active[a.ID()] = a
	}
	return true
}

// Update advances every registered ability, equipped or not.
func (m *Manager) Update(dt float64) {
	ctx := m.context()
	for _, id := range m.order {
		m.abilities[id].Update(dt, ctx)
	}
	for id, a := range m.active {
		if !a.Active() {
			delete(m.active, id)
		}
	}
}

// EndTick closes the input window of every ability.
func (m *Manager) EndTick() {
	for _, a := range m.abilities {
		a.EndTick()
	}
}

// Active returns the currently active abilities sorted by id.
func (m *Manager) Active() []*Ability {
	result := make([]*Ability, 0, len(m.active))
	for _, a := range m.active {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result
}

// IsActive reports whether the ability id is in the active set.
func (m *Manager) IsActive(id string) bool {
	_, ok := m.active[id]
	return ok
}

// ForceResetAll resets every ability and empties the active set.
func (m *Manager) ForceResetAll() {
	for _, a := range m.abilities {
		a.ForceReset()
	}
	clear(m.active)
}

// SaveState captures every ability and the slot layout.
func (m *Manager) SaveState() Loadout {
	l := Loadout{
		Version:   LoadoutVersion,
		Abilities: make(map[string]State, len(m.abilities)),
	}
	for id, a := range m.abilities {
		l.Abilities[id] = a.SaveState()
	}
	for i, a := range m.slots {
		if a != nil {
			l.Equipped[i] = a.ID()
		}
	}
	return l
}

// LoadState restores a Loadout. Skills missing from the registry are learned
// from the catalog; ids the catalog does not know are skipped. Registered
// abilities absent from the record keep their current state after a reset.
func (m *Manager) LoadState(l Loadout) error {
	m.ForceResetAll()

	ids := make([]string, 0, len(l.Abilities))
	for id := range l.Abilities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !Known(id) && m.abilities[id] == nil {
			continue
		}
		a, err := m.Learn(id)
		if err != nil {
			return err
		}
		if err := a.LoadState(l.Abilities[id]); err != nil {
			return err
		}
		if a.Active() {
			m.active[id] = a
		}
	}

	for i, id := range l.Equipped {
		if id == "" {
			m.slots[i] = nil
			continue
		}
		if a, ok := m.abilities[id]; ok {
			m.slots[i] = a
		}
	}
	return nil
}
