package ability

import (
	"errors"
	"testing"
)

func TestNewManagerRequiresOwner(t *testing.T) {
	if _, err := NewManager(nil); !errors.Is(err, ErrNilOwner) {
		t.Errorf("NewManager(nil) error = %v, expected ErrNilOwner", err)
	}
}

func TestDefaultManagerLoadout(t *testing.T) {
	m, err := NewDefaultManager(newFakeOwner())
	if err != nil {
		t.Fatalf("NewDefaultManager() failed: %v", err)
	}

	for slot, id := range DefaultLoadout {
		a := m.Slot(slot)
		if id == "" {
			if a != nil {
				t.Errorf("slot %d = %q, expected empty", slot, a.ID())
			}
			continue
		}
		if a == nil || a.ID() != id {
			t.Errorf("slot %d = %v, expected %q", slot, a, id)
		}
	}
}

func TestActivateSlotEmptyOrOutOfRange(t *testing.T) {
	m, err := NewDefaultManager(newFakeOwner())
	if err != nil {
		t.Fatalf("NewDefaultManager() failed: %v", err)
	}

	for _, slot := range []int{-1, 3, SlotCount, 100} {
		if m.ActivateSlot(slot) {
			t.Errorf("ActivateSlot(%d) = true, expected no-op", slot)
		}
	}
	if len(m.Active()) != 0 {
		t.Errorf("Active() = %d abilities, expected none", len(m.Active()))
	}
}

func TestActiveSetTracking(t *testing.T) {
	owner := newFakeOwner()
	m, err := NewDefaultManager(owner)
	if err != nil {
		t.Fatalf("NewDefaultManager() failed: %v", err)
	}

	// Slash never becomes active.
	if !m.ActivateSlot(0) {
		t.Fatal("ActivateSlot(0) failed")
	}
	if m.IsActive(IDSlash) {
		t.Error("slash entered the active set")
	}

	// Two dashes in a row keep a single entry.
	m.ActivateSlot(1)
	m.ActivateSlot(1)
	if got := len(m.Active()); got != 1 || !m.IsActive(IDDash) {
		t.Errorf("Active() has %d entries, expected only dash", got)
	}

	m.Update(0.5)
	if m.IsActive(IDDash) {
		t.Error("dash still in the active set after its window ended")
	}
	if len(owner.deactivated) == 0 {
		t.Error("owner was not told about the deactivation")
	}
}

func TestEndTickReopensInput(t *testing.T) {
	m, err := NewDefaultManager(newFakeOwner())
	if err != nil {
		t.Fatalf("NewDefaultManager() failed: %v", err)
	}
	burst, _ := m.Get(IDArcaneBurst)

	if !m.ActivateSlot(2) {
		t.Fatal("aim activation failed")
	}
	m.Update(0.2)
	if !m.ActivateSlot(2) || burst.Phase() != PhaseExecuted {
		t.Fatalf("phase = %v, expected executed", burst.Phase())
	}

	// No Update runs between frames, as during a level transition.
	if m.ActivateSlot(2) {
		t.Error("second activation within one frame was honored")
	}
	m.EndTick()
	if !m.ActivateSlot(2) {
		t.Fatal("activation after EndTick was rejected")
	}
	if burst.Phase() != PhaseCooldown {
		t.Errorf("phase = %v, expected cooldown", burst.Phase())
	}
}

func TestManagerRegistryErrors(t *testing.T) {
	m, err := NewManager(newFakeOwner())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	if err := m.Equip(0, IDDash); !errors.Is(err, ErrUnknownAbility) {
		t.Errorf("Equip() of unregistered skill error = %v", err)
	}

	first, err := m.Learn(IDDash)
	if err != nil {
		t.Fatalf("Learn() failed: %v", err)
	}
	again, err := m.Learn(IDDash)
	if err != nil || again != first {
		t.Error("Learn() of a known skill must return the existing instance")
	}

	if err := m.Register(NewDash()); !errors.Is(err, ErrDuplicateAbility) {
		t.Errorf("Register() duplicate error = %v", err)
	}
	if err := m.Equip(SlotCount, IDDash); !errors.Is(err, ErrSlotOutOfRange) {
		t.Errorf("Equip() out of range error = %v", err)
	}
	if err := m.Unequip(-1); !errors.Is(err, ErrSlotOutOfRange) {
		t.Errorf("Unequip() out of range error = %v", err)
	}
	if _, err := m.Learn("fireball"); !errors.Is(err, ErrUnknownAbility) {
		t.Errorf("Learn() unknown error = %v", err)
	}
}

func TestManagerSaveLoad(t *testing.T) {
	owner := newFakeOwner()
	src, err := NewDefaultManager(owner)
	if err != nil {
		t.Fatalf("NewDefaultManager() failed: %v", err)
	}
	src.ActivateSlot(1)
	src.Update(0.125)
	if err := src.Unequip(0); err != nil {
		t.Fatalf("Unequip() failed: %v", err)
	}
	if err := src.Equip(3, IDSlash); err != nil {
		t.Fatalf("Equip() failed: %v", err)
	}

	saved := src.SaveState()
	// Unknown ids in a record come from newer builds and are skipped.
	saved.Abilities["meteor"] = State{Level: 3}

	dst, err := NewManager(newFakeOwner())
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	if err := dst.LoadState(saved); err != nil {
		t.Fatalf("LoadState() failed: %v", err)
	}

	if dst.Slot(0) != nil {
		t.Error("slot 0 should be empty")
	}
	if a := dst.Slot(3); a == nil || a.ID() != IDSlash {
		t.Errorf("slot 3 = %v, expected slash", a)
	}
	if _, ok := dst.Get("meteor"); ok {
		t.Error("unknown skill was learned")
	}
	dash, ok := dst.Get(IDDash)
	if !ok {
		t.Fatal("dash missing after LoadState")
	}
	if dash.Charges() != 1 || !dash.Active() || !dst.IsActive(IDDash) {
		t.Errorf("dash charges=%d active=%v, expected 1 charge mid dash", dash.Charges(), dash.Active())
	}
}

func TestForceResetAll(t *testing.T) {
	m, err := NewDefaultManager(newFakeOwner())
	if err != nil {
		t.Fatalf("NewDefaultManager() failed: %v", err)
	}
	m.ActivateSlot(0)
	m.ActivateSlot(1)
	m.ActivateSlot(2)
	m.ForceResetAll()

	for _, a := range m.Abilities() {
		if !a.Ready() || a.Active() {
			t.Errorf("%s not reset", a.ID())
		}
	}
	if len(m.Active()) != 0 {
		t.Error("active set not cleared")
	}
}

func TestCatalog(t *testing.T) {
	if _, err := New("nope"); !errors.Is(err, ErrUnknownAbility) {
		t.Errorf("New(nope) error = %v, expected ErrUnknownAbility", err)
	}

	infos := List()
	if len(infos) < 3 {
		t.Fatalf("List() = %v, expected the shipped skills", infos)
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].ID > infos[i].ID {
			t.Error("List() is not sorted by id")
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Register() of a duplicate id did not panic")
		}
	}()
	Register(IDSlash, NewSlash)
}
