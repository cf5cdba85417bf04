package core

// PlayerIndex identifies one of the (at most two) local players.
type PlayerIndex int

const (
	Player1 PlayerIndex = iota
	Player2
)

// MaxPlayers is the number of local player seats.
const MaxPlayers = 2

func (p PlayerIndex) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return "P?"
	}
}

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the simulation to work with intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // move up
	ActionDown            // move down
	ActionLeft            // move left
	ActionRight           // move right
	ActionSkill1          // activate equip slot 0
	ActionSkill2          // activate equip slot 1
	ActionSkill3          // activate equip slot 2
	ActionSkill4          // activate equip slot 3
	ActionInteract        // unlock / use what the player faces
	ActionPause           // menu pause toggle
)

// SkillSlot returns the equip slot bound to a skill action, or -1.
func (a Action) SkillSlot() int {
	switch a {
	case ActionSkill1:
		return 0
	case ActionSkill2:
		return 1
	case ActionSkill3:
		return 2
	case ActionSkill4:
		return 3
	default:
		return -1
	}
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionSkill1:
		return "Skill1"
	case ActionSkill2:
		return "Skill2"
	case ActionSkill3:
		return "Skill3"
	case ActionSkill4:
		return "Skill4"
	case ActionInteract:
		return "Interact"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// SkillActions lists the slot activation actions in slot order.
var SkillActions = [4]Action{ActionSkill1, ActionSkill2, ActionSkill3, ActionSkill4}

// InputFrame represents the input state for a single player during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool

	// Pointer is the tile under the pointer, if the input device has one.
	Pointer *Point
	// PointerCaptured is set while unrelated UI owns the pointer.
	PointerCaptured bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// SetPointer records the pointer tile for this frame.
func (f *InputFrame) SetPointer(p Point) {
	f.Pointer = &p
}

// MoveDirection resolves the move actions into a single direction.
// Vertical intents win over horizontal ones when both are held.
func (f InputFrame) MoveDirection() Direction {
	switch {
	case f.Has(ActionUp):
		return DirUp
	case f.Has(ActionDown):
		return DirDown
	case f.Has(ActionLeft):
		return DirLeft
	case f.Has(ActionRight):
		return DirRight
	default:
		return DirNone
	}
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointer = nil
	f.PointerCaptured = false
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	if f.Pointer != nil {
		p := *f.Pointer
		clone.Pointer = &p
	}
	clone.PointerCaptured = f.PointerCaptured
	return clone
}

// MultiInputFrame contains input from all players for a single tick.
type MultiInputFrame struct {
	// ByPlayer maps player indices to their input frames.
	ByPlayer map[PlayerIndex]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerIndex]InputFrame),
	}
}

// Player returns the input frame for a specific player.
// Returns an empty frame if player has no input.
func (m MultiInputFrame) Player(id PlayerIndex) InputFrame {
	if m.ByPlayer == nil {
		return NewInputFrame()
	}
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer sets the input frame for a specific player.
func (m *MultiInputFrame) SetPlayer(id PlayerIndex, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerIndex]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// Clear resets all player inputs for the next frame.
func (m *MultiInputFrame) Clear() {
	for id := range m.ByPlayer {
		frame := m.ByPlayer[id]
		frame.Clear()
		m.ByPlayer[id] = frame
	}
}

// Clone creates a deep copy of this multi-input frame.
func (m MultiInputFrame) Clone() MultiInputFrame {
	clone := NewMultiInputFrame()
	for id, frame := range m.ByPlayer {
		clone.ByPlayer[id] = frame.Clone()
	}
	return clone
}
