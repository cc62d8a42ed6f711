package core

// Action represents a semantic control action, abstracted from physical key presses.
// The input collaborator maps keys to actions; the simulation only sees actions.
type Action int

const (
	ActionNone          Action = iota
	ActionToggleControl        // Space - take or release a command center
	ActionFire                 // G - fire all cannons of the piloted structure
	ActionBrake                // X - decelerate the controlled body
	ActionRotateLeft           // Q - counterclockwise
	ActionRotateRight          // E - clockwise
	ActionPause                // P - pause/unpause
	ActionQuit                 // Q/Ctrl+C in the UI - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionToggleControl:
		return "ToggleControl"
	case ActionFire:
		return "Fire"
	case ActionBrake:
		return "Brake"
	case ActionRotateLeft:
		return "RotateLeft"
	case ActionRotateRight:
		return "RotateRight"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input of one agent during a single simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool

	// Move is the requested movement direction. Normalized by the consumer.
	Move Vec2
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

// AddMove accumulates a movement direction for this frame.
func (f *InputFrame) AddMove(dx, dy float64) {
	f.Move = f.Move.Add(V(dx, dy))
}

// Rotation returns the rotation factor requested this frame:
// +1 counterclockwise, -1 clockwise, 0 when both or neither are pressed.
func (f InputFrame) Rotation() float64 {
	var r float64
	if f.Has(ActionRotateLeft) {
		r++
	}
	if f.Has(ActionRotateRight) {
		r--
	}
	return r
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Move = Vec2{}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Move = f.Move
	return clone
}
