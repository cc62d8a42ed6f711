package combat

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// Event is a notification emitted by the world for UI and debug consumers.
// The set of events is closed.
type Event interface {
	// Kind returns the stable wire name of the event.
	Kind() string
	event()
}

// Event kind names.
const (
	KindModuleDestroyed        = "module_destroyed"
	KindModuleDamaged          = "module_damaged"
	KindStructureDepressurized = "structure_depressurized"
	KindModuleDetached         = "module_detached"
	KindControlTaken           = "control_taken"
	KindControlReleased        = "control_released"
	KindAgentEntered           = "agent_entered"
	KindAgentExited            = "agent_exited"
	KindProjectileFired        = "projectile_fired"
)

// ModuleDestroyed is emitted when a module's structural points reach zero.
type ModuleDestroyed struct {
	Module    core.EntityID   `json:"module"`
	Structure core.EntityID   `json:"structure"`
	At        structure.Coord `json:"at"`
}

func (ModuleDestroyed) Kind() string { return KindModuleDestroyed }
func (ModuleDestroyed) event()       {}

// ModuleDamaged is emitted when a hit leaves the module alive.
type ModuleDamaged struct {
	Module    core.EntityID `json:"module"`
	Amount    float64       `json:"amount"`
	Remaining float64       `json:"remaining"`
}

func (ModuleDamaged) Kind() string { return KindModuleDamaged }
func (ModuleDamaged) event()       {}

// StructureDepressurized is emitted when a destruction opens a sealed
// region of the structure to outer space.
type StructureDepressurized struct {
	Structure core.EntityID `json:"structure"`
}

func (StructureDepressurized) Kind() string { return KindStructureDepressurized }
func (StructureDepressurized) event()       {}

// ModuleDetached is emitted when a breach tears a module off its structure.
type ModuleDetached struct {
	Module    core.EntityID   `json:"module"`
	Structure core.EntityID   `json:"structure"`
	At        structure.Coord `json:"at"`
	Impulse   core.Vec2       `json:"impulse"`
}

func (ModuleDetached) Kind() string { return KindModuleDetached }
func (ModuleDetached) event()       {}

// ControlTaken is emitted when an agent starts piloting a structure.
type ControlTaken struct {
	Agent     core.EntityID `json:"agent"`
	Structure core.EntityID `json:"structure"`
	Module    core.EntityID `json:"module"`
}

func (ControlTaken) Kind() string { return KindControlTaken }
func (ControlTaken) event()       {}

// ControlReleased is emitted when piloting ends, either voluntarily or
// because the command center was lost.
type ControlReleased struct {
	Agent     core.EntityID `json:"agent"`
	Structure core.EntityID `json:"structure"`
	Module    core.EntityID `json:"module"`
	Reason    string        `json:"reason"`
}

func (ControlReleased) Kind() string { return KindControlReleased }
func (ControlReleased) event()       {}

// Release reasons.
const (
	ReleaseVoluntary = "voluntary"
	ReleaseDestroyed = "destroyed"
	ReleaseDetached  = "detached"
)

// AgentEntered is emitted when an agent moves inside a structure's bounds.
type AgentEntered struct {
	Agent     core.EntityID `json:"agent"`
	Structure core.EntityID `json:"structure"`
}

func (AgentEntered) Kind() string { return KindAgentEntered }
func (AgentEntered) event()       {}

// AgentExited is emitted when an agent leaves a structure's bounds.
type AgentExited struct {
	Agent     core.EntityID `json:"agent"`
	Structure core.EntityID `json:"structure"`
}

func (AgentExited) Kind() string { return KindAgentExited }
func (AgentExited) event()       {}

// ProjectileFired is emitted for every round a cannon spawns.
type ProjectileFired struct {
	Projectile core.EntityID `json:"projectile"`
	Structure  core.EntityID `json:"structure"`
	Cannon     core.EntityID `json:"cannon"`
}

func (ProjectileFired) Kind() string { return KindProjectileFired }
func (ProjectileFired) event()       {}

// DecodeEvent rebuilds a typed event from its kind and JSON payload.
func DecodeEvent(kind string, data []byte) (Event, error) {
	var ev Event
	switch kind {
	case KindModuleDestroyed:
		ev = decodeAs[ModuleDestroyed](data)
	case KindModuleDamaged:
		ev = decodeAs[ModuleDamaged](data)
	case KindStructureDepressurized:
		ev = decodeAs[StructureDepressurized](data)
	case KindModuleDetached:
		ev = decodeAs[ModuleDetached](data)
	case KindControlTaken:
		ev = decodeAs[ControlTaken](data)
	case KindControlReleased:
		ev = decodeAs[ControlReleased](data)
	case KindAgentEntered:
		ev = decodeAs[AgentEntered](data)
	case KindAgentExited:
		ev = decodeAs[AgentExited](data)
	case KindProjectileFired:
		ev = decodeAs[ProjectileFired](data)
	default:
		return nil, fmt.Errorf("combat: unknown event kind %q", kind)
	}
	if ev == nil {
		return nil, fmt.Errorf("combat: decode %s: malformed payload", kind)
	}
	return ev, nil
}

func decodeAs[T Event](data []byte) Event {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}

// Describe returns a one-line human readable summary of an event.
func Describe(e Event) string {
	switch ev := e.(type) {
	case ModuleDestroyed:
		return fmt.Sprintf("module %s of structure %s destroyed at %s", ev.Module, ev.Structure, ev.At)
	case ModuleDamaged:
		return fmt.Sprintf("module %s took %.1f damage (%.1f left)", ev.Module, ev.Amount, ev.Remaining)
	case StructureDepressurized:
		return fmt.Sprintf("structure %s depressurized", ev.Structure)
	case ModuleDetached:
		return fmt.Sprintf("module %s torn from structure %s at %s", ev.Module, ev.Structure, ev.At)
	case ControlTaken:
		return fmt.Sprintf("agent %s took control of structure %s", ev.Agent, ev.Structure)
	case ControlReleased:
		return fmt.Sprintf("agent %s released structure %s (%s)", ev.Agent, ev.Structure, ev.Reason)
	case AgentEntered:
		return fmt.Sprintf("agent %s entered structure %s", ev.Agent, ev.Structure)
	case AgentExited:
		return fmt.Sprintf("agent %s left structure %s", ev.Agent, ev.Structure)
	case ProjectileFired:
		return fmt.Sprintf("structure %s fired %s from cannon %s", ev.Structure, ev.Projectile, ev.Cannon)
	default:
		return e.Kind()
	}
}
