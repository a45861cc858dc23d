package interact

import "github.com/matzehuels/coauthornet/pkg/sim"

// Event is one user input. The set of events is closed.
type Event interface {
	event()
}

// DragStart grabs a node. Pointer is in screen space.
type DragStart struct {
	NodeID  string
	Pointer sim.Point
}

// DragMove moves the grabbed node with the pointer.
type DragMove struct {
	Pointer sim.Point
}

// DragEnd releases the grabbed node.
type DragEnd struct{}

// Hover enters a node.
type Hover struct {
	NodeID string
}

// HoverEnd leaves the hovered node.
type HoverEnd struct{}

// Click selects a node.
type Click struct {
	NodeID string
}

// Zoom replaces the view transform.
type Zoom struct {
	Transform Transform
}

// SetForceParameters changes any subset of the live-tunable forces.
// Nil fields are left as they are.
type SetForceParameters struct {
	Charge            *float64
	CollideMultiplier *float64
	LinkStrength      *float64
}

func (DragStart) event()          {}
func (DragMove) event()           {}
func (DragEnd) event()            {}
func (Hover) event()              {}
func (HoverEnd) event()           {}
func (Click) event()              {}
func (Zoom) event()               {}
func (SetForceParameters) event() {}

// Float returns a pointer to v, for building [SetForceParameters].
func Float(v float64) *float64 { return &v }
