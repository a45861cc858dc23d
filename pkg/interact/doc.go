// Package interact translates user gestures into simulation mutations.
//
// A [Controller] is the only writer of a [sim.Simulation] while a view is
// live. Every input is an [Event] value passed to [Controller.Dispatch];
// handlers look nodes up by id on each call and never hold on to node state.
//
//	c := interact.New(s, interact.DefaultConfig(), listener)
//	c.Dispatch(interact.DragStart{NodeID: "Ada", Pointer: p})
//	c.Dispatch(interact.DragMove{Pointer: q})
//	c.Dispatch(interact.DragEnd{})
//
// Pointers are in screen space. The controller maps them into model space
// through the inverse of the current view [Transform]; zooming and panning
// only change that transform, never node positions.
//
// Hover and click produce notifications on the [Listener] instead of touching
// the simulation.
package interact
