package interact

import (
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

// Controller applies events to a simulation and a view transform.
// It is not safe for concurrent use.
type Controller struct {
	sim      *sim.Simulation
	cfg      Config
	listener Listener
	view     Transform

	drag       string    // id of the dragged node, "" when idle
	dragOffset sim.Point // node position minus pointer, in model space
	hover      string
	selected   string
}

// New returns a controller for s. A nil listener discards notifications.
func New(s *sim.Simulation, cfg Config, l Listener) *Controller {
	if l == nil {
		l = ListenerFuncs{}
	}
	return &Controller{sim: s, cfg: cfg.normalize(), listener: l, view: Identity}
}

// Simulation returns the controlled simulation.
func (c *Controller) Simulation() *sim.Simulation { return c.sim }

// Config returns the normalized configuration.
func (c *Controller) Config() Config { return c.cfg }

// View returns the current view transform.
func (c *Controller) View() Transform { return c.view }

// Dragging returns the id of the node being dragged.
func (c *Controller) Dragging() (string, bool) { return c.drag, c.drag != "" }

// Hovered returns the id of the hovered node.
func (c *Controller) Hovered() (string, bool) { return c.hover, c.hover != "" }

// Selected returns the id of the last clicked node.
func (c *Controller) Selected() (string, bool) { return c.selected, c.selected != "" }

// Dispatch applies one event. Events naming unknown nodes are ignored.
func (c *Controller) Dispatch(e Event) {
	switch e := e.(type) {
	case DragStart:
		c.dragStart(e)
	case DragMove:
		c.dragMove(e)
	case DragEnd:
		c.dragEnd()
	case Hover:
		c.hoverNode(e.NodeID)
	case HoverEnd:
		c.hoverEnd()
	case Click:
		c.click(e.NodeID)
	case Zoom:
		c.view = e.Transform.Clamp(c.cfg.MinScale, c.cfg.MaxScale)
	case SetForceParameters:
		c.setForceParameters(e)
	}
}

func (c *Controller) dragStart(e DragStart) {
	x, y, ok := c.sim.Position(e.NodeID)
	if !ok {
		return
	}
	if c.drag != "" && c.drag != e.NodeID {
		c.sim.Unpin(c.drag)
	}
	ptr := c.view.Invert(e.Pointer)
	c.drag = e.NodeID
	c.dragOffset = sim.Point{X: x - ptr.X, Y: y - ptr.Y}

	c.sim.Pin(e.NodeID, x, y)
	c.sim.CancelCooldown()
	c.sim.SetAlphaTarget(c.cfg.DragAlphaTarget)
	if c.sim.State() == sim.Idle {
		c.sim.Restart(c.sim.Alpha())
	}
}

func (c *Controller) dragMove(e DragMove) {
	if c.drag == "" {
		return
	}
	ptr := c.view.Invert(e.Pointer)
	if !c.sim.Pin(c.drag, ptr.X+c.dragOffset.X, ptr.Y+c.dragOffset.Y) {
		// The node disappeared under the pointer.
		c.drag = ""
	}
}

func (c *Controller) dragEnd() {
	if c.drag == "" {
		return
	}
	c.sim.Unpin(c.drag)
	c.drag = ""
	c.sim.ScheduleCooldown(c.cfg.DragSettle)
}

func (c *Controller) hoverNode(id string) {
	if id == c.hover {
		return
	}
	n, ok := c.sim.Graph().Lookup(id)
	if !ok {
		return
	}
	c.hover = id
	c.listener.HoverChanged(c.highlightOf(n))
}

// Highlight returns the highlight of the hovered node, or nil.
func (c *Controller) Highlight() *Highlight {
	n, ok := c.sim.Graph().Lookup(c.hover)
	if c.hover == "" || !ok {
		return nil
	}
	return c.highlightOf(n)
}

func (c *Controller) highlightOf(n *graph.Node) *Highlight {
	return &Highlight{
		NodeID: n.ID,
		Key:    c.cfg.HighlightKey,
		Value:  graph.HighlightValue(n, c.cfg.HighlightKey),
		Peers:  c.sim.Graph().Peers(n, c.cfg.HighlightKey),
	}
}

func (c *Controller) hoverEnd() {
	if c.hover == "" {
		return
	}
	c.hover = ""
	c.listener.HoverChanged(nil)
}

func (c *Controller) click(id string) {
	n, ok := c.sim.Graph().Lookup(id)
	if !ok {
		return
	}
	c.selected = id
	c.listener.NodeSelected(n.Meta)
}

func (c *Controller) setForceParameters(e SetForceParameters) {
	p := c.sim.Params()
	if e.Charge != nil {
		p.Charge = *e.Charge
	}
	if e.CollideMultiplier != nil {
		p.CollideMultiplier = *e.CollideMultiplier
	}
	if e.LinkStrength != nil {
		p.LinkStrength = *e.LinkStrength
	}
	c.sim.Configure(p)
	c.sim.Restart(c.cfg.RestartAlpha)
	if c.drag == "" {
		c.sim.ScheduleCooldown(c.cfg.ParamCooldown)
	}
}

// NodeAt returns the topmost node whose circle contains the screen point.
// Later nodes are drawn on top of earlier ones.
func (c *Controller) NodeAt(screen sim.Point) (string, bool) {
	m := c.view.Invert(screen)
	nodes := c.sim.Graph().Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		x, y, _ := c.sim.Position(nodes[i].ID)
		dx, dy := m.X-x, m.Y-y
		if r := nodes[i].Radius; dx*dx+dy*dy <= r*r {
			return nodes[i].ID, true
		}
	}
	return "", false
}

// Nearest returns the node closest to the screen point within maxDist screen
// units. Coarse pointers (terminal cells) use it instead of [Controller.NodeAt].
func (c *Controller) Nearest(screen sim.Point, maxDist float64) (string, bool) {
	m := c.view.Invert(screen)
	limit := maxDist / c.view.K
	best, bestD := "", limit*limit
	for _, n := range c.sim.Graph().Nodes() {
		x, y, _ := c.sim.Position(n.ID)
		dx, dy := m.X-x, m.Y-y
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD = n.ID, d
		}
	}
	return best, best != ""
}

// ZoomAt zooms the view by factor around a screen point.
func (c *Controller) ZoomAt(screen sim.Point, factor float64) {
	c.Dispatch(Zoom{Transform: c.view.ZoomAt(screen, factor, c.cfg.MinScale, c.cfg.MaxScale)})
}

// PanBy pans the view by a screen-space offset.
func (c *Controller) PanBy(dx, dy float64) {
	c.Dispatch(Zoom{Transform: c.view.PanBy(dx, dy)})
}
