package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/coauthornet/pkg/force"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/interact"
	"github.com/matzehuels/coauthornet/pkg/render"
	"github.com/matzehuels/coauthornet/pkg/session"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

const (
	headerRows = 1
	footerRows = 2
	panelWidth = 36

	zoomStep   = 1.25
	panStep    = 4 * render.CellWidth
	pickRadius = render.CellHeight
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			Width(panelWidth - 2)
	sliderFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	linkStyle        = lipgloss.NewStyle().Foreground(colorDim)
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

// =============================================================================
// Pointer input
// =============================================================================

type pointerAction int

const (
	pointerPress pointerAction = iota
	pointerMove
	pointerRelease
)

// pointerInput is a mouse action in controller screen space.
type pointerInput struct {
	action pointerAction
	at     sim.Point
}

// pointerTracker turns raw pointer input into controller events. A press on a
// node starts a drag; a release without movement in between is a click.
// It runs on the session loop.
type pointerTracker struct {
	pressed string
	moved   bool
}

func (t *pointerTracker) apply(c *interact.Controller, in pointerInput) {
	switch in.action {
	case pointerPress:
		t.pressed, t.moved = "", false
		id, ok := c.Nearest(in.at, pickRadius)
		if !ok {
			return
		}
		t.pressed = id
		c.Dispatch(interact.DragStart{NodeID: id, Pointer: in.at})
	case pointerMove:
		if _, ok := c.Dragging(); ok {
			t.moved = true
			c.Dispatch(interact.DragMove{Pointer: in.at})
			return
		}
		if id, ok := c.Nearest(in.at, pickRadius); ok {
			c.Dispatch(interact.Hover{NodeID: id})
		} else {
			c.Dispatch(interact.HoverEnd{})
		}
	case pointerRelease:
		if _, ok := c.Dragging(); ok {
			c.Dispatch(interact.DragEnd{})
		}
		if t.pressed != "" && !t.moved {
			c.Dispatch(interact.Click{NodeID: t.pressed})
		}
		t.pressed = ""
	}
}

// =============================================================================
// Session bridge
// =============================================================================

// Messages delivered to the viewer.
type (
	updateMsg session.Update
	viewMsg   interact.Transform
	closedMsg struct{}
)

// dispatchFn queues a pointerInput or an interact.Event for the session.
type dispatchFn func(any)

// bridge connects a session to a bubbletea program: inputs are applied in
// order on the session loop, and updates plus view changes come back through
// one inbox.
type bridge struct {
	inputs chan any
	inbox  chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

func newBridge(ctx context.Context, sess *session.Session) *bridge {
	b := &bridge{
		inputs: make(chan any, 256),
		inbox:  make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
	updates, unsubscribe := sess.Subscribe()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for u := range updates {
			if !b.deliver(updateMsg(u)) {
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		defer unsubscribe()
		var tracker pointerTracker
		for {
			var in any
			select {
			case in = <-b.inputs:
			case <-b.done:
				return
			}
			var view interact.Transform
			err := sess.Do(ctx, func(_ *sim.Simulation, c *interact.Controller) {
				switch in := in.(type) {
				case pointerInput:
					tracker.apply(c, in)
				case interact.Event:
					c.Dispatch(in)
				}
				view = c.View()
			})
			if err != nil || !b.deliver(viewMsg(view)) {
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(b.inbox)
	}()
	return b
}

func (b *bridge) deliver(msg tea.Msg) bool {
	select {
	case b.inbox <- msg:
		return true
	case <-b.done:
		return false
	}
}

// send queues an input, dropping it when the session falls behind.
func (b *bridge) send(in any) {
	select {
	case b.inputs <- in:
	default:
	}
}

func (b *bridge) close() {
	b.once.Do(func() { close(b.done) })
}

func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.inbox
		if !ok {
			return closedMsg{}
		}
		return msg
	}
}

// =============================================================================
// Viewer model
// =============================================================================

// sliderSpec describes one adjustable force.
type sliderSpec struct {
	name     string
	step     float64
	min, max float64
}

var sliderSpecs = []sliderSpec{
	{"charge", 10, force.MinCharge, force.MaxCharge},
	{"collision", 1, 0, 120},
	{"link", 0.05, 0, 1},
}

// viewerModel is the bubbletea model of `coauthornet view`.
type viewerModel struct {
	title    string
	graph    *graph.Graph
	cfg      interact.Config
	dispatch dispatchFn
	wait     tea.Cmd

	grid      *render.Grid
	frame     sim.Frame
	view      interact.Transform
	highlight *interact.Highlight
	selected  *graph.Metadata
	slider    interact.Slider
	focus     int

	width, height int
	closed        bool
}

func newViewerModel(title string, g *graph.Graph, cfg interact.Config, params force.Params, dispatch dispatchFn, wait tea.Cmd) viewerModel {
	return viewerModel{
		title:    title,
		graph:    g,
		cfg:      cfg,
		dispatch: dispatch,
		wait:     wait,
		grid:     render.NewGrid(80, 20),
		view:     interact.Identity,
		slider: interact.Slider{
			ChargeStrength:  params.Charge,
			CollisionRadius: params.CollideMultiplier * cfg.CollideBaseline,
			LinkStrength:    params.LinkStrength,
		},
	}
}

func (m viewerModel) Init() tea.Cmd {
	return m.wait
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.grid = render.NewGrid(m.gridCols(), max(msg.Height-headerRows-footerRows, 1))
	case updateMsg:
		switch msg.Kind {
		case session.KindFrame:
			m.frame = *msg.Frame
		case session.KindHoverChanged:
			m.highlight = msg.Highlight
		case session.KindNodeSelected:
			m.selected = msg.Selected
		}
		return m, m.wait
	case viewMsg:
		m.view = interact.Transform(msg)
		return m, m.wait
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m viewerModel) gridCols() int {
	if m.width >= 2*panelWidth {
		return m.width - panelWidth
	}
	return max(m.width, 1)
}

// inGrid maps a terminal position to controller screen space.
func (m viewerModel) inGrid(x, y int) (sim.Point, bool) {
	row := y - headerRows
	if x < 0 || x >= m.grid.Cols || row < 0 || row >= m.grid.Rows {
		return sim.Point{}, false
	}
	return m.grid.ViewPoint(x, row), true
}

func (m viewerModel) mouse(msg tea.MouseMsg) {
	pt, ok := m.inGrid(msg.X, msg.Y)
	if !ok && msg.Action != tea.MouseActionRelease {
		return
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoom(pt, zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoom(pt, 1/zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dispatch(pointerInput{action: pointerPress, at: pt})
	case msg.Action == tea.MouseActionMotion:
		m.dispatch(pointerInput{action: pointerMove, at: pt})
	case msg.Action == tea.MouseActionRelease:
		m.dispatch(pointerInput{action: pointerRelease, at: pt})
	}
}

func (m viewerModel) zoom(at sim.Point, factor float64) {
	m.dispatch(interact.Zoom{Transform: m.view.ZoomAt(at, factor, m.cfg.MinScale, m.cfg.MaxScale)})
}

func (m viewerModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.selected = nil
	case "+", "=":
		m.zoom(sim.Point{}, zoomStep)
	case "-", "_":
		m.zoom(sim.Point{}, 1/zoomStep)
	case "0":
		m.dispatch(interact.Zoom{Transform: interact.Identity})
	case "left", "h":
		m.dispatch(interact.Zoom{Transform: m.view.PanBy(panStep, 0)})
	case "right", "l":
		m.dispatch(interact.Zoom{Transform: m.view.PanBy(-panStep, 0)})
	case "up", "k":
		m.dispatch(interact.Zoom{Transform: m.view.PanBy(0, panStep)})
	case "down", "j":
		m.dispatch(interact.Zoom{Transform: m.view.PanBy(0, -panStep)})
	case "tab":
		m.focus = (m.focus + 1) % len(sliderSpecs)
	case "[":
		m.slider = m.nudge(-1)
		m.dispatch(m.slider.Event(m.cfg.CollideBaseline))
	case "]":
		m.slider = m.nudge(1)
		m.dispatch(m.slider.Event(m.cfg.CollideBaseline))
	}
	return m, nil
}

// nudge moves the focused slider one step in dir, within its range.
func (m viewerModel) nudge(dir float64) interact.Slider {
	s := m.slider
	spec := sliderSpecs[m.focus]
	v := []*float64{&s.ChargeStrength, &s.CollisionRadius, &s.LinkStrength}[m.focus]
	*v = min(max(*v+dir*spec.step, spec.min), spec.max)
	return s
}

func (m viewerModel) View() string {
	if m.closed {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')

	m.grid.Draw(m.frame, m.view, m.highlight)
	canvas := m.canvas()
	if m.grid.Cols < m.width {
		canvas = lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.panel())
	}
	b.WriteString(canvas)
	b.WriteByte('\n')
	b.WriteString(m.sliders())
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render("drag/click nodes  wheel,+/- zoom  arrows pan  0 reset  tab/[ ] forces  esc close  q quit"))
	return b.String()
}

func (m viewerModel) header() string {
	state := m.frame.State.String()
	return StyleTitle.Render(m.title) + "  " + StyleDim.Render(fmt.Sprintf(
		"%d authors · %d links · tick %d · α %.3f · %s · zoom %.2f",
		m.graph.NodeCount(), m.graph.LinkCount(), m.frame.Tick, m.frame.Alpha, state, m.view.K))
}

// canvas renders the grid, styling runs of equal cells together.
func (m viewerModel) canvas() string {
	var b strings.Builder
	for row := 0; row < m.grid.Rows; row++ {
		var run strings.Builder
		var style lipgloss.Style
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(style.Render(run.String()))
				run.Reset()
			}
		}
		var prev render.Cell
		for col := 0; col < m.grid.Cols; col++ {
			c := m.grid.At(col, row)
			if col == 0 || c.Color != prev.Color || c.Dim != prev.Dim || (c.Rune == render.GlyphLink) != (prev.Rune == render.GlyphLink) {
				flush()
				style = cellStyle(c)
			}
			run.WriteRune(c.Rune)
			prev = c
		}
		flush()
		if row < m.grid.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellStyle(c render.Cell) lipgloss.Style {
	switch {
	case c.Dim:
		return dimStyle
	case c.Color != "":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
	case c.Rune == render.GlyphLink:
		return linkStyle
	}
	return lipgloss.NewStyle()
}

// panel shows the selected author, or the hovered group.
func (m viewerModel) panel() string {
	var lines []string
	switch {
	case m.selected != nil:
		lines = render.Tooltip(*m.selected)
	case m.highlight != nil:
		lines = []string{
			fmt.Sprintf("%s: %s", m.highlight.Key, m.highlight.Value),
			fmt.Sprintf("%d authors", len(m.highlight.Peers)),
		}
	default:
		lines = []string{StyleDim.Render("click an author for details")}
	}
	return panelStyle.Height(max(m.grid.Rows-2, 1)).Render(strings.Join(lines, "\n"))
}

func (m viewerModel) sliders() string {
	values := []string{
		fmt.Sprintf("%.0f", m.slider.ChargeStrength),
		fmt.Sprintf("%.0f", m.slider.CollisionRadius),
		fmt.Sprintf("%.2f", m.slider.LinkStrength),
	}
	parts := make([]string, len(sliderSpecs))
	for i, spec := range sliderSpecs {
		s := spec.name + " " + values[i]
		if i == m.focus {
			s = sliderFocusStyle.Render("▸ " + s)
		} else {
			s = StyleDim.Render("  " + s)
		}
		parts[i] = s
	}
	return strings.Join(parts, "   ")
}
