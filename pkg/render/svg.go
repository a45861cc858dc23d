package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/coauthornet/pkg/sim"
)

const svgStyle = `
    .link { stroke: grey; stroke-opacity: 0.6; }
    .node circle { stroke: #fff; stroke-width: 1; }
    .node.fixed circle { stroke: #333; stroke-width: 2; }
    .node text { font: 10px sans-serif; pointer-events: none; }`

// RenderSVG draws f as a standalone SVG document.
func RenderSVG(f sim.Frame, opts ...Option) []byte {
	o := newOptions(opts)
	o.resolveView(f)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		o.width, o.height, o.width, o.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)

	buf.WriteString(`  <g class="links">` + "\n")
	for _, l := range f.Links {
		a := o.project(sim.Point{X: l.X1, Y: l.Y1})
		b := o.project(sim.Point{X: l.X2, Y: l.Y2})
		fmt.Fprintf(&buf, `    <line class="link" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"%s/>`+"\n",
			a.X, a.Y, b.X, b.Y, o.linkOpacity(l))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range f.Nodes {
		writeSVGNode(&buf, o, n)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func writeSVGNode(buf *bytes.Buffer, o options, n sim.NodeFrame) {
	p := o.project(sim.Point{X: n.X, Y: n.Y})
	class := "node"
	if n.Fixed {
		class += " fixed"
	}
	fmt.Fprintf(buf, `    <g class="%s" id="node-%s">`, class, html.EscapeString(n.ID))
	fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s>`,
		p.X, p.Y, n.Radius*o.view.K, html.EscapeString(n.Color), o.nodeOpacity(n.ID))
	fmt.Fprintf(buf, "<title>%s</title></circle>", html.EscapeString(o.title(n.ID)))
	if o.labels {
		fmt.Fprintf(buf, `<text x="%.2f" y="%.2f">%s</text>`, p.X+n.Radius*o.view.K+2, p.Y+3, html.EscapeString(n.ID))
	}
	buf.WriteString("</g>\n")
}

func (o options) title(id string) string {
	if o.graph == nil {
		return id
	}
	n, ok := o.graph.Lookup(id)
	if !ok {
		return id
	}
	return strings.Join(Tooltip(n.Meta), "\n")
}

func (o options) nodeOpacity(id string) string {
	if o.highlight == nil || o.highlight.Contains(id) {
		return ""
	}
	return fmt.Sprintf(` opacity="%.1f"`, DimOpacity)
}

func (o options) linkOpacity(l sim.LinkFrame) string {
	if o.highlight == nil || (o.highlight.Contains(l.Source) && o.highlight.Contains(l.Target)) {
		return ""
	}
	return fmt.Sprintf(` opacity="%.1f"`, DimOpacity)
}
