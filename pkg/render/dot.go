package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/coauthornet/pkg/sim"
)

// Graphviz output formats accepted by [RenderDOT].
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ToDOT writes f as an undirected DOT graph for neato. Every node is pinned
// ("pos" with "!") at its canvas position, so Graphviz only draws.
func ToDOT(f sim.Frame, opts ...Option) string {
	o := newOptions(opts)
	o.resolveView(f)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%.0f,%.0f\";\n", o.width, o.height)
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, color=white, penwidth=1];\n")
	fmt.Fprintf(&buf, "  edge [color=%s];\n\n", LinkColor)

	for _, n := range f.Nodes {
		p := o.project(sim.Point{X: n.X, Y: n.Y})
		d := 2 * n.Radius * o.view.K / 72
		fill := n.Color
		if o.highlight != nil && !o.highlight.Contains(n.ID) {
			fill = fadeColor(fill)
		}
		attrs := []string{
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", p.X, o.height-p.Y),
			fmt.Sprintf("width=%.4f", d),
			fmt.Sprintf("fillcolor=%q", fill),
			fmt.Sprintf("tooltip=%q", o.title(n.ID)),
		}
		attrs = append(attrs, "label=\"\"")
		if o.labels {
			attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.ID))
		}
		if n.Fixed {
			attrs = append(attrs, "color=\"#333333\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range f.Links {
		if l.Source == l.Target {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", l.Source, l.Target)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// fadeColor returns c with an alpha channel at [DimOpacity]. Non-hex colors
// are returned unchanged.
func fadeColor(c string) string {
	if len(c) != 7 || c[0] != '#' {
		return c
	}
	return fmt.Sprintf("%s%02x", c, int(DimOpacity*255))
}

// RenderDOT lays out dot with neato and renders it as svg or png.
func RenderDOT(ctx context.Context, dot, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported graphviz format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if gvFormat == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the SVG scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
