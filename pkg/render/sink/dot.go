package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topicmap/pkg/mindmap"
)

// pointsPerInch converts canvas units to the inches Graphviz sizes nodes in.
const pointsPerInch = 72.0

// ToDOT converts a scene to an undirected Graphviz graph for the neato
// engine. Every node is pinned at its computed position (y flipped, since
// Graphviz's origin is bottom-left) and sized to its ellipse, so Graphviz
// only routes the edges.
func ToDOT(s *mindmap.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=curved;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=ellipse, style=filled, fixedsize=true, color=%q, fontcolor=%q, fontname=\"Helvetica\"];\n",
		ColorOutline, ColorText)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=2.5];\n", ColorEdge)
	buf.WriteString("\n")

	for _, n := range s.Nodes() {
		attrs := []string{
			"label=" + dotQuote(n.Title),
			fmt.Sprintf(`pos="%.2f,%.2f!"`, n.X, mindmap.CanvasHeight-n.Y),
			fmt.Sprintf("width=%.3f", 2*n.RX/pointsPerInch),
			fmt.Sprintf("height=%.3f", 2*n.RY/pointsPerInch),
			fmt.Sprintf("fontsize=%.1f", n.FontSize),
			fmt.Sprintf("fillcolor=%q", fillColor(n.Kind)),
			"tooltip=" + dotQuote(n.OriginalTitle),
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges() {
		fmt.Fprintf(&buf, "  %s -- %s;\n", dotQuote(e.From), dotQuote(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotQuote returns s as a double-quoted DOT string.
func dotQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")
	return `"` + r.Replace(s) + `"`
}

// RenderGraphviz renders a DOT graph to SVG using Graphviz's neato engine.
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the output embeds like RenderSVG's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
