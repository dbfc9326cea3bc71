package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/topicmap/pkg/mindmap"
)

// Palette. Hover colors brighten main and sub topics.
const (
	ColorSubject    = "#8B4513"
	ColorMain       = "#2E8B57"
	ColorSub        = "#FF8C00"
	ColorMainActive = "#3CB371"
	ColorSubActive  = "#FFA500"
	ColorEdge       = "#A0A0A0"
	ColorOutline    = "#606060"
	ColorText       = "#FFFFFF"
)

// TopicPlaceholder is replaced by the escaped topic title in link templates.
const TopicPlaceholder = "{topic}"

const fontFamily = "Quicksand, Helvetica, Arial, sans-serif"

const nodeInteractionCSS = `
    .node-main:hover ellipse { fill: ` + ColorMainActive + `; }
    .node-sub:hover ellipse { fill: ` + ColorSubActive + `; }
    a { cursor: pointer; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	linkTemplate  string
	tooltips      bool
}

// WithViewport sets the width and height attributes. Non-positive values
// keep the canvas size.
func WithViewport(width, height float64) SVGOption {
	return func(r *svgRenderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

func WithLinkTemplate(tmpl string) SVGOption { return func(r *svgRenderer) { r.linkTemplate = tmpl } }
func WithTooltips() SVGOption                { return func(r *svgRenderer) { r.tooltips = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: mindmap.CanvasWidth, height: mindmap.CanvasHeight}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the scene. Edges are drawn first so ellipses cover their
// end points.
func RenderSVG(s *mindmap.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		mindmap.CanvasWidth, mindmap.CanvasHeight, r.width, r.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range s.Edges() {
		d, ok := s.EdgePath(e)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, `    <path class="edge" data-from="%s" data-to="%s" d="%s" fill="none" stroke="%s" stroke-width="2.5"/>`+"\n",
			escapeXML(e.From), escapeXML(e.To), d, ColorEdge)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.Nodes() {
		r.renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n mindmap.Node) {
	href := ""
	if n.Interactive() {
		href = r.link(n.OriginalTitle)
	}
	if href != "" {
		fmt.Fprintf(buf, `    <a href="%s">`+"\n", escapeXML(href))
	}

	fmt.Fprintf(buf, `    <g class="node node-%s" id="node-%s" data-topic="%s">`+"\n",
		n.Kind, escapeXML(n.ID), escapeXML(n.OriginalTitle))
	if r.tooltips {
		fmt.Fprintf(buf, "      <title>%s</title>\n", escapeXML(n.OriginalTitle))
	}
	fmt.Fprintf(buf, `      <ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		n.X, n.Y, n.RX, n.RY, fillColor(n.Kind), ColorOutline)
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-size="%.2f" fill="%s" text-anchor="middle" font-family="%s">%s</text>`+"\n",
		n.X, n.Y+n.FontSize*0.35, n.FontSize, ColorText, fontFamily, escapeXML(n.Title))
	buf.WriteString("    </g>\n")

	if href != "" {
		buf.WriteString("    </a>\n")
	}
}

// link expands the template for a topic, or returns "" without a template.
func (r *svgRenderer) link(title string) string {
	if r.linkTemplate == "" {
		return ""
	}
	return strings.ReplaceAll(r.linkTemplate, TopicPlaceholder, url.PathEscape(title))
}

func fillColor(k mindmap.Kind) string {
	switch k {
	case mindmap.KindSubject:
		return ColorSubject
	case mindmap.KindMain:
		return ColorMain
	default:
		return ColorSub
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
