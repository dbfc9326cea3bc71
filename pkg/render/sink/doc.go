// Package sink provides output format renderers for mind map scenes.
//
// # Overview
//
// A "sink" transforms a computed [mindmap.Scene] into a final output format.
// This package provides renderers for:
//
//   - SVG: Scalable vector graphics with optional topic links
//   - JSON: The [graph.Layout] wire format
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//   - DOT: A Graphviz document with pinned positions
//
// # SVG Output
//
// [RenderSVG] draws every edge as a quadratic curve and every node as a
// filled ellipse with its display title centred inside. The drawing always
// uses the 1350x1350 virtual canvas as its viewBox; the width and height
// attributes scale it to the requested viewport.
//
//	svg := sink.RenderSVG(scene,
//	    sink.WithViewport(800, 800),
//	    sink.WithLinkTemplate("/topics/{topic}"),
//	    sink.WithTooltips(),
//	)
//
// # SVG Options
//
//   - [WithViewport]: Output width and height in pixels
//   - [WithLinkTemplate]: Wrap main and sub topics in links; "{topic}" is
//     replaced by the URL-escaped original title
//   - [WithTooltips]: Add a <title> with the untruncated title to each node
//
// # Graphviz
//
// [ToDOT] writes the scene for the neato engine with every node pinned at
// its computed position. [RenderGraphviz] runs it through Graphviz, which is
// useful to compare the mind map against Graphviz's own edge routing.
//
// [mindmap.Scene]: github.com/matzehuels/topicmap/pkg/mindmap.Scene
// [graph.Layout]: github.com/matzehuels/topicmap/pkg/graph.Layout
package sink
