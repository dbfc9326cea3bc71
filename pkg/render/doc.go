// Package render turns mind map scenes into images and documents.
//
// # Overview
//
// The [sink] subpackage holds one renderer per output format (SVG, PNG, PDF,
// JSON and Graphviz DOT). This package provides the format conversion they
// share: [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
// tool (from librsvg).
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// Conversions fail with an UNSUPPORTED error when rsvg-convert is missing;
// use [Available] to check up front.
//
// [sink]: github.com/matzehuels/topicmap/pkg/render/sink
package render
