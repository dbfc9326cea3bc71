package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/mindmap"
	"github.com/matzehuels/topicmap/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	scene, err := graph.Parse(l)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "convert layout")
	}
	return renderScene(ctx, scene, opts)
}

// renderScene renders every requested format of a parsed scene.
func renderScene(ctx context.Context, s *mindmap.Scene, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(s, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, s, sink.WithScale(DefaultScale), sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, s, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(s)
		case FormatDOT:
			data = []byte(sink.ToDOT(s))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithViewport(opts.Width, opts.Height)}
	if opts.LinkTemplate != "" {
		svgOpts = append(svgOpts, sink.WithLinkTemplate(opts.LinkTemplate))
	}
	if opts.Tooltips {
		svgOpts = append(svgOpts, sink.WithTooltips())
	}
	return svgOpts
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(ctx, parsed, opts)
}
