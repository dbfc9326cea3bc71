package sink

import (
	"context"

	"github.com/matzehuels/topicmap/pkg/mindmap"
	"github.com/matzehuels/topicmap/pkg/render"
)

// RenderPDF renders the scene as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, s *mindmap.Scene, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(s, opts...))
}
