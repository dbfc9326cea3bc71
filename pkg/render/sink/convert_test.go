package sink

import (
	"context"
	"testing"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/render"
)

func TestRenderPNGAndPDF(t *testing.T) {
	ctx := context.Background()
	s := biologyScene()

	if !render.Available() {
		_, err := RenderPNG(ctx, s)
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("RenderPNG without rsvg-convert error = %v, want UNSUPPORTED", err)
		}
		t.Skip("rsvg-convert not installed")
	}

	png, err := RenderPNG(ctx, s, WithScale(1), WithPNGSVGOptions(WithViewport(200, 200)))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("RenderPNG() output is not a PNG")
	}

	pdf, err := RenderPDF(ctx, s)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if len(pdf) < 5 || string(pdf[:5]) != "%PDF-" {
		t.Errorf("RenderPDF() output is not a PDF")
	}
}
