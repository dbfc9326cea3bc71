package pipeline

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/document"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/topic"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" SVG, json,,svg ,dot")
	want := []string{"svg", "json", "dot"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFormats() = %v, want %v", got, want)
	}
	if ParseFormats("") != nil {
		t.Error("ParseFormats(\"\") should be nil")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatSVG:  "image/svg+xml",
		FormatPNG:  "image/png",
		FormatPDF:  "application/pdf",
		FormatJSON: "application/json",
		FormatDOT:  "text/vnd.graphviz",
		"weird":    "application/octet-stream",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("Empty options should pass render validation: %v", err)
	}

	if opts.Iterations != DefaultIterations || opts.Seed != DefaultSeed {
		t.Errorf("layout defaults = %d iterations, seed %d", opts.Iterations, opts.Seed)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v, want canvas size", opts.Width, opts.Height)
	}
	if !reflect.DeepEqual(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	doc := &document.Document{Name: "a.txt", Kind: document.KindText, Text: "x", Pages: 1}

	tests := []struct {
		name string
		opts Options
		want errors.Code
	}{
		{"NoDocuments", Options{}, errors.ErrCodeInvalidInput},
		{"NilDocument", Options{Documents: []*document.Document{nil}}, errors.ErrCodeInvalidInput},
		{"BadFormat", Options{Documents: []*document.Document{doc}, Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"NegativeWidth", Options{Documents: []*document.Document{doc}, Width: -1}, errors.ErrCodeInvalidInput},
		{"HugeHeight", Options{Documents: []*document.Document{doc}, Height: MaxViewport + 1}, errors.ErrCodeInvalidInput},
		{"Valid", Options{Documents: []*document.Document{doc}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.want == "" {
				if err != nil {
					t.Errorf("ValidateAndSetDefaults() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Documents: []*document.Document{{Name: "a.txt", Text: "x"}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if !reflect.DeepEqual(first, opts) {
		t.Error("Second call should not change options")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Width: 800, Height: 600, LinkTemplate: "/t/{topic}", Tooltips: true}

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Width != 800 || svg.LinkTemplate != "/t/{topic}" || !svg.Tooltips {
		t.Errorf("svg key opts = %+v", svg)
	}

	json := opts.ArtifactKeyOpts(FormatJSON)
	if json != (cache.ArtifactKeyOpts{Format: FormatJSON}) {
		t.Errorf("json output ignores the viewport, key opts = %+v", json)
	}
}

func TestComputeLayout(t *testing.T) {
	tree := topic.Tree{
		Subject:    "Biology",
		MainTopics: []topic.MainTopic{{Title: "Cells", Subtopics: []topic.Subtopic{{Title: "Mitochondria"}}}, {Title: "Genetics"}},
	}

	l := ComputeLayout(tree, Options{})
	if len(l.Nodes) != 4 || len(l.Edges) != 3 {
		t.Fatalf("layout = %d nodes, %d edges; want 4, 3", len(l.Nodes), len(l.Edges))
	}
	if l.Iterations != DefaultIterations || l.Seed != DefaultSeed {
		t.Errorf("layout options = %d, %d", l.Iterations, l.Seed)
	}
	subject, ok := l.Subject()
	if !ok || subject.X != 675 || subject.Y != 675 {
		t.Errorf("subject = %+v", subject)
	}

	if again := ComputeLayout(tree, Options{}); !reflect.DeepEqual(l, again) {
		t.Error("ComputeLayout should be deterministic")
	}
}

func TestRender(t *testing.T) {
	l := ComputeLayout(topic.Tree{Subject: "Biology", MainTopics: []topic.MainTopic{{Title: "Cells"}}}, Options{})

	artifacts, err := Render(context.Background(), l, Options{Formats: []string{FormatSVG, FormatJSON, FormatDOT}, Width: 400, Height: 400})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("artifacts = %d, want 3", len(artifacts))
	}
	if !strings.Contains(string(artifacts[FormatSVG]), `width="400" height="400"`) {
		t.Error("svg should use the requested viewport")
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "graph G {") {
		t.Error("dot artifact should be a Graphviz graph")
	}

	if _, err := Render(context.Background(), l, Options{Formats: []string{"gif"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	if _, err := RenderFromLayoutData(context.Background(), []byte("not json"), Options{}); err == nil {
		t.Error("invalid layout data should fail")
	}
}
