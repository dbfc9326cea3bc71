package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/topicmap/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " PNG , dot ", []string{"png", "dot"}},
		{"duplicates dropped", "svg,svg,json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderFlagsOptions(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f := renderFlags{formats: "svg,dot", width: 400, height: 300, link: "/t/{topic}", tooltips: true}
		opts, err := f.options()
		if err != nil {
			t.Fatalf("options() error: %v", err)
		}
		if !slices.Equal(opts.Formats, []string{"svg", "dot"}) {
			t.Errorf("Formats = %v", opts.Formats)
		}
		if opts.Width != 400 || opts.Height != 300 || opts.LinkTemplate != "/t/{topic}" || !opts.Tooltips {
			t.Errorf("options() = %+v", opts)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		f := renderFlags{formats: "svg,gif"}
		if _, err := f.options(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("options() error = %v, want INVALID_FORMAT", err)
		}
	})
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "biology.json", "biology"},
		{"", "notes/biology.yaml", "notes/biology"},
		{"", "biology.layout.json", "biology"},
		{"out.svg", "biology.json", "out"},
		{"out.dot", "biology.json", "out"},
		{"out", "biology.json", "out"},
		{"out.final", "biology.json", "out.final"},
	}

	for _, tt := range tests {
		t.Run(tt.output+"|"+tt.input, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name                 string
		base, output, format string
		formats              int
		want                 string
	}{
		{"derived", "bio", "", "svg", 1, "bio.svg"},
		{"explicit single", "out", "out.svg", "svg", 1, "out.svg"},
		{"explicit without extension", "out", "out", "svg", 1, "out.svg"},
		{"explicit multiple", "out", "out.svg", "png", 2, "out.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.base, tt.output, tt.format, tt.formats); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "nested", "bio")
	artifacts := map[string][]byte{
		"svg": []byte("<svg/>"),
		"dot": []byte("graph G {}"),
	}

	paths, err := writeArtifacts(artifacts, []string{"dot", "png", "svg"}, base, "")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	want := []string{base + ".dot", base + ".svg"}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("svg content = %q", data)
	}
}

func TestLayoutPath(t *testing.T) {
	tests := []struct {
		input, output string
		i, n          int
		want          string
	}{
		{"bio.json", "", 0, 1, "bio.layout.json"},
		{"bio.json", "", 1, 3, "bio-2.layout.json"},
		{"bio.json", "custom.json", 0, 1, "custom.json"},
		{"bio.json", "custom.json", 2, 3, "custom-3.layout.json"},
	}

	for _, tt := range tests {
		if got := layoutPath(tt.input, tt.output, tt.i, tt.n); got != tt.want {
			t.Errorf("layoutPath(%q, %q, %d, %d) = %q, want %q", tt.input, tt.output, tt.i, tt.n, got, tt.want)
		}
	}
}

func TestReadTrees(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	t.Run("single tree", func(t *testing.T) {
		trees, err := readTrees(write("one.json", `{"subject":"Biology","mainTopics":[{"title":"Cells","subtopics":[]}]}`))
		if err != nil {
			t.Fatalf("readTrees() error: %v", err)
		}
		if len(trees) != 1 || trees[0].Subject != "Biology" {
			t.Errorf("trees = %+v", trees)
		}
	})

	t.Run("yaml list", func(t *testing.T) {
		trees, err := readTrees(write("two.yaml", "- subject: A\n- subject: B\n"))
		if err != nil {
			t.Fatalf("readTrees() error: %v", err)
		}
		if len(trees) != 2 || trees[1].Subject != "B" {
			t.Errorf("trees = %+v", trees)
		}
	})

	errCases := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "missing.json"), errors.ErrCodeFileNotFound},
		{"malformed", write("bad.json", `{"subject":`), errors.ErrCodeInvalidTree},
		{"empty list", write("empty.json", `[]`), errors.ErrCodeInvalidTree},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readTrees(tt.path); !errors.Is(err, tt.code) {
				t.Errorf("readTrees() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseEngagement(t *testing.T) {
	got, err := parseEngagement([]string{"Cells=120", " Genetics = 30 "})
	if err != nil {
		t.Fatalf("parseEngagement() error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Cells" || got[0].Seconds != 120 || got[1].Name != "Genetics" || got[1].Seconds != 30 {
		t.Errorf("parseEngagement() = %+v", got)
	}

	for _, bad := range []string{"Cells", "=5", "Cells=abc", "Cells=-1"} {
		if _, err := parseEngagement([]string{bad}); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseEngagement(%q) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}
