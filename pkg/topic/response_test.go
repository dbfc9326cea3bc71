package topic

import (
	"testing"

	"github.com/matzehuels/topicmap/pkg/errors"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"Fenced", "Here you go:\n```json\n{\"a\":1}\n```\nEnjoy", `{"a":1}`, false},
		{"FencedNoTag", "```\n[1,2]\n```", `[1,2]`, false},
		{"Bare", `Sure! {"a":1}`, `{"a":1}`, false},
		{"BareArray", `Result: [{"a":1}]`, `[{"a":1}]`, false},
		{"None", "I cannot help with that.", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	got, err := ExtractJSONArray(`Try these: [{"keyword":"a"}] and more text ] trailing`)
	if err != nil {
		t.Fatalf("ExtractJSONArray: %v", err)
	}
	if got != `[{"keyword":"a"}] and more text ]` {
		t.Errorf("ExtractJSONArray() = %q", got)
	}

	if _, err := ExtractJSONArray("no array here"); !errors.Is(err, errors.ErrCodeGenerationFailed) {
		t.Errorf("ExtractJSONArray(none) error = %v, want GENERATION_FAILED", err)
	}
}

func TestParseResponse(t *testing.T) {
	content := "```json\n" + `[
  {"subject":"Biology","mainTopics":[{"title":"Cells","subtopics":[{"title":"Mitochondria"},{"title":"Nucleus"}]}]},
  {"subject":"History","mainTopics":[]}
]` + "\n```"

	trees, err := ParseResponse(content)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("len = %d, want 2", len(trees))
	}
	if trees[0].Subject != "Biology" || len(trees[0].MainTopics[0].Subtopics) != 2 {
		t.Errorf("trees[0] = %+v", trees[0])
	}
}

func TestParseResponseSingleObjectWithTrailingProse(t *testing.T) {
	trees, err := ParseResponse(`{"subject":"Math","mainTopics":[]} Let me know if you need more.`)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(trees) != 1 || trees[0].Subject != "Math" {
		t.Errorf("ParseResponse() = %+v", trees)
	}
}

func TestParseResponseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Empty", "   "},
		{"NoJSON", "Sorry, I can't."},
		{"Invalid", `{"subject": "x",`},
		{"EmptyArray", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.content)
			if !errors.Is(err, errors.ErrCodeGenerationFailed) {
				t.Errorf("ParseResponse(%q) error = %v, want GENERATION_FAILED", tt.content, err)
			}
		})
	}
}
