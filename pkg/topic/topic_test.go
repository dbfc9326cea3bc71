package topic

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeCoercion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Tree
	}{
		{
			name:  "WellFormed",
			input: `{"subject":"Biology","mainTopics":[{"title":"Cells","subtopics":[{"title":"Mitochondria"}]}]}`,
			want: Tree{Subject: "Biology", MainTopics: []MainTopic{
				{Title: "Cells", Subtopics: []Subtopic{{Title: "Mitochondria"}}},
			}},
		},
		{
			name:  "NonStringTitles",
			input: `{"subject":42,"mainTopics":[{"title":null,"subtopics":[{"title":true}]}]}`,
			want: Tree{MainTopics: []MainTopic{
				{Subtopics: []Subtopic{{}}},
			}},
		},
		{
			name:  "MissingArrays",
			input: `{"subject":"Physics","mainTopics":[{"title":"Motion"}]}`,
			want:  Tree{Subject: "Physics", MainTopics: []MainTopic{{Title: "Motion"}}},
		},
		{
			name:  "NonArrayMainTopics",
			input: `{"subject":"Physics","mainTopics":"none"}`,
			want:  Tree{Subject: "Physics"},
		},
		{
			name:  "StringSubtopics",
			input: `{"subject":"S","mainTopics":[{"title":"A","subtopics":["X","Y"]}]}`,
			want: Tree{Subject: "S", MainTopics: []MainTopic{
				{Title: "A", Subtopics: []Subtopic{{Title: "X"}, {Title: "Y"}}},
			}},
		},
		{
			name:  "NonObjectMainTopicKeepsIndex",
			input: `{"subject":"S","mainTopics":[7,{"title":"B"}]}`,
			want:  Tree{Subject: "S", MainTopics: []MainTopic{{}, {Title: "B"}}},
		},
		{
			name:  "Null",
			input: `null`,
			want:  Tree{},
		},
		{
			name:  "Array",
			input: `[1,2]`,
			want:  Tree{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	if _, err := Decode([]byte(`{"subject":`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestDecodeAll(t *testing.T) {
	trees, err := DecodeAll([]byte(`[{"subject":"A"},{"subject":"B","mainTopics":[{"title":"x"}]}]`))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("len = %d, want 2", len(trees))
	}
	if trees[0].Subject != "A" || trees[1].Subject != "B" {
		t.Errorf("subjects = %q, %q", trees[0].Subject, trees[1].Subject)
	}

	single, err := DecodeAll([]byte(`{"subject":"Only"}`))
	if err != nil {
		t.Fatalf("DecodeAll single: %v", err)
	}
	if len(single) != 1 || single[0].Subject != "Only" {
		t.Errorf("single = %+v", single)
	}
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
subject: Chemistry
mainTopics:
  - title: Bonds
    subtopics:
      - title: Covalent
      - Ionic
  - title: 12
`)
	trees, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	want := Tree{Subject: "Chemistry", MainTopics: []MainTopic{
		{Title: "Bonds", Subtopics: []Subtopic{{Title: "Covalent"}, {Title: "Ionic"}}},
		{},
	}}
	if len(trees) != 1 || !reflect.DeepEqual(trees[0], want) {
		t.Errorf("DecodeYAML() = %#v, want %#v", trees, want)
	}
}

func TestMarshalJSONEmitsEmptyArrays(t *testing.T) {
	data, err := json.Marshal(Tree{Subject: "S", MainTopics: []MainTopic{{Title: "A"}}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"subject":"S","mainTopics":[{"title":"A","subtopics":[]}]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	empty, _ := json.Marshal(Tree{})
	if string(empty) != `{"subject":"","mainTopics":[]}` {
		t.Errorf("Marshal(empty) = %s", empty)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	trees := []Tree{
		{Subject: "Biology", MainTopics: []MainTopic{{Title: "Cells", Subtopics: []Subtopic{{Title: "Nucleus"}}}}},
		{Subject: "History"},
	}

	for _, name := range []string{"trees.json", "trees.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, trees); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if len(got) != 2 || got[0].Subject != "Biology" || got[1].Subject != "History" {
				t.Fatalf("ReadFile() = %+v", got)
			}
			if got[0].MainTopics[0].Subtopics[0].Title != "Nucleus" {
				t.Errorf("subtopic = %q, want Nucleus", got[0].MainTopics[0].Subtopics[0].Title)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want not-exist", err)
	}
}

func TestWriteSingleTreeAsObject(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []Tree{{Subject: "One"}}, FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("single tree should be an object, got %s", buf.String())
	}
}

func TestCountsAndTitles(t *testing.T) {
	tree := Tree{Subject: "S", MainTopics: []MainTopic{
		{Title: "A", Subtopics: []Subtopic{{Title: "X"}, {Title: "Y"}}},
		{Title: "B"},
	}}
	mains, subs := tree.Counts()
	if mains != 2 || subs != 2 {
		t.Errorf("Counts() = %d, %d, want 2, 2", mains, subs)
	}
	if tree.Size() != 5 {
		t.Errorf("Size() = %d, want 5", tree.Size())
	}
	want := []string{"S", "A", "X", "Y", "B"}
	if got := tree.Titles(); !reflect.DeepEqual(got, want) {
		t.Errorf("Titles() = %v, want %v", got, want)
	}
	if tree.String() != "S (2 main, 2 sub)" {
		t.Errorf("String() = %q", tree.String())
	}
	if !(Tree{}).IsEmpty() || tree.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json": FormatJSON,
		"a.YAML": FormatYAML,
		"a.yml":  FormatYAML,
		"a":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
