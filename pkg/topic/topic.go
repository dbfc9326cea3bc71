package topic

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Tree - Topic Hierarchy
// =============================================================================

// Tree is a subject with its main topics and their subtopics.
//
// The zero value is a valid, empty tree.
type Tree struct {
	Subject    string      `json:"subject" yaml:"subject" bson:"subject"`
	MainTopics []MainTopic `json:"mainTopics" yaml:"mainTopics" bson:"mainTopics"`
}

// MainTopic is a first-level topic under the subject.
type MainTopic struct {
	Title     string     `json:"title" yaml:"title" bson:"title"`
	Subtopics []Subtopic `json:"subtopics" yaml:"subtopics" bson:"subtopics"`
}

// Subtopic is a leaf topic under a main topic.
type Subtopic struct {
	Title string `json:"title" yaml:"title" bson:"title"`
}

// Counts returns the number of main topics and the total number of subtopics.
func (t Tree) Counts() (mains, subs int) {
	for _, m := range t.MainTopics {
		subs += len(m.Subtopics)
	}
	return len(t.MainTopics), subs
}

// Size returns the number of nodes a mind map of t contains, subject included.
func (t Tree) Size() int {
	mains, subs := t.Counts()
	return 1 + mains + subs
}

// IsEmpty reports whether t has neither a subject nor any main topics.
func (t Tree) IsEmpty() bool {
	return t.Subject == "" && len(t.MainTopics) == 0
}

// Titles returns every title in traversal order: the subject, then each main
// topic followed by its subtopics.
func (t Tree) Titles() []string {
	out := make([]string, 0, t.Size())
	out = append(out, t.Subject)
	for _, m := range t.MainTopics {
		out = append(out, m.Title)
		for _, s := range m.Subtopics {
			out = append(out, s.Title)
		}
	}
	return out
}

// Normalize returns a copy of t whose topic slices are non-nil, so that the
// encoded form always carries empty arrays instead of null.
func (t Tree) Normalize() Tree {
	out := Tree{Subject: t.Subject, MainTopics: make([]MainTopic, len(t.MainTopics))}
	for i, m := range t.MainTopics {
		subs := make([]Subtopic, len(m.Subtopics))
		copy(subs, m.Subtopics)
		out.MainTopics[i] = MainTopic{Title: m.Title, Subtopics: subs}
	}
	return out
}

// MarshalJSON encodes the normalized tree.
func (t Tree) MarshalJSON() ([]byte, error) {
	type plain Tree
	return json.Marshal(plain(t.Normalize()))
}

// String returns a one-line summary such as "Biology (3 main, 7 sub)".
func (t Tree) String() string {
	mains, subs := t.Counts()
	return fmt.Sprintf("%s (%d main, %d sub)", t.Subject, mains, subs)
}

// =============================================================================
// Coercion - Untyped Values to Trees
// =============================================================================

// FromValue coerces a decoded JSON or YAML value into a Tree. Anything that is
// not a mapping yields the empty tree.
func FromValue(v any) Tree {
	m, ok := asMap(v)
	if !ok {
		return Tree{}
	}
	t := Tree{Subject: asString(m["subject"])}
	for _, raw := range asSlice(m["mainTopics"]) {
		t.MainTopics = append(t.MainTopics, mainFromValue(raw))
	}
	return t
}

func mainFromValue(v any) MainTopic {
	m, ok := asMap(v)
	if !ok {
		return MainTopic{}
	}
	mt := MainTopic{Title: asString(m["title"])}
	for _, raw := range asSlice(m["subtopics"]) {
		mt.Subtopics = append(mt.Subtopics, subFromValue(raw))
	}
	return mt
}

func subFromValue(v any) Subtopic {
	if s, ok := v.(string); ok {
		return Subtopic{Title: s}
	}
	m, ok := asMap(v)
	if !ok {
		return Subtopic{}
	}
	return Subtopic{Title: asString(m["title"])}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asMap accepts both map shapes: encoding/json produces string keys,
// yaml.v3 falls back to any keys when a mapping has non-string keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}
