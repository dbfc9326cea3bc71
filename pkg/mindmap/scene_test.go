package mindmap

import (
	"strings"
	"testing"
)

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindSubject, KindMain, KindSub} {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != k {
			t.Errorf("round trip %v → %s → %v", k, text, back)
		}
	}
	if _, err := ParseKind("leaf"); err == nil {
		t.Error("ParseKind(leaf) should fail")
	}
	if got := Kind(9).String(); got != "Kind(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewScene(t *testing.T) {
	subject := Node{ID: SubjectID, Kind: KindSubject, RX: 1, RY: 1}
	mn := Node{ID: "main-0", Kind: KindMain, Parent: SubjectID, RX: 1, RY: 1}
	sub := Node{ID: "sub-0-0", Kind: KindSub, Parent: "main-0", RX: 1, RY: 1}

	tests := []struct {
		name    string
		nodes   []Node
		edges   []Edge
		wantErr string
	}{
		{"Valid", []Node{subject, mn}, []Edge{{SubjectID, "main-0"}}, ""},
		{"NoSubject", []Node{mn}, nil, "exactly one subject"},
		{"SubjectWrongID", []Node{{ID: "root", Kind: KindSubject}}, nil, "subject node has id"},
		{"SecondSubject", []Node{subject, {ID: "other", Kind: KindSubject}}, nil, "subject node has id"},
		{"DuplicateID", []Node{subject, mn, mn}, nil, "duplicate node id"},
		{"EmptyID", []Node{subject, {Kind: KindMain}}, nil, "has no id"},
		{"UnknownParent", []Node{subject, {ID: "main-0", Kind: KindMain, Parent: "ghost"}}, nil, "unknown parent"},
		{"UnknownEdge", []Node{subject, mn}, []Edge{{SubjectID, "main-9"}}, "unknown node"},
		{"DuplicateEdge", []Node{subject, mn}, []Edge{{SubjectID, "main-0"}, {SubjectID, "main-0"}}, "duplicate edge"},
		{"MissingEdge", []Node{subject, mn}, nil, "missing edge"},
		{"EdgeFromWrongParent", []Node{subject, mn, sub}, []Edge{{SubjectID, "main-0"}, {SubjectID, "sub-0-0"}}, "is not the parent"},
		{"EdgeIntoSubject", []Node{subject, mn}, []Edge{{SubjectID, "main-0"}, {"main-0", SubjectID}}, "is not the parent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScene(tt.nodes, tt.edges, Options{})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewScene: %v", err)
				}
				if s.Len() != len(tt.nodes) || s.Steps() != 0 {
					t.Errorf("scene = %d nodes, %d steps", s.Len(), s.Steps())
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewScene() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestSceneChildren(t *testing.T) {
	s := Layout(threeByTwo())
	if got := len(s.Children(SubjectID)); got != 3 {
		t.Errorf("subject children = %d, want 3", got)
	}
	kids := s.Children("main-1")
	if len(kids) != 2 || kids[0].ID != "sub-1-0" || kids[1].ID != "sub-1-1" {
		t.Errorf("main-1 children = %+v", kids)
	}
	if len(s.Children("sub-0-0")) != 0 {
		t.Error("leaf has children")
	}
}

func TestSceneEdgePath(t *testing.T) {
	s := Layout(biology())
	path, ok := s.EdgePath(Edge{From: SubjectID, To: "main-0"})
	if !ok || !strings.HasPrefix(path, "M 675.00 675.00 Q ") {
		t.Errorf("EdgePath() = %q, %v", path, ok)
	}
	if _, ok := s.EdgePath(Edge{From: SubjectID, To: "missing"}); ok {
		t.Error("EdgePath should fail for unknown endpoints")
	}
}

func TestSceneCollisions(t *testing.T) {
	nodes := []Node{
		{ID: SubjectID, Kind: KindSubject, X: 100, Y: 100, RX: 30, RY: 40},
		{ID: "main-0", Kind: KindMain, X: 150, Y: 100, RX: 30, RY: 40, Parent: SubjectID},
		{ID: "main-1", Kind: KindMain, X: 600, Y: 600, RX: 30, RY: 40, Parent: SubjectID},
	}
	s, err := NewScene(nodes, []Edge{{SubjectID, "main-0"}, {SubjectID, "main-1"}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := s.Collisions(1)
	if len(got) != 1 || got[0] != [2]string{SubjectID, "main-0"} {
		t.Errorf("Collisions() = %v", got)
	}
	if !s.InBounds() {
		t.Error("InBounds() = false for nodes inside the padding")
	}
}
