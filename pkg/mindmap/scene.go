package mindmap

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// =============================================================================
// Kind
// =============================================================================

// Kind is the level of a node in the topic hierarchy.
type Kind uint8

// Node kinds.
const (
	KindSubject Kind = iota
	KindMain
	KindSub
)

var kindNames = [...]string{"subject", "main", "sub"}

// String returns "subject", "main" or "sub".
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// =============================================================================
// Node & Edge
// =============================================================================

// SubjectID is the id of the single subject node.
const SubjectID = "subject"

// MainID returns the id of the i-th main topic.
func MainID(i int) string { return "main-" + strconv.Itoa(i) }

// SubID returns the id of the j-th subtopic of the i-th main topic.
func SubID(i, j int) string { return "sub-" + strconv.Itoa(i) + "-" + strconv.Itoa(j) }

// Node is a positioned ellipse in the scene.
type Node struct {
	ID            string
	Kind          Kind
	Title         string // display text, possibly truncated
	OriginalTitle string
	X, Y          float64 // center on the virtual canvas
	RX, RY        float64
	FontSize      float64
	Ring          float64 // target distance from Parent; zero for the subject
	Parent        string  // empty for the subject
}

// Extent is the bounding radius used for collision checks.
func (n Node) Extent() float64 { return math.Hypot(n.RX, n.RY) }

// Center returns the node center.
func (n Node) Center() Point { return Point{X: n.X, Y: n.Y} }

// Interactive reports whether the node links to a topic detail view.
func (n Node) Interactive() bool { return n.Kind != KindSubject }

// Edge connects a parent node to a child node.
type Edge struct {
	From, To string
}

// =============================================================================
// Scene - Immutable Layout Result
// =============================================================================

// Scene is a completed layout. It is read-only: accessors hand out copies.
type Scene struct {
	nodes []Node
	edges []Edge
	index map[string]int
	opts  Options
	steps int
}

// NewScene builds a scene from already positioned nodes, for example when
// decoding a stored layout. It checks the structural invariants: unique ids,
// exactly one subject with id [SubjectID], resolvable parents, and exactly
// one edge from each node's parent to the node. Positions are taken as
// given.
func NewScene(nodes []Node, edges []Edge, opts Options) (*Scene, error) {
	s := &Scene{
		nodes: slices.Clone(nodes),
		edges: slices.Clone(edges),
		index: make(map[string]int, len(nodes)),
		opts:  opts,
	}

	subjects := 0
	for i, n := range s.nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d has no id", i)
		}
		if _, dup := s.index[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		s.index[n.ID] = i
		if n.Kind == KindSubject {
			if n.ID != SubjectID {
				return nil, fmt.Errorf("subject node has id %q, want %q", n.ID, SubjectID)
			}
			subjects++
		}
	}
	if subjects != 1 {
		return nil, fmt.Errorf("scene must have exactly one subject, got %d", subjects)
	}

	for _, n := range s.nodes {
		if n.Kind == KindSubject {
			continue
		}
		if _, ok := s.index[n.Parent]; !ok {
			return nil, fmt.Errorf("node %q: unknown parent %q", n.ID, n.Parent)
		}
	}

	seen := make(map[Edge]struct{}, len(s.edges))
	for _, e := range s.edges {
		if _, ok := s.index[e.From]; !ok {
			return nil, fmt.Errorf("edge %s→%s: unknown node %q", e.From, e.To, e.From)
		}
		if _, ok := s.index[e.To]; !ok {
			return nil, fmt.Errorf("edge %s→%s: unknown node %q", e.From, e.To, e.To)
		}
		if _, dup := seen[e]; dup {
			return nil, fmt.Errorf("duplicate edge %s→%s", e.From, e.To)
		}
		if child := s.nodes[s.index[e.To]]; child.Kind == KindSubject || child.Parent != e.From {
			return nil, fmt.Errorf("edge %s→%s: %q is not the parent of %q", e.From, e.To, e.From, e.To)
		}
		seen[e] = struct{}{}
	}

	for _, n := range s.nodes {
		if n.Kind == KindSubject {
			continue
		}
		if _, ok := seen[Edge{From: n.Parent, To: n.ID}]; !ok {
			return nil, fmt.Errorf("node %q: missing edge from parent %q", n.ID, n.Parent)
		}
	}

	return s, nil
}

// newScene freezes a layout arena. The arena satisfies the scene invariants
// by construction.
func newScene(a *arena, opts Options, steps int) *Scene {
	index := make(map[string]int, len(a.nodes))
	for i, n := range a.nodes {
		index[n.ID] = i
	}
	return &Scene{nodes: a.nodes, edges: a.edges, index: index, opts: opts, steps: steps}
}

// Len returns the number of nodes.
func (s *Scene) Len() int { return len(s.nodes) }

// Nodes returns the nodes in traversal order: the subject, then each main
// topic followed by its subtopics.
func (s *Scene) Nodes() []Node { return slices.Clone(s.nodes) }

// Edges returns the edges in traversal order.
func (s *Scene) Edges() []Edge { return slices.Clone(s.edges) }

// Node looks up a node by id.
func (s *Scene) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Subject returns the subject node.
func (s *Scene) Subject() Node {
	n, _ := s.Node(SubjectID)
	return n
}

// Children returns the direct children of id in traversal order.
func (s *Scene) Children(id string) []Node {
	var out []Node
	for _, e := range s.edges {
		if e.From == id {
			out = append(out, s.nodes[s.index[e.To]])
		}
	}
	return out
}

// Options returns the options the scene was laid out with.
func (s *Scene) Options() Options { return s.opts }

// Steps returns how many relaxation rounds ran before the layout settled.
// It is zero for scenes built with [NewScene].
func (s *Scene) Steps() int { return s.steps }

// EdgePath returns the SVG path data for e, or false if either endpoint is
// missing.
func (s *Scene) EdgePath(e Edge) (string, bool) {
	from, ok := s.Node(e.From)
	if !ok {
		return "", false
	}
	to, ok := s.Node(e.To)
	if !ok {
		return "", false
	}
	return EdgePath(from.Center(), to.Center()), true
}

// Collisions returns every pair of nodes whose bounding circles overlap by
// more than tolerance.
func (s *Scene) Collisions(tolerance float64) [][2]string {
	var out [][2]string
	for i := range s.nodes {
		for j := i + 1; j < len(s.nodes); j++ {
			a, b := s.nodes[i], s.nodes[j]
			if math.Hypot(b.X-a.X, b.Y-a.Y) < a.Extent()+b.Extent()-tolerance {
				out = append(out, [2]string{a.ID, b.ID})
			}
		}
	}
	return out
}

// boundsEpsilon absorbs rounding in clamped coordinates.
const boundsEpsilon = 1e-9

// InBounds reports whether every ellipse lies inside the canvas minus
// [Padding].
func (s *Scene) InBounds() bool {
	lo := Padding - boundsEpsilon
	for _, n := range s.nodes {
		if n.X-n.RX < lo || n.X+n.RX > CanvasWidth-lo ||
			n.Y-n.RY < lo || n.Y+n.RY > CanvasHeight-lo {
			return false
		}
	}
	return true
}
