package graph

import (
	"fmt"

	"github.com/matzehuels/topicmap/pkg/mindmap"
)

// =============================================================================
// Scene ↔ Layout Conversion
// =============================================================================

// Export converts a scene to its serialization format. Nodes and edges keep
// the scene's traversal order.
func Export(s *mindmap.Scene) Layout {
	opts := s.Options()
	nodes := s.Nodes()
	edges := s.Edges()

	out := Layout{
		Width:      mindmap.CanvasWidth,
		Height:     mindmap.CanvasHeight,
		Seed:       opts.Seed,
		Iterations: opts.Iterations,
		Nodes:      make([]Node, len(nodes)),
		Edges:      make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:            n.ID,
			Kind:          n.Kind.String(),
			Title:         n.Title,
			OriginalTitle: n.OriginalTitle,
			X:             n.X,
			Y:             n.Y,
			RX:            n.RX,
			RY:            n.RY,
			FontSize:      n.FontSize,
			Ring:          n.Ring,
			Parent:        n.Parent,
		}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return out
}

// Parse converts a serialized layout back into a scene. Positions are taken
// as stored; the structure is validated by mindmap.NewScene.
func Parse(l Layout) (*mindmap.Scene, error) {
	nodes := make([]mindmap.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		kind, err := mindmap.ParseKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		nodes[i] = mindmap.Node{
			ID:            n.ID,
			Kind:          kind,
			Title:         n.Title,
			OriginalTitle: n.OriginalTitle,
			X:             n.X,
			Y:             n.Y,
			RX:            n.RX,
			RY:            n.RY,
			FontSize:      n.FontSize,
			Ring:          n.Ring,
			Parent:        n.Parent,
		}
	}

	edges := make([]mindmap.Edge, len(l.Edges))
	for i, e := range l.Edges {
		edges[i] = mindmap.Edge{From: e.From, To: e.To}
	}

	return mindmap.NewScene(nodes, edges, mindmap.Options{Iterations: l.Iterations, Seed: l.Seed})
}
