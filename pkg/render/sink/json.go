package sink

import (
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/mindmap"
)

// RenderJSON exports the scene in the graph.Layout wire format.
func RenderJSON(s *mindmap.Scene) ([]byte, error) {
	return graph.MarshalLayout(graph.Export(s))
}
