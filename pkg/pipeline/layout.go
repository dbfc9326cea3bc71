package pipeline

import (
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/mindmap"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout lays out a topic tree and exports the scene. It is pure;
// see Runner.ComputeLayout for the cached variant.
func ComputeLayout(t topic.Tree, opts Options) graph.Layout {
	l, _ := computeLayout(t, opts)
	return l
}

// computeLayout also reports how many relaxation rounds moved a node.
func computeLayout(t topic.Tree, opts Options) (graph.Layout, int) {
	opts.SetLayoutDefaults()
	scene := mindmap.Layout(t, mindmap.WithOptions(opts.LayoutOptions()))
	return graph.Export(scene), scene.Steps()
}
