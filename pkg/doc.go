// Package pkg provides the core libraries for Topicmap mind maps.
//
// # Overview
//
// Topicmap turns study material into radial mind maps: a subject in the
// center, main topics on a ring around it, and each main topic's subtopics
// fanned out beyond it. The pkg directory is organized into these areas:
//
//  1. [topic] - The topic tree model and its JSON/YAML encodings
//  2. [mindmap] - The radial layout engine and the positioned scene
//  3. [render] - SVG, PNG, PDF, JSON and Graphviz DOT output
//  4. [pipeline] - Orchestration (generate → layout → render) with caching
//  5. [graph] - Serialization types for layouts
//
// # Architecture
//
// The typical data flow through Topicmap:
//
//	PDF or text document
//	         ↓
//	    [document] package (extract text)
//	         ↓
//	    [integrations/openai] package (language model → topic trees)
//	         ↓
//	    [mindmap] package (place ellipses on rings, relax overlaps)
//	         ↓
//	    [render/sink] package (SVG/PNG/PDF/JSON/DOT)
//
// # Quick Start
//
// Lay out a tree and render it to SVG:
//
//	import (
//	    "github.com/matzehuels/topicmap/pkg/mindmap"
//	    "github.com/matzehuels/topicmap/pkg/render/sink"
//	    "github.com/matzehuels/topicmap/pkg/topic"
//	)
//
//	tree := topic.Tree{
//	    Subject: "Biology",
//	    MainTopics: []topic.MainTopic{
//	        {Title: "Cells", Subtopics: []topic.Subtopic{{Title: "Membrane"}}},
//	    },
//	}
//	scene := mindmap.Layout(tree, mindmap.WithSeed(42))
//	svg := sink.RenderSVG(scene, sink.WithViewport(800, 600), sink.WithTooltips())
//
// # Main Packages
//
// ## Domain
//
// [topic] - Subject, main topic and subtopic types. Decoding is lenient about
// the shapes language models return (strings or objects for subtopics, one
// tree or a list).
//
// [mindmap] - Layout engine. Ring radii grow with the number of topics, text
// is wrapped to fit each ellipse, and a seeded relaxation pass pushes
// overlapping ellipses apart. Layouts are deterministic for a given tree,
// seed and iteration count.
//
// [document] - Text extraction from PDF and plain-text uploads.
//
// ## Output
//
// [render/sink] - Output formats. SVG is drawn directly; PNG and PDF are
// converted from SVG; DOT is handed to Graphviz when requested.
//
// [render] - SVG to PDF/PNG conversion via rsvg-convert.
//
// [graph] - The layout.json format shared by the CLI and the HTTP API.
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline used by the CLI and the HTTP API. Ensures
// consistent behavior across entry points.
//
// [cache] - Content-addressed cache with file, Redis, memory and no-op
// backends.
//
// [store] - Saved maps and saved topics per user, on SQLite, MongoDB or
// memory.
//
// [api] - The HTTP API.
//
// [config] - TOML config file with environment overrides.
//
// [errors] - Coded errors shared by every layer, with HTTP status mapping.
//
// [observability] - Hooks for cache, store and HTTP metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/mindmap/...            # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [topic]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/topic
// [mindmap]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/mindmap
// [render]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/pipeline
// [graph]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/graph
// [document]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/document
// [integrations/openai]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/integrations/openai
// [cache]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/store
// [api]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/api
// [config]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/topicmap/pkg/observability
package pkg
