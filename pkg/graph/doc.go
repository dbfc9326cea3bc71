// Package graph provides the serialization types for mind map layouts.
//
// This package defines the canonical wire format for topicmap's layout data,
// used for JSON files, API responses and caching.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Layout], [Node], [Edge]: serialization types (this package)
//   - mindmap.Scene: the immutable in-memory layout
//
// Use [Export] and [Parse] to convert between them.
//
// # Layout Serialization
//
//	{
//	  "width": 1350, "height": 1350, "seed": 42, "iterations": 300,
//	  "nodes": [{"id": "subject", "kind": "subject", "title": "Biology", "x": 675, "y": 675, ...}],
//	  "edges": [{"from": "subject", "to": "main-0"}]
//	}
//
// Common operations:
//
//	l := graph.Export(scene)                   // Scene → Layout
//	data, _ := graph.MarshalLayout(l)          // Layout → []byte
//	l, _ = graph.UnmarshalLayout(data)         // []byte → Layout
//	scene, _ = graph.Parse(l)                  // Layout → Scene
//	graph.WriteLayoutFile(l, "layout.json")    // Layout → File
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
