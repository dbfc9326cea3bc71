// Package mindmap lays out a topic tree as a radial mind map.
//
// The layout is computed on a fixed 1350x1350 virtual canvas; callers scale
// the result to their viewport. The subject sits at the canvas center, main
// topics sit on a ring around it, and each main topic fans its subtopics
// across an arc that faces away from the subject:
//
//	scene := mindmap.Layout(tree)
//	for _, n := range scene.Nodes() {
//	    fmt.Println(n.ID, n.X, n.Y)
//	}
//
// # Pipeline
//
// [Layout] runs three stages over a private node arena:
//
//  1. Placement: every node is sized with [Shape.Fit] and put on its ring.
//  2. Relaxation: a fixed number of damped repulsion/attraction rounds
//     separates overlapping ellipses while pulling each node back toward
//     its ring distance from its parent. The subject never moves.
//  3. Clamping: every center is clamped so the ellipse stays inside the
//     canvas minus [Padding].
//
// The arena is then frozen into an immutable [Scene].
//
// # Identity
//
// Node ids are positional and stable: "subject", "main-{i}" and
// "sub-{i}-{j}" with zero-based indices into the source tree. Lookups by id
// go through the scene's index map.
//
// # Determinism
//
// Layout is a pure function of the tree and [Options]. Exactly coincident
// centers are separated with a nudge drawn from a PCG generator seeded by
// [Options.Seed], so even that case is reproducible.
//
// # Concurrency
//
// Layout holds no shared state and is safe for concurrent use. A Scene is
// read-only after construction.
package mindmap
