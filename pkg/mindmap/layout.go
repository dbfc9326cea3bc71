package mindmap

import (
	"math"

	"github.com/matzehuels/topicmap/pkg/topic"
)

// Canvas geometry.
const (
	CanvasWidth  = 1350.0
	CanvasHeight = 1350.0
	Padding      = 50.0 // minimum gap between any ellipse and the canvas edge
)

// Ring placement policy.
const (
	mainRingMin      = 200.0 // minimum gap between the subject rim and the main ring
	mainRingPerTopic = 40.0
	minAngularSlots  = 3 // main topics never spread wider than thirds
	subRingGap       = 50.0
	subArcSpread     = 1.2 * math.Pi
)

// Defaults for [Options].
const (
	DefaultIterations        = 300
	DefaultSeed       uint64 = 42
)

// Options tunes the relaxation pass.
type Options struct {
	// Iterations is the number of relaxation rounds. Zero selects
	// DefaultIterations; a negative value disables relaxation.
	Iterations int

	// Seed feeds the generator that separates coincident nodes. Zero
	// selects DefaultSeed.
	Seed uint64
}

// Option configures [Layout].
type Option func(*Options)

// WithIterations sets the number of relaxation rounds.
func WithIterations(n int) Option { return func(o *Options) { o.Iterations = n } }

// WithSeed sets the seed used to separate coincident nodes.
func WithSeed(seed uint64) Option { return func(o *Options) { o.Seed = seed } }

// WithOptions copies every field of opts.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }

// Normalize fills zero fields with their defaults.
func (o Options) Normalize() Options {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// Layout computes the mind map for t. It never fails: malformed input has
// already been coerced by the topic package, and an empty tree yields a
// subject-only scene.
//
// Relaxation is followed by clamping and a bounded separation pass that
// clears the remaining overlaps of trees that fit the canvas. No
// overlap-free placement exists once the bounding circles need more area
// than the canvas holds; such trees keep overlaps but stay in bounds.
func Layout(t topic.Tree, opts ...Option) *Scene {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	o = o.Normalize()

	a := place(t)
	if o.Iterations <= 0 {
		clamp(a.nodes)
		return newScene(a, o, 0)
	}
	steps := relax(a.nodes, o.Iterations, o.Seed)
	clamp(a.nodes)
	separate(a.nodes)
	return newScene(a, o, steps)
}

// arena holds the mutable nodes of a layout in progress.
type arena struct {
	nodes []Node
	edges []Edge
}

func (a *arena) add(n Node, e Edge) {
	a.nodes = append(a.nodes, n)
	a.edges = append(a.edges, e)
}

// place walks the tree once and puts every node on its ring.
func place(t topic.Tree) *arena {
	cx, cy := CanvasWidth/2, CanvasHeight/2
	size := t.Size()
	a := &arena{nodes: make([]Node, 0, size), edges: make([]Edge, 0, size-1)}

	subj := SubjectShape.Fit(t.Subject)
	a.nodes = append(a.nodes, Node{
		ID:            SubjectID,
		Kind:          KindSubject,
		Title:         subj.Text,
		OriginalTitle: t.Subject,
		X:             cx,
		Y:             cy,
		RX:            subj.RX,
		RY:            subj.RY,
		FontSize:      subj.FontSize,
	})

	count := len(t.MainTopics)
	ring := subj.RX + max(mainRingMin, float64(count)*mainRingPerTopic)
	step := 2 * math.Pi / float64(max(count, minAngularSlots))

	for i, mt := range t.MainTopics {
		angle := -math.Pi/2 + float64(i)*step
		e := MainShape.Fit(mt.Title)
		mn := Node{
			ID:            MainID(i),
			Kind:          KindMain,
			Title:         e.Text,
			OriginalTitle: mt.Title,
			X:             cx + ring*math.Cos(angle),
			Y:             cy + ring*math.Sin(angle),
			RX:            e.RX,
			RY:            e.RY,
			FontSize:      e.FontSize,
			Ring:          ring,
			Parent:        SubjectID,
		}
		a.add(mn, Edge{From: SubjectID, To: mn.ID})
		a.placeSubtopics(i, mn, angle, mt.Subtopics)
	}
	return a
}

// placeSubtopics fans the subtopics of parent across an arc centered on the
// outward direction angle.
func (a *arena) placeSubtopics(i int, parent Node, angle float64, subs []topic.Subtopic) {
	if len(subs) == 0 {
		return
	}

	fitted := make([]Ellipse, len(subs))
	extent := 0.0
	for j, s := range subs {
		fitted[j] = SubShape.Fit(s.Title)
		extent = max(extent, fitted[j].RX, fitted[j].RY)
	}
	ring := parent.RX + extent + subRingGap
	start := angle - subArcSpread/2

	for j, e := range fitted {
		theta := angle
		if len(subs) > 1 {
			theta = start + float64(j)*subArcSpread/float64(len(subs)-1)
		}
		sub := Node{
			ID:            SubID(i, j),
			Kind:          KindSub,
			Title:         e.Text,
			OriginalTitle: subs[j].Title,
			X:             parent.X + ring*math.Cos(theta),
			Y:             parent.Y + ring*math.Sin(theta),
			RX:            e.RX,
			RY:            e.RY,
			FontSize:      e.FontSize,
			Ring:          ring,
			Parent:        parent.ID,
		}
		a.add(sub, Edge{From: parent.ID, To: sub.ID})
	}
}
