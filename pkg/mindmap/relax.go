package mindmap

import (
	"math"
	"math/rand/v2"
)

// Relaxation policy.
const (
	Margin  = 80.0 // extra clearance demanded between bounding circles
	Damping = 0.1  // fraction of each correction applied per round
	nudge   = 0.1  // upper bound of the offset given to coincident nodes
)

// relax runs up to iterations rounds of repulsion and ring attraction and
// returns the number of rounds executed. It stops early once a round leaves
// every node where it was, since all later rounds would do the same.
func relax(nodes []Node, iterations int, seed uint64) int {
	parents := parentIndices(nodes)
	extents := make([]float64, len(nodes))
	for i, n := range nodes {
		extents[i] = n.Extent()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	for round := 1; round <= iterations; round++ {
		moved := repel(nodes, extents, rng)
		if attract(nodes, parents) {
			moved = true
		}
		if !moved {
			return round
		}
	}
	return iterations
}

// repel pushes apart every pair closer than their extents plus Margin. Each
// node of the pair takes half of the damped correction; the subject stays
// put.
func repel(nodes []Node, extents []float64, rng *rand.Rand) bool {
	moved := false
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := &nodes[i], &nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			if dx == 0 && dy == 0 {
				dx, dy = rng.Float64()*nudge, rng.Float64()*nudge
				if dx == 0 && dy == 0 {
					dx = nudge
				}
			}

			dist := math.Hypot(dx, dy)
			minDist := extents[i] + extents[j] + Margin
			if dist >= minDist {
				continue
			}

			push := (minDist - dist) / 2 * Damping
			ux, uy := dx/dist, dy/dist
			if a.Kind != KindSubject {
				a.X -= ux * push
				a.Y -= uy * push
				moved = true
			}
			if b.Kind != KindSubject {
				b.X += ux * push
				b.Y += uy * push
				moved = true
			}
		}
	}
	return moved
}

// attract pulls every non-subject node toward its ring distance from the
// current position of its parent, along the parent→node direction.
func attract(nodes []Node, parents []int) bool {
	moved := false
	for i := range nodes {
		p := parents[i]
		if p < 0 {
			continue
		}
		n, parent := &nodes[i], nodes[p]
		dx, dy := n.X-parent.X, n.Y-parent.Y
		if dx == 0 && dy == 0 {
			continue
		}
		dist := math.Hypot(dx, dy)
		diff := dist - n.Ring
		if diff == 0 {
			continue
		}
		n.X -= dx / dist * diff * Damping
		n.Y -= dy / dist * diff * Damping
		moved = true
	}
	return moved
}

// parentIndices resolves each node's parent id to its arena index, or -1 for
// the subject and for unknown parents.
func parentIndices(nodes []Node) []int {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = -1
		if n.Kind == KindSubject {
			continue
		}
		if p, ok := index[n.Parent]; ok {
			out[i] = p
		}
	}
	return out
}

// clamp keeps every ellipse inside the canvas minus Padding.
func clamp(nodes []Node) {
	for i := range nodes {
		n := &nodes[i]
		n.X = clampX(n, n.X)
		n.Y = clampY(n, n.Y)
	}
}

func clampX(n *Node, x float64) float64 {
	return max(Padding+n.RX, min(CanvasWidth-Padding-n.RX, x))
}

func clampY(n *Node, y float64) float64 {
	return max(Padding+n.RY, min(CanvasHeight-Padding-n.RY, y))
}

// Separation policy.
const (
	separationRounds = 500
	separationSlack  = 1.0 // clearance added on top of each resolved overlap
)

// separate removes the overlaps that relaxation and clamping leave behind.
// Each round moves every overlapping pair apart by the full overlap, split
// between the two nodes unless one of them is the subject, which never
// moves. It returns the number of rounds run and stops at the first round
// without overlaps.
func separate(nodes []Node) int {
	extents := make([]float64, len(nodes))
	for i, n := range nodes {
		extents[i] = n.Extent()
	}

	for round := 1; round <= separationRounds; round++ {
		moved := false
		for i := range nodes {
			for j := i + 1; j < len(nodes); j++ {
				a, b := &nodes[i], &nodes[j]
				dx, dy := b.X-a.X, b.Y-a.Y
				dist := math.Hypot(dx, dy)
				need := extents[i] + extents[j]
				if dist >= need {
					continue
				}
				if dist == 0 {
					dx, dy, dist = 1, 0, 1
				}

				ux, uy := dx/dist, dy/dist
				over := need + separationSlack - dist
				switch {
				case a.Kind == KindSubject:
					slide(b, ux*over, uy*over)
				case b.Kind == KindSubject:
					slide(a, -ux*over, -uy*over)
				default:
					slide(a, -ux*over/2, -uy*over/2)
					slide(b, ux*over/2, uy*over/2)
				}
				moved = true
			}
		}
		if !moved {
			return round
		}
	}
	return separationRounds
}

// slide moves n by (dx, dy) without leaving the canvas. Movement stopped
// by one edge is redirected along that edge, away from the canvas center
// line, so a node pinned against the border can still escape sideways.
func slide(n *Node, dx, dy float64) {
	x, y := n.X+dx, n.Y+dy
	cx, cy := clampX(n, x), clampY(n, y)
	lostX, lostY := math.Abs(x-cx), math.Abs(y-cy)
	if lostX > 0 && lostY == 0 {
		cy = clampY(n, cy+lostX*awayFrom(cy, CanvasHeight/2))
	}
	if lostY > 0 && lostX == 0 {
		cx = clampX(n, cx+lostY*awayFrom(cx, CanvasWidth/2))
	}
	n.X, n.Y = cx, cy
}

func awayFrom(v, center float64) float64 {
	if v < center {
		return -1
	}
	return 1
}
