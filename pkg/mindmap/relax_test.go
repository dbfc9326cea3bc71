package mindmap

import (
	"math"
	"reflect"
	"slices"
	"testing"
)

func coincidentNodes() []Node {
	e := MainShape.Fit("A")
	subj := SubjectShape.Fit("S")
	return []Node{
		{ID: SubjectID, Kind: KindSubject, X: 675, Y: 675, RX: subj.RX, RY: subj.RY},
		{ID: "main-0", Kind: KindMain, X: 675, Y: 300, RX: e.RX, RY: e.RY, Ring: 375, Parent: SubjectID},
		{ID: "main-1", Kind: KindMain, X: 675, Y: 300, RX: e.RX, RY: e.RY, Ring: 375, Parent: SubjectID},
	}
}

func TestRelaxCoincidentNodesDeterministic(t *testing.T) {
	a, b := coincidentNodes(), coincidentNodes()
	relax(a, DefaultIterations, 7)
	relax(b, DefaultIterations, 7)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different layouts:\n%+v\n%+v", a, b)
	}

	d := math.Hypot(a[1].X-a[2].X, a[1].Y-a[2].Y)
	if d < a[1].Extent()+a[2].Extent() {
		t.Errorf("coincident nodes still overlap: distance %v", d)
	}
	if a[0].X != 675 || a[0].Y != 675 {
		t.Errorf("subject moved to (%v, %v)", a[0].X, a[0].Y)
	}

	c := coincidentNodes()
	relax(c, DefaultIterations, 8)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds should separate coincident nodes differently")
	}
}

func TestRepelPinsSubject(t *testing.T) {
	nodes := []Node{
		{ID: SubjectID, Kind: KindSubject, X: 675, Y: 675, RX: 100, RY: 50},
		{ID: "main-0", Kind: KindMain, X: 775, Y: 675, RX: 100, RY: 50, Parent: SubjectID},
	}
	extents := []float64{nodes[0].Extent(), nodes[1].Extent()}
	if !repel(nodes, extents, nil) {
		t.Fatal("repel reported no movement for overlapping nodes")
	}
	if nodes[0].X != 675 || nodes[0].Y != 675 {
		t.Errorf("subject moved to (%v, %v)", nodes[0].X, nodes[0].Y)
	}
	minDist := extents[0] + extents[1] + Margin
	want := 775 + (minDist-100)/2*Damping
	if !approx(nodes[1].X, want) || nodes[1].Y != 675 {
		t.Errorf("main at (%v, %v), want (%v, 675)", nodes[1].X, nodes[1].Y, want)
	}
}

func TestRepelLeavesSeparatedNodes(t *testing.T) {
	nodes := []Node{
		{ID: "a", Kind: KindMain, X: 100, Y: 100, RX: 10, RY: 10},
		{ID: "b", Kind: KindMain, X: 1000, Y: 1000, RX: 10, RY: 10},
	}
	before := slices.Clone(nodes)
	if repel(nodes, []float64{nodes[0].Extent(), nodes[1].Extent()}, nil) {
		t.Error("repel reported movement for distant nodes")
	}
	if !reflect.DeepEqual(before, nodes) {
		t.Error("distant nodes moved")
	}
}

func TestAttractPullsTowardRing(t *testing.T) {
	nodes := []Node{
		{ID: SubjectID, Kind: KindSubject, X: 675, Y: 675},
		{ID: "main-0", Kind: KindMain, X: 675, Y: 175, Ring: 300, Parent: SubjectID},
	}
	if !attract(nodes, parentIndices(nodes)) {
		t.Fatal("attract reported no movement")
	}
	// Distance 500, ring 300: one damped step closes 20 of the 200 gap.
	if !approx(nodes[1].Y, 195) || !approx(nodes[1].X, 675) {
		t.Errorf("main at (%v, %v), want (675, 195)", nodes[1].X, nodes[1].Y)
	}
}

func TestRelaxStopsWhenSettled(t *testing.T) {
	nodes := []Node{{ID: SubjectID, Kind: KindSubject, X: 675, Y: 675, RX: 140, RY: 70}}
	if got := relax(nodes, DefaultIterations, DefaultSeed); got != 1 {
		t.Errorf("relax() rounds = %d, want 1 for a lone subject", got)
	}
}

func TestParentIndices(t *testing.T) {
	nodes := []Node{
		{ID: SubjectID, Kind: KindSubject},
		{ID: "main-0", Kind: KindMain, Parent: SubjectID},
		{ID: "sub-0-0", Kind: KindSub, Parent: "main-0"},
		{ID: "stray", Kind: KindSub, Parent: "missing"},
	}
	want := []int{-1, 0, 1, -1}
	if got := parentIndices(nodes); !reflect.DeepEqual(got, want) {
		t.Errorf("parentIndices() = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	nodes := []Node{
		{X: 0, Y: 0, RX: 100, RY: 50},
		{X: 2000, Y: 2000, RX: 100, RY: 50},
		{X: 675, Y: 675, RX: 100, RY: 50},
	}
	clamp(nodes)
	want := []Point{{150, 100}, {1200, 1250}, {675, 675}}
	for i, n := range nodes {
		if n.X != want[i].X || n.Y != want[i].Y {
			t.Errorf("node %d at (%v, %v), want %+v", i, n.X, n.Y, want[i])
		}
	}
}

func TestSlide(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		dx, dy float64
		want   Point
	}{
		{"free move", 675, 675, 10, -20, Point{685, 655}},
		{"top edge right of center", 700, 100, 0, -30, Point{730, 100}},
		{"top edge left of center", 600, 100, 0, -30, Point{570, 100}},
		{"left edge below center", 150, 800, -40, 0, Point{150, 840}},
		{"corner", 150, 100, -10, -10, Point{150, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Node{X: tt.x, Y: tt.y, RX: 100, RY: 50, Kind: KindSub}
			slide(&n, tt.dx, tt.dy)
			if !approx(n.X, tt.want.X) || !approx(n.Y, tt.want.Y) {
				t.Errorf("slide = (%v, %v), want %+v", n.X, n.Y, tt.want)
			}
		})
	}
}

func TestSeparatePinsSubject(t *testing.T) {
	nodes := coincidentNodes()[:2]
	nodes[1].Y = 500
	need := nodes[0].Extent() + nodes[1].Extent()

	if rounds := separate(nodes); rounds != 2 {
		t.Errorf("separate() rounds = %d, want 2", rounds)
	}
	if nodes[0].X != 675 || nodes[0].Y != 675 {
		t.Errorf("subject moved to (%v, %v)", nodes[0].X, nodes[0].Y)
	}
	if nodes[1].X != 675 {
		t.Errorf("main-0 left its line: x = %v", nodes[1].X)
	}
	if d := 675 - nodes[1].Y; d < need {
		t.Errorf("distance %v, want >= %v", d, need)
	}
}

func TestSeparateCoincidentPair(t *testing.T) {
	nodes := coincidentNodes()
	nodes[1].X, nodes[1].Y = 675, 200
	nodes[2].X, nodes[2].Y = 675, 200

	separate(nodes)
	a, b := nodes[1], nodes[2]
	if math.Hypot(b.X-a.X, b.Y-a.Y) < a.Extent()+b.Extent() {
		t.Errorf("pair still overlaps: %v,%v / %v,%v", a.X, a.Y, b.X, b.Y)
	}
	if a.X >= b.X {
		t.Errorf("coincident pair should split along x: %v, %v", a.X, b.X)
	}
}

func TestSeparateLeavesSeparatedNodes(t *testing.T) {
	nodes := coincidentNodes()
	nodes[1].X, nodes[1].Y = 300, 300
	nodes[2].X, nodes[2].Y = 1050, 1050
	before := slices.Clone(nodes)

	if rounds := separate(nodes); rounds != 1 {
		t.Errorf("separate() rounds = %d, want 1", rounds)
	}
	if !reflect.DeepEqual(nodes, before) {
		t.Error("separate() moved nodes that did not overlap")
	}
}
