package graph

// =============================================================================
// Layout - Mind Map Serialization
// =============================================================================

// Layout is the canonical serialization format for a laid-out mind map.
//
// Coordinates live on a Width x Height virtual canvas; renderers scale them
// to the requested viewport. Seed and Iterations record the relaxation
// settings so a layout can be reproduced from its source tree.
type Layout struct {
	Width      float64 `json:"width" bson:"width"`
	Height     float64 `json:"height" bson:"height"`
	Seed       uint64  `json:"seed,omitempty" bson:"seed,omitempty"`
	Iterations int     `json:"iterations,omitempty" bson:"iterations,omitempty"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Subject returns the subject node, or false if the layout has none.
func (l *Layout) Subject() (Node, bool) {
	for _, n := range l.Nodes {
		if n.Kind == KindSubject {
			return n, true
		}
	}
	return Node{}, false
}

// Node kinds as they appear on the wire.
const (
	KindSubject = "subject"
	KindMain    = "main"
	KindSub     = "sub"
)

// =============================================================================
// Node - Positioned Ellipse
// =============================================================================

// Node is a positioned topic ellipse.
type Node struct {
	ID            string  `json:"id" bson:"id"`
	Kind          string  `json:"kind" bson:"kind"` // "subject", "main" or "sub"
	Title         string  `json:"title" bson:"title"`
	OriginalTitle string  `json:"original_title,omitempty" bson:"original_title,omitempty"`
	X             float64 `json:"x" bson:"x"`
	Y             float64 `json:"y" bson:"y"`
	RX            float64 `json:"rx" bson:"rx"`
	RY            float64 `json:"ry" bson:"ry"`
	FontSize      float64 `json:"font_size" bson:"font_size"`
	Ring          float64 `json:"ring,omitempty" bson:"ring,omitempty"`
	Parent        string  `json:"parent,omitempty" bson:"parent,omitempty"`
}

// DisplayTitle returns the original title if set, otherwise the display title.
func (n *Node) DisplayTitle() string {
	if n.OriginalTitle != "" {
		return n.OriginalTitle
	}
	return n.Title
}

// =============================================================================
// Edge - Parent/Child Link
// =============================================================================

// Edge links a parent topic to a child topic.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}
