package mindmap

import "unicode/utf8"

// Text fitting policy.
const (
	MaxTitleRunes = 50    // titles longer than this are truncated for display
	Ellipsis      = "..." // appended to truncated titles
	MinFontSize   = 8.0
	MaxFontSize   = 24.0

	truncatedRunes = MaxTitleRunes - len(Ellipsis)
	fontScale      = 0.6
)

// Shape is a per-kind sizing policy. Ellipses grow linearly with the title
// length and are capped at MaxRX/MaxRY.
type Shape struct {
	BaseRX, BaseRY         float64
	WideFactor, TallFactor float64
	MaxRX, MaxRY           float64
}

// Sizing policies for each node kind.
var (
	SubjectShape = Shape{BaseRX: 140, BaseRY: 70, WideFactor: 2.5, TallFactor: 1.0, MaxRX: 300, MaxRY: 120}
	MainShape    = Shape{BaseRX: 110, BaseRY: 55, WideFactor: 2.2, TallFactor: 0.8, MaxRX: 240, MaxRY: 120}
	SubShape     = Shape{BaseRX: 90, BaseRY: 45, WideFactor: 1.8, TallFactor: 0.7, MaxRX: 160, MaxRY: 80}
)

// ShapeFor returns the sizing policy for k.
func ShapeFor(k Kind) Shape {
	switch k {
	case KindSubject:
		return SubjectShape
	case KindMain:
		return MainShape
	default:
		return SubShape
	}
}

// Ellipse is a fitted node: the display text and the ellipse that holds it.
type Ellipse struct {
	Text     string
	RX, RY   float64
	FontSize float64
}

// Fit sizes an ellipse for title. Length is measured in runes. Titles over
// [MaxTitleRunes] are cut to exactly that many runes, ellipsis included.
func (s Shape) Fit(title string) Ellipse {
	n := utf8.RuneCountInString(title)
	rx := min(s.BaseRX+float64(n)*s.WideFactor, s.MaxRX)
	ry := min(s.BaseRY+float64(n)*s.TallFactor, s.MaxRY)

	text := title
	if n > MaxTitleRunes {
		text = string([]rune(title)[:truncatedRunes]) + Ellipsis
	}

	return Ellipse{
		Text:     text,
		RX:       rx,
		RY:       ry,
		FontSize: max(MinFontSize, min(MaxFontSize, min(rx, ry)*fontScale)),
	}
}
