package mindmap

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestShapeFit(t *testing.T) {
	tests := []struct {
		name     string
		shape    Shape
		title    string
		wantRX   float64
		wantRY   float64
		wantFont float64
	}{
		{"EmptySubject", SubjectShape, "", 140, 70, 24},
		{"ShortSub", SubShape, "DNA", 95.4, 47.1, 24},
		{"MainGrowth", MainShape, "Genetics", 127.6, 61.4, 24},
		{"SubjectCapped", SubjectShape, strings.Repeat("x", 200), 300, 120, 24},
		{"SubCapped", SubShape, strings.Repeat("x", 120), 160, 80, 24},
		{"TinyFontFloor", Shape{BaseRX: 5, BaseRY: 5, MaxRX: 10, MaxRY: 10}, "", 5, 5, MinFontSize},
		{"FontScalesWithMinorAxis", Shape{BaseRX: 100, BaseRY: 20, MaxRX: 100, MaxRY: 20}, "", 100, 20, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.shape.Fit(tt.title)
			if !approx(e.RX, tt.wantRX) || !approx(e.RY, tt.wantRY) {
				t.Errorf("Fit() radii = (%v, %v), want (%v, %v)", e.RX, e.RY, tt.wantRX, tt.wantRY)
			}
			if !approx(e.FontSize, tt.wantFont) {
				t.Errorf("Fit() font = %v, want %v", e.FontSize, tt.wantFont)
			}
			if e.RX <= 0 || e.RY <= 0 {
				t.Errorf("Fit() radii must be positive, got (%v, %v)", e.RX, e.RY)
			}
		})
	}
}

func TestShapeFitTruncation(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantRunes int
		truncated bool
	}{
		{"Short", strings.Repeat("a", 10), 10, false},
		{"AtLimit", strings.Repeat("a", 50), 50, false},
		{"JustOver", strings.Repeat("a", 51), 50, true},
		{"Sixty", strings.Repeat("a", 60), 50, true},
		{"Multibyte", strings.Repeat("é", 60), 50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := SubShape.Fit(tt.title)
			if n := utf8.RuneCountInString(e.Text); n != tt.wantRunes {
				t.Errorf("display runes = %d, want %d", n, tt.wantRunes)
			}
			if !tt.truncated {
				if e.Text != tt.title {
					t.Errorf("Text = %q, want unchanged %q", e.Text, tt.title)
				}
				return
			}
			if !strings.HasSuffix(e.Text, Ellipsis) {
				t.Errorf("Text = %q, want %q suffix", e.Text, Ellipsis)
			}
			prefix := string([]rune(tt.title)[:47])
			if !strings.HasPrefix(e.Text, prefix) {
				t.Errorf("Text = %q, want prefix %q", e.Text, prefix)
			}
		})
	}
}

func TestShapeFor(t *testing.T) {
	if ShapeFor(KindSubject) != SubjectShape || ShapeFor(KindMain) != MainShape || ShapeFor(KindSub) != SubShape {
		t.Error("ShapeFor returned the wrong policy")
	}
}
