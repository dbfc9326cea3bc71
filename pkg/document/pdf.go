package document

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"rsc.io/pdf"
)

// extractPDF returns the text of every page, pages separated by blank lines.
// The pdf package panics on some malformed content streams; those panics are
// reported as errors.
func extractPDF(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}

	pages = r.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		if s := pageText(p.Content().Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), pages, nil
}

// pageText joins glyph runs into words and lines. The pdf package yields
// one Text per glyph and drops spaces, so word breaks are recovered from
// the horizontal gap between consecutive glyphs.
func pageText(runs []pdf.Text) string {
	var b strings.Builder
	var prev *pdf.Text
	for i := range runs {
		cur := &runs[i]
		if strings.TrimSpace(cur.S) == "" {
			continue
		}
		if prev != nil {
			size := math.Max(prev.FontSize, 1)
			switch {
			case math.Abs(cur.Y-prev.Y) > size/2:
				b.WriteByte('\n')
			case cur.X-(prev.X+prev.W) > size*0.15:
				b.WriteByte(' ')
			}
		}
		b.WriteString(cur.S)
		prev = cur
	}
	return strings.TrimSpace(b.String())
}
