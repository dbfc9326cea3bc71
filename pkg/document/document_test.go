package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/topicmap/pkg/errors"
)

// buildPDF writes a minimal uncompressed PDF with one page per entry. Each
// page is a list of lines set in 12pt Helvetica, 20pt apart.
func buildPDF(pages ...[]string) []byte {
	var objs []string
	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding" +
		" /FirstChar 32 /LastChar 126 /Widths [" + strings.TrimSpace(strings.Repeat("500 ", 95)) + "] >>"

	// 1 catalog, 2 page tree, 3 font, then a page and content pair per page.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		font,
	)
	for i, lines := range pages {
		var content strings.Builder
		content.WriteString("BT /F1 12 Tf 72 720 Td")
		for j, line := range lines {
			if j > 0 {
				content.WriteString(" 0 -20 Td")
			}
			fmt.Fprintf(&content, " (%s) Tj", line)
		}
		content.WriteString(" ET")
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestFromBytesPDF(t *testing.T) {
	data := buildPDF(
		[]string{"Photosynthesis", "Light reactions"},
		[]string{"Calvin cycle"},
	)

	doc, err := FromBytes("biology.pdf", data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if doc.Kind != KindPDF || doc.Pages != 2 {
		t.Errorf("doc = %+v, want pdf with 2 pages", doc)
	}
	want := "Photosynthesis\nLight reactions\n\nCalvin cycle"
	if doc.Text != want {
		t.Errorf("Text = %q, want %q", doc.Text, want)
	}
}

func TestFromBytesText(t *testing.T) {
	doc, err := FromBytes("notes.md", []byte("# Cells\r\n\r\n\r\n\r\nMitochondria   \r\nNucleus\r\n"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if doc.Kind != KindText || doc.Pages != 1 {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Text != "# Cells\n\nMitochondria\nNucleus" {
		t.Errorf("Text = %q", doc.Text)
	}
}

func TestFromBytesErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"Unsupported", "slides.pptx", []byte("x")},
		{"EmptyText", "empty.txt", []byte(" \n\t ")},
		{"InvalidUTF8", "bad.txt", []byte{0xff, 0xfe, 0xfd}},
		{"NotAPDF", "fake.pdf", []byte("hello, I am not a pdf")},
		{"HiddenName", ".secret.txt", []byte("text")},
		{"PathInName", "../etc/notes.txt", []byte("text")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(tt.file, tt.data)
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("FromBytes(%q) error = %v, want INVALID_DOCUMENT", tt.file, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chemistry.txt")
	os.WriteFile(path, []byte("Atoms and bonds"), 0644)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Name != "chemistry.txt" || doc.Text != "Atoms and bonds" {
		t.Errorf("doc = %+v", doc)
	}

	_, err = Load(filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExcerpt(t *testing.T) {
	doc := &Document{Text: "alpha beta gamma delta"}
	tests := []struct {
		max  int
		want string
	}{
		{0, "alpha beta gamma delta"},
		{100, "alpha beta gamma delta"},
		{13, "alpha beta"},
		{3, "alp"},
	}
	for _, tt := range tests {
		if got := doc.Excerpt(tt.max); got != tt.want {
			t.Errorf("Excerpt(%d) = %q, want %q", tt.max, got, tt.want)
		}
	}

	multi := &Document{Text: "ünïcödé wörds"}
	if got := multi.Excerpt(9); got != "ünïcödé" {
		t.Errorf("Excerpt on multibyte text = %q", got)
	}
}

func TestKindFromName(t *testing.T) {
	tests := map[string]Kind{
		"a.PDF":      KindPDF,
		"a.txt":      KindText,
		"a.markdown": KindText,
	}
	for name, want := range tests {
		if got, ok := KindFromName(name); !ok || got != want {
			t.Errorf("KindFromName(%q) = %q, %v", name, got, ok)
		}
	}
	if _, ok := KindFromName("a.docx"); ok {
		t.Error("docx should be unsupported")
	}
}
