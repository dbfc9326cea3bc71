// Package document extracts plain text from study material so it can be
// turned into topic trees.
//
// Supported inputs are PDF files (text runs per page) and plain text or
// markdown files. Anything else, and any document without text, is rejected
// with an INVALID_DOCUMENT error.
package document

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/topicmap/pkg/errors"
)

// Kind is the detected document type.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "text"
)

// Document is extracted study material.
type Document struct {
	Name  string // base file name, used as the label sent to the model
	Kind  Kind
	Text  string
	Pages int // 1 for text documents
}

// KindFromName detects the kind from a file extension.
func KindFromName(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, true
	case ".txt", ".md", ".markdown", ".text":
		return KindText, true
	}
	return "", false
}

// Load reads and extracts the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", path)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes extracts a document from an uploaded file.
func FromBytes(name string, data []byte) (*Document, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	kind, ok := KindFromName(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"unsupported document type %q (want .pdf, .txt or .md)", filepath.Ext(name))
	}

	doc := &Document{Name: name, Kind: kind}
	switch kind {
	case KindPDF:
		text, pages, err := extractPDF(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "%s is not a readable PDF", name)
		}
		doc.Text, doc.Pages = text, pages
	case KindText:
		if !utf8.Valid(data) {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "%s is not valid UTF-8 text", name)
		}
		doc.Text, doc.Pages = normalizeText(string(data)), 1
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "%s contains no extractable text", name)
	}
	return doc, nil
}

// Excerpt returns at most maxRunes runes of the text, cut at the last
// whitespace before the limit when there is one. maxRunes <= 0 returns the
// full text.
func (d *Document) Excerpt(maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(d.Text) <= maxRunes {
		return d.Text
	}
	runes := []rune(d.Text)[:maxRunes]
	cut := string(runes)
	if i := strings.LastIndexAny(cut, " \n\t"); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

// normalizeText unifies line endings and collapses runs of blank lines.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
