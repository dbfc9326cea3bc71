package pipeline

import (
	"context"

	"github.com/matzehuels/topicmap/pkg/document"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// Generator produces topic trees from documents, usually by calling a
// language model. *openai.Client implements it.
type Generator interface {
	GenerateTrees(ctx context.Context, docs []*document.Document, refresh bool) ([]topic.Tree, error)
	Model() string
	MaxTokens() int
}

// documentEntry is the hashed identity of one document.
type documentEntry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func documentEntries(docs []*document.Document) []documentEntry {
	entries := make([]documentEntry, len(docs))
	for i, d := range docs {
		entries[i] = documentEntry{Name: d.Name, Kind: string(d.Kind), Text: d.Text}
	}
	return entries
}
