package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/topicmap/pkg/document"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/topic"
)

const treeSchema = `{
  "subject": "Derived Subject Name",
  "mainTopics": [
    {
      "title": "Derived Main Topic 1",
      "subtopics": [
        { "title": "Derived Subtopic 1" },
        { "title": "Derived Subtopic 2" }
      ]
    }
  ]
}`

// generationPrompt asks for one topic tree per document, as a JSON array.
func generationPrompt(docs []*document.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are provided with %d files:\n", len(docs))
	for i, d := range docs {
		fmt.Fprintf(&b, "File %d: %s\n", i+1, d.Name)
	}
	b.WriteString("\nEach file contains educational material on a distinct subject.\n")
	b.WriteString("For each file, analyze its content and generate exactly one JSON object with the following format:\n")
	b.WriteString(treeSchema)
	b.WriteString("\nOutput only the JSON array of these objects without any additional text or commentary.")
	return b.String()
}

// generationMessages sends each document's text as its own part, followed
// by the instructions.
func (c *Client) generationMessages(docs []*document.Document) []Message {
	parts := make([]Part, 0, len(docs)+1)
	for i, d := range docs {
		parts = append(parts, Part{
			Type: "text",
			Text: fmt.Sprintf("File %d: %s\n\n%s", i+1, d.Name, d.Excerpt(c.maxRunes)),
		})
	}
	parts = append(parts, Part{Type: "text", Text: generationPrompt(docs)})
	return []Message{{Role: "user", Content: parts}}
}

// GenerateTrees asks the model for one topic tree per document. The reply
// is recovered leniently: code fences and surrounding prose are stripped and
// malformed fields are coerced. With refresh a cached reply is ignored.
func (c *Client) GenerateTrees(ctx context.Context, docs []*document.Document, refresh bool) ([]topic.Tree, error) {
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no documents to generate from")
	}

	req := chatRequest{
		Model:       c.model,
		Messages:    c.generationMessages(docs),
		MaxTokens:   c.maxTokens,
		Temperature: 0,
	}
	content, err := c.complete(ctx, req, refresh)
	if err != nil {
		return nil, err
	}

	trees, err := topic.ParseResponse(content)
	if err != nil {
		c.logger.Debug("unparseable generation response", "content", content)
		return nil, err
	}
	if len(trees) != len(docs) {
		c.logger.Warn("model returned a different number of trees than documents",
			"documents", len(docs), "trees", len(trees))
	}
	return trees, nil
}
