package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// Recommendation is a suggested topic to study next.
type Recommendation struct {
	Keyword     string `json:"keyword"`
	DisplayText string `json:"displayText"`
}

// Engagement is time a user spent reading about a topic.
type Engagement struct {
	Name    string `json:"name"`
	Seconds int    `json:"seconds"`
}

// recommendTopics merges interests and engagement into a de-duplicated
// list, interests first.
func recommendTopics(interests []string, engagement []Engagement) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range interests {
		add(s)
	}
	for _, e := range engagement {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		add(fmt.Sprintf("%s (%ds engagement)", strings.TrimSpace(e.Name), max(e.Seconds, 0)))
	}
	return out
}

func recommendPrompt(topics []string) string {
	return fmt.Sprintf("Based on the user's stated interests and recent engagement (%s), "+
		"suggest 20-30 diverse and relevant educational course topics or specific sub-topics "+
		"they might want to explore next. Focus on related concepts, deeper dives, or complementary areas. "+
		`Output only a JSON array where each element is an object with two properties: `+
		`{ "keyword": "<topic keyword>", "displayText": "Learn More About <topic keyword>" }. `+
		"Return nothing else besides the valid JSON array.", strings.Join(topics, ", "))
}

// Recommend suggests topics to study next. With no interests and no
// engagement it returns an empty list without calling the API. Entries
// missing a keyword or display text are dropped.
func (c *Client) Recommend(ctx context.Context, interests []string, engagement []Engagement, refresh bool) ([]Recommendation, error) {
	topics := recommendTopics(interests, engagement)
	if len(topics) == 0 {
		return []Recommendation{}, nil
	}

	req := chatRequest{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: recommendPrompt(topics)}},
		MaxTokens:   recommendMaxTokens,
		Temperature: recommendTemperature,
	}
	content, err := c.complete(ctx, req, refresh)
	if err != nil {
		return nil, err
	}
	return parseRecommendations(content)
}

func parseRecommendations(content string) ([]Recommendation, error) {
	payload, err := topic.ExtractJSONArray(content)
	if err != nil {
		return nil, err
	}
	var raw []any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed, err, "recommendations are not a JSON array")
	}

	out := make([]Recommendation, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		kw, _ := m["keyword"].(string)
		text, _ := m["displayText"].(string)
		kw, text = strings.TrimSpace(kw), strings.TrimSpace(text)
		if kw == "" || text == "" {
			continue
		}
		out = append(out, Recommendation{Keyword: kw, DisplayText: text})
	}
	return out, nil
}
