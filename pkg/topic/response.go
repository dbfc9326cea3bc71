package topic

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/matzehuels/topicmap/pkg/errors"
)

// fenceRegex matches a markdown code fence, optionally tagged as json, and
// captures its body.
var fenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON returns the JSON payload embedded in a model response. The body
// of the first code fence wins; without a fence the payload starts at the
// first '{' or '[' and runs to the end of the text.
func ExtractJSON(content string) (string, error) {
	if m := fenceRegex.FindStringSubmatch(content); m != nil {
		return m[1], nil
	}
	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return "", errors.New(errors.ErrCodeGenerationFailed, "response contains no JSON")
	}
	return content[start:], nil
}

// ExtractJSONArray returns the JSON array embedded in a model response: the
// body of a code fence, or else everything from the first '[' to the last ']'.
func ExtractJSONArray(content string) (string, error) {
	if m := fenceRegex.FindStringSubmatch(content); m != nil {
		return m[1], nil
	}
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return "", errors.New(errors.ErrCodeGenerationFailed, "response contains no JSON array")
	}
	return content[start : end+1], nil
}

// ParseResponse recovers topic trees from a model response. The payload may
// be a single tree or an array of trees; trailing prose after the payload is
// ignored.
func ParseResponse(content string) ([]Tree, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrCodeGenerationFailed, "empty response")
	}
	payload, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var v any
	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed, err, "response is not valid JSON")
	}

	trees := fromAny(v)
	if len(trees) == 0 {
		return nil, errors.New(errors.ErrCodeGenerationFailed, "response contains no topic trees")
	}
	return trees, nil
}
