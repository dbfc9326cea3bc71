package topic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format for topic tree files.
type Format string

// Supported tree file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the file format from the extension of path.
// Anything other than .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Lenient Unmarshalers
// =============================================================================

// UnmarshalJSON decodes any JSON value into t, coercing malformed fields
// instead of failing. Only syntax errors are returned.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = FromValue(v)
	return nil
}

// UnmarshalYAML is the YAML counterpart of [Tree.UnmarshalJSON].
func (t *Tree) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	*t = FromValue(v)
	return nil
}

// =============================================================================
// Decoding API
// =============================================================================

// Decode decodes a single tree from JSON bytes.
func Decode(data []byte) (Tree, error) {
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return Tree{}, fmt.Errorf("decode tree: %w", err)
	}
	return t, nil
}

// DecodeAll decodes JSON holding either one tree or an array of trees.
func DecodeAll(data []byte) ([]Tree, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode trees: %w", err)
	}
	return fromAny(v), nil
}

// DecodeYAML decodes YAML holding either one tree or a sequence of trees.
func DecodeYAML(data []byte) ([]Tree, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode yaml trees: %w", err)
	}
	return fromAny(v), nil
}

// Read decodes trees in the given format from r.
func Read(r io.Reader, format Format) ([]Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read trees: %w", err)
	}
	if format == FormatYAML {
		return DecodeYAML(data)
	}
	return DecodeAll(data)
}

// ReadFile reads one or more trees from a JSON or YAML file.
func ReadFile(path string) ([]Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Read(bytes.NewReader(data), FormatFromPath(path))
}

func fromAny(v any) []Tree {
	switch val := v.(type) {
	case []any:
		out := make([]Tree, 0, len(val))
		for _, item := range val {
			out = append(out, FromValue(item))
		}
		return out
	case nil:
		return nil
	default:
		return []Tree{FromValue(val)}
	}
}

// =============================================================================
// Encoding API
// =============================================================================

// Marshal encodes trees in the given format. A single tree is written as an
// object, several trees as an array.
func Marshal(trees []Tree, format Format) ([]byte, error) {
	var v any = trees
	if len(trees) == 1 {
		v = trees[0]
	}
	if format == FormatYAML {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// Write encodes trees to w in the given format.
func Write(w io.Writer, trees []Tree, format Format) error {
	data, err := Marshal(trees, format)
	if err != nil {
		return fmt.Errorf("encode trees: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes trees to path, choosing the format from its extension.
func WriteFile(path string, trees []Tree) error {
	data, err := Marshal(trees, FormatFromPath(path))
	if err != nil {
		return fmt.Errorf("encode trees: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
