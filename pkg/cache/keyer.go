package cache

// Key stage prefixes.
const (
	keyGenerate = "generate"
	keyLayout   = "layout"
	keyArtifact = "artifact"
	keyHTTP     = "http"
)

// Keyer derives cache keys for each pipeline stage. Every option that
// changes a stage's output must be part of its key.
type Keyer interface {
	// HTTPKey keys a raw HTTP response within a namespace.
	HTTPKey(namespace, key string) string

	// GenerateKey keys the topic trees generated from a document.
	GenerateKey(documentHash string, opts GenerateKeyOpts) string

	// LayoutKey keys the layout computed from a topic tree.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// GenerateKeyOpts are the generation options that affect the model output.
type GenerateKeyOpts struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

// LayoutKeyOpts are the layout options that affect node positions.
type LayoutKeyOpts struct {
	Iterations int    `json:"iterations"`
	Seed       uint64 `json:"seed"`
}

// ArtifactKeyOpts are the render options that affect an artifact's bytes.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	LinkTemplate string  `json:"link_template,omitempty"`
	Tooltips     bool    `json:"tooltips"`
}

// DefaultKeyer hashes stage inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>" unhashed so entries stay readable.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return keyHTTP + ":" + namespace + ":" + key
}

func (DefaultKeyer) GenerateKey(documentHash string, opts GenerateKeyOpts) string {
	return hashKey(keyGenerate, documentHash, opts)
}

func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey(keyLayout, treeHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(keyArtifact, layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
