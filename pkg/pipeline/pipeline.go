// Package pipeline provides the core mind map pipeline for topicmap.
//
// This package implements the complete generate → layout → render pipeline
// used by both the CLI and the HTTP API. By centralizing this logic, both
// entry points share caching, defaults and validation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: Ask the language model for one topic tree per document
//  2. Layout: Compute the radial mind map for a topic tree
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Generator = openaiClient
//	results, err := runner.Execute(ctx, pipeline.Options{
//	    Documents: docs,
//	    Formats:   []string{"svg"},
//	})
//	svg := results[0].Artifacts["svg"]
//
// Run individual stages:
//
//	// Layout an existing tree
//	layout, err := runner.ComputeLayout(ctx, tree, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/document"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/mindmap"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default output width in pixels.
	DefaultWidth = mindmap.CanvasWidth

	// DefaultHeight is the default output height in pixels.
	DefaultHeight = mindmap.CanvasHeight

	// DefaultIterations is the default number of relaxation rounds.
	DefaultIterations = mindmap.DefaultIterations

	// DefaultSeed is the default seed for the coincident-centre nudge.
	DefaultSeed = mindmap.DefaultSeed

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// MaxViewport bounds the requested output size.
	MaxViewport = 10000.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the mind map pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Documents []*document.Document `json:"-"`
	Refresh   bool                 `json:"refresh,omitempty"`

	// Layout options
	Iterations int    `json:"iterations,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Width        float64  `json:"width,omitempty"`
	Height       float64  `json:"height,omitempty"`
	LinkTemplate string   `json:"link_template,omitempty"`
	Tooltips     bool     `json:"tooltips,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run for one topic tree.
type Result struct {
	// Tree is the topic tree that was laid out.
	Tree topic.Tree

	// TreeHash is the content hash of the normalized tree.
	TreeHash string

	// Layout is the serialized scene.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the trees came from cache
	LayoutHit   bool // Whether the layout came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks that there is something to generate from.
func (o *Options) ValidateForGenerate() error {
	if len(o.Documents) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one document is required")
	}
	for i, d := range o.Documents {
		if d == nil {
			return errors.New(errors.ErrCodeInvalidInput, "document %d is nil", i)
		}
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.setLogger()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 || o.Width > MaxViewport || o.Height > MaxViewport {
		return errors.New(errors.ErrCodeInvalidInput,
			"viewport %.0fx%.0f out of range (0, %.0f]", o.Width, o.Height, MaxViewport)
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Iterations: o.Iterations,
		Seed:       o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Only SVG-derived formats depend on the viewport, links and tooltips.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		opts.Width = o.Width
		opts.Height = o.Height
		opts.LinkTemplate = o.LinkTemplate
		opts.Tooltips = o.Tooltips
	}
	return opts
}

// LayoutOptions returns the engine options for o.
func (o *Options) LayoutOptions() mindmap.Options {
	return mindmap.Options{Iterations: o.Iterations, Seed: o.Seed}
}
