package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// renderFlags holds the flags shared by every command that writes artifacts.
type renderFlags struct {
	formats  string
	output   string
	noCache  bool
	width    float64
	height   float64
	link     string
	tooltips bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "SVG viewport width")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "SVG viewport height")
	cmd.Flags().StringVar(&f.link, "link", "", `href template for topic nodes; "{topic}" is replaced by the title`)
	cmd.Flags().BoolVar(&f.tooltips, "tooltips", true, "add hover titles with the full topic name")
}

// options validates the flags and converts them to pipeline options.
func (f *renderFlags) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats:      parseFormats(f.formats),
		Width:        f.width,
		Height:       f.height,
		LinkTemplate: f.link,
		Tooltips:     f.tooltips,
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}
	return opts, nil
}

// renderCommand creates the render command, which goes from a topic tree
// straight to artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      renderFlags
		iterations int
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "render [tree.json|tree.yaml]",
		Short: "Render a topic tree as a mind map",
		Long: `Render a topic tree as a mind map.

The input is a tree file as written by 'generate' (JSON or YAML, one tree or a
list). Each tree is laid out and rendered to the requested formats; files are
named after the input, with a -N suffix when the file holds several trees.

This is a shortcut for 'layout' followed by 'visualize'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			opts.Iterations, opts.Seed = iterations, seed
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&iterations, "iterations", 0, "relaxation iterations (default from config or engine)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "jitter seed (default from config or engine)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	trees, err := readTrees(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	c.applyLayoutConfig(&opts)

	for i, t := range trees {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", displayOr(t.Subject, "mind map")))
		spinner.Start()
		result, err := runner.ExecuteTree(ctx, t, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render %s: %w", input, err)
		}
		spinner.Stop()

		base, output := basePath(flags.output, input), flags.output
		if len(trees) > 1 {
			base, output = fmt.Sprintf("%s-%d", base, i+1), ""
		}
		paths, err := writeArtifacts(result.Artifacts, opts.Formats, base, output)
		if err != nil {
			return err
		}

		printSuccess("Rendered %s", displayOr(t.Subject, "mind map"))
		for _, p := range paths {
			printFile(p)
		}
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	}
	return nil
}

// =============================================================================
// Input and output helpers
// =============================================================================

// readTrees loads every tree from a JSON or YAML file.
func readTrees(path string) ([]topic.Tree, error) {
	trees, err := topic.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tree file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "read trees from %s", path)
	}
	if len(trees) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTree, "%s contains no topic trees", path)
	}
	return trees, nil
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	formats := pipeline.ParseFormats(s)
	if len(formats) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return formats
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. A known format
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath names the file for one format. A single format with an
// explicit output path is written exactly there.
func artifactPath(base, output, format string, formats int) string {
	if formats == 1 && output != "" && filepath.Ext(output) != "" {
		return output
	}
	return base + "." + format
}

// writeArtifacts writes each rendered format to disk in the order requested
// and returns the paths written.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(base, output, format, len(formats))
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
