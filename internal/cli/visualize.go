package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/render/sink"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		flags    renderFlags
		graphviz bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a mind map from a computed layout",
		Long: `Render a mind map from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, PNG, PDF, JSON or Graphviz DOT. The layout contains all
positioning information, so this step is purely about rendering.

With --graphviz the DOT document is additionally run through Graphviz's neato
engine (positions pinned) and written as <base>.graphviz.svg.

Use 'render' as a shortcut to go directly from a tree to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, flags, graphviz)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&graphviz, "graphviz", false, "also render the DOT output through Graphviz to SVG")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, flags renderFlags, graphviz bool) error {
	layout, err := graph.ReadLayoutFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "load layout %s", input)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering mind map...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	base := basePath(flags.output, input)
	paths, err := writeArtifacts(artifacts, opts.Formats, base, flags.output)
	if err != nil {
		return err
	}

	if graphviz {
		svg, err := renderGraphviz(ctx, layout)
		if err != nil {
			return err
		}
		gvPaths, err := writeArtifacts(map[string][]byte{"graphviz.svg": svg}, []string{"graphviz.svg"}, base, "")
		if err != nil {
			return err
		}
		paths = append(paths, gvPaths...)
	}

	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(layout.Nodes), len(layout.Edges), cacheHit)
	return nil
}

// renderGraphviz runs the layout's DOT form through Graphviz.
func renderGraphviz(ctx context.Context, l graph.Layout) ([]byte, error) {
	scene, err := graph.Parse(l)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "convert layout")
	}
	return sink.RenderGraphviz(ctx, sink.ToDOT(scene))
}
