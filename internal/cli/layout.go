package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing mind map layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [tree.json|tree.yaml]",
		Short: "Compute a radial mind map layout from a topic tree",
		Long: `Compute a radial mind map layout from a topic tree.

The layout command takes a tree file (produced by 'generate' or written by
hand) and places the subject, main topics and subtopics on the canvas. The
output is a layout.json file (same format as 'render -f json') that can be
rendered to SVG/PNG/PDF/DOT using the 'visualize' command.

Layouts are deterministic for a given tree, iteration count and seed, and
are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "relaxation iterations (default from config or engine)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "jitter seed (default from config or engine)")

	return cmd
}

// runLayout loads the trees, computes one layout per tree, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	trees, err := readTrees(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	c.applyLayoutConfig(&opts)

	var last string
	for i, t := range trees {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %s...", displayOr(t.Subject, "mind map")))
		spinner.Start()
		layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, t, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("compute layout: %w", err)
		}
		spinner.Stop()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		outputPath := layoutPath(input, output, i, len(trees))
		if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
		last = outputPath

		printSuccess("Layout complete: %s", displayOr(t.Subject, "mind map"))
		printFile(outputPath)
		printStats(len(layout.Nodes), len(layout.Edges), cacheHit)
	}

	printNewline()
	printNextStep("Render", appName+" visualize "+last)
	return nil
}

// layoutPath names the layout file for tree i of n.
func layoutPath(input, output string, i, n int) string {
	if output != "" && n == 1 {
		return output
	}
	base := basePath("", input)
	if output != "" {
		base = basePath("", output)
	}
	if n > 1 {
		return fmt.Sprintf("%s-%d.layout.json", base, i+1)
	}
	return base + ".layout.json"
}
