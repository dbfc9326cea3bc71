package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/document"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/store"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	output  string
	yaml    bool
	refresh bool
	save    bool
	render  bool
	flags   renderFlags
}

// generateCommand creates the generate command, which extracts topic trees
// from documents with the configured language model.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [document...]",
		Short: "Extract topic trees from PDF or text documents",
		Long: `Extract topic trees from PDF or text documents.

Every document is sent to the configured OpenAI-compatible model, which
returns one subject per distinct field of study together with its main
topics and subtopics. The trees are written as JSON (or YAML with --yaml or a
.yaml output path) and can be laid out with 'layout' or 'render'.

Set OPENAI_API_KEY (or openai.api_key in the config file) before running.
Responses are cached per document content; --refresh asks the model again.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.render {
				if _, err := opts.flags.options(); err != nil {
					return err
				}
			}
			return c.runGenerate(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "tree file to write (default: stdout)")
	cmd.Flags().BoolVar(&opts.yaml, "yaml", false, "write YAML instead of JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached model responses")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save every generated tree as a map")
	cmd.Flags().BoolVar(&opts.render, "render", false, "also render each tree (see --format)")
	cmd.Flags().StringVarP(&opts.flags.formats, "format", "f", "", "render format(s) with --render: svg (default), png, pdf, json, dot")
	cmd.Flags().BoolVar(&opts.flags.noCache, "no-cache", false, "disable caching")
	opts.flags.width, opts.flags.height, opts.flags.tooltips = pipeline.DefaultWidth, pipeline.DefaultHeight, true

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, paths []string, opts generateOpts) error {
	docs := make([]*document.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := document.Load(p)
		if err != nil {
			return err
		}
		c.Logger.Debug("loaded document", "name", doc.Name, "kind", doc.Kind, "pages", doc.Pages, "runes", len([]rune(doc.Text)))
		docs = append(docs, doc)
	}

	runner, err := c.newRunner(ctx, opts.flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating topics from %d document(s)...", len(docs)))
	spinner.Start()
	trees, cacheHit, err := runner.GenerateWithCacheInfo(ctx, pipeline.Options{
		Documents: docs,
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated %d topic tree(s)", len(trees)))

	if err := writeTrees(trees, opts.output, opts.yaml); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Generated %d topic tree(s)", len(trees))
		printFile(opts.output)
		printStats(0, 0, cacheHit)
	}

	if opts.save {
		if err := c.saveTrees(ctx, trees, docs); err != nil {
			return err
		}
	}
	if opts.render {
		if err := c.renderTrees(ctx, runner, trees, paths[0], opts); err != nil {
			return err
		}
	}

	if opts.output != "" && !opts.render {
		printNewline()
		printNextStep("Render", appName+" render "+opts.output)
	}
	return nil
}

// writeTrees writes trees to path, or to stdout when path is empty.
func writeTrees(trees []topic.Tree, path string, asYAML bool) error {
	format := topic.FormatJSON
	if asYAML || topic.FormatFromPath(path) == topic.FormatYAML {
		format = topic.FormatYAML
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := topic.Write(out, trees, format); err != nil {
		return err
	}
	if path == "" && format == topic.FormatJSON {
		fmt.Fprintln(out)
	}
	return nil
}

func (c *CLI) saveTrees(ctx context.Context, trees []topic.Tree, docs []*document.Document) error {
	user, err := c.userID()
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	for _, t := range trees {
		m := &store.Map{UserID: user, Tree: t, Source: strings.Join(names, ", ")}
		if err := st.CreateMap(ctx, m); err != nil {
			return err
		}
		printSuccess("Saved %s", StyleValue.Render(m.Title))
		printDetail("id %s", m.ID)
	}
	return nil
}

func (c *CLI) renderTrees(ctx context.Context, runner *pipeline.Runner, trees []topic.Tree, firstDoc string, opts generateOpts) error {
	ropts, err := opts.flags.options()
	if err != nil {
		return err
	}
	c.applyLayoutConfig(&ropts)

	input := opts.output
	if input == "" {
		input = filepath.Base(firstDoc)
	}
	for i, t := range trees {
		result, err := runner.ExecuteTree(ctx, t, ropts)
		if err != nil {
			return fmt.Errorf("render %s: %w", t.Subject, err)
		}
		base := basePath("", input)
		if len(trees) > 1 {
			base = fmt.Sprintf("%s-%d", base, i+1)
		}
		paths, err := writeArtifacts(result.Artifacts, ropts.Formats, base, "")
		if err != nil {
			return err
		}
		printSuccess("Rendered %s", displayOr(t.Subject, "mind map"))
		for _, p := range paths {
			printFile(p)
		}
	}
	return nil
}
