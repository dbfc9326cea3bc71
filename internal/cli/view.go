package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/store"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// viewCommand creates the view command, an interactive terminal browser for
// a tree file or a saved map.
func (c *CLI) viewCommand() *cobra.Command {
	var mapID string

	cmd := &cobra.Command{
		Use:   "view [tree.json|tree.yaml]",
		Short: "Browse a mind map in the terminal",
		Long: `Browse a mind map in the terminal.

With a tree file, the first tree in it is laid out and shown. With --map the
saved map with that ID is shown. With neither, pick from your saved maps.

The browser lists every topic with its kind, ring and canvas position.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch {
			case len(args) == 1:
				trees, err := readTrees(args[0])
				if err != nil {
					return err
				}
				return c.browse(ctx, trees[0].Subject, trees[0])
			case mapID != "":
				return c.withStore(ctx, func(st store.Store, user string) error {
					m, err := ownedMap(ctx, st, user, mapID)
					if err != nil {
						return err
					}
					return c.browse(ctx, m.Title, m.Tree)
				})
			default:
				return c.pickAndBrowse(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&mapID, "map", "", "ID of a saved map to browse")

	return cmd
}

// pickAndBrowse lets the user choose a saved map, then browses it.
func (c *CLI) pickAndBrowse(ctx context.Context) error {
	var maps []store.Map
	err := c.withStore(ctx, func(st store.Store, user string) error {
		var err error
		maps, err = st.ListMaps(ctx, user)
		return err
	})
	if err != nil {
		return err
	}
	if len(maps) == 0 {
		printInfo("No saved maps")
		printDetail("Pass a tree file or save one with '%s maps save tree.json'", appName)
		return nil
	}

	final, err := tea.NewProgram(NewMapListModel(maps), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("map picker: %w", err)
	}
	picked := final.(MapListModel).Selected
	if picked == nil {
		return nil
	}
	return c.browse(ctx, picked.Title, picked.Tree)
}

// browse lays out t and opens the topic browser.
func (c *CLI) browse(ctx context.Context, title string, t topic.Tree) error {
	opts := pipeline.Options{}
	c.applyLayoutConfig(&opts)
	layout := pipeline.ComputeLayout(t, opts)

	if _, err := tea.NewProgram(NewTopicBrowserModel(title, layout), tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("topic browser: %w", err)
	}
	return nil
}
