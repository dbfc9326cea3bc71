package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/store"
)

// mapsCommand creates the maps command for managing saved mind maps.
func (c *CLI) mapsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Manage saved mind maps",
		Long: `Manage saved mind maps.

Maps are stored per user in the configured store (SQLite by default, MongoDB
when TOPICMAP_MONGO_URI is set). Only the topic tree is saved; layouts are
recomputed when a map is rendered.`,
	}

	cmd.AddCommand(c.mapsListCommand())
	cmd.AddCommand(c.mapsShowCommand())
	cmd.AddCommand(c.mapsSaveCommand())
	cmd.AddCommand(c.mapsRenameCommand())
	cmd.AddCommand(c.mapsDeleteCommand())
	cmd.AddCommand(c.mapsRenderCommand())

	return cmd
}

// withStore resolves the user and opens the store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(st store.Store, user string) error) error {
	user, err := c.userID()
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st, user)
}

// ownedMap loads a map and checks that user owns it.
func ownedMap(ctx context.Context, st store.Store, user, id string) (*store.Map, error) {
	m, err := st.GetMap(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.UserID != user {
		return nil, errors.Wrap(errors.ErrCodeMapNotFound, store.ErrNotFound, "mind map %q not found", id)
	}
	return m, nil
}

func (c *CLI) mapsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved maps, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, user string) error {
				maps, err := st.ListMaps(cmd.Context(), user)
				if err != nil {
					return err
				}
				if len(maps) == 0 {
					printInfo("No saved maps for %s", user)
					printDetail("Save one with '%s maps save tree.json'", appName)
					return nil
				}
				for _, m := range maps {
					printMapSummary(m)
				}
				return nil
			})
		},
	}
}

func (c *CLI) mapsShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a saved map's topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, user string) error {
				m, err := ownedMap(cmd.Context(), st, user, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					data, err := json.MarshalIndent(m, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, string(data))
					return nil
				}
				printKeyValue("Title", m.Title)
				printKeyValue("ID", m.ID)
				if m.Source != "" {
					printKeyValue("Source", m.Source)
				}
				printKeyValue("Created", m.CreatedAt.Local().Format("2006-01-02 15:04"))
				printNewline()
				printTree(m.Tree)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the map as JSON")
	return cmd
}

func (c *CLI) mapsSaveCommand() *cobra.Command {
	var title, source string
	cmd := &cobra.Command{
		Use:   "save [tree.json|tree.yaml]",
		Short: "Save every tree in a file as a map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := readTrees(args[0])
			if err != nil {
				return err
			}
			if source == "" {
				source = args[0]
			}
			return c.withStore(cmd.Context(), func(st store.Store, user string) error {
				for _, t := range trees {
					m := &store.Map{UserID: user, Title: title, Source: source, Tree: t}
					if err := st.CreateMap(cmd.Context(), m); err != nil {
						return err
					}
					printSuccess("Saved %s", StyleValue.Render(m.Title))
					printDetail("id %s", m.ID)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "map title (default: the tree's subject)")
	cmd.Flags().StringVar(&source, "source", "", "document the tree came from (default: the file name)")
	return cmd
}

func (c *CLI) mapsRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [id] [title]",
		Short: "Rename a saved map",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, user string) error {
				if _, err := ownedMap(cmd.Context(), st, user, args[0]); err != nil {
					return err
				}
				if err := st.RenameMap(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				printSuccess("Renamed %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) mapsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a saved map",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, user string) error {
				m, err := ownedMap(cmd.Context(), st, user, args[0])
				if err != nil {
					return err
				}
				if err := st.DeleteMap(cmd.Context(), m.ID); err != nil {
					return err
				}
				printSuccess("Deleted %s", StyleValue.Render(m.Title))
				return nil
			})
		},
	}
}

func (c *CLI) mapsRenderCommand() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render [id]",
		Short: "Render a saved map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store, user string) error {
				m, err := ownedMap(ctx, st, user, args[0])
				if err != nil {
					return err
				}

				runner, err := c.newRunner(ctx, flags.noCache)
				if err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()
				c.applyLayoutConfig(&opts)

				result, err := runner.ExecuteTree(ctx, m.Tree, opts)
				if err != nil {
					return err
				}
				paths, err := writeArtifacts(result.Artifacts, opts.Formats, basePath(flags.output, m.ID), flags.output)
				if err != nil {
					return err
				}
				printSuccess("Rendered %s", StyleValue.Render(m.Title))
				for _, p := range paths {
					printFile(p)
				}
				printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
