package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/integrations/openai"
	"github.com/matzehuels/topicmap/pkg/store"
)

// topicsCommand creates the topics command for the saved topic list.
func (c *CLI) topicsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Manage saved topics",
		Long: `Manage saved topics.

Saved topics are the subjects you want to keep studying. They feed
'recommend' when no interests are given on the command line.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved topics in the order they were saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, user string) error {
				topics, err := st.Topics(cmd.Context(), user)
				if err != nil {
					return err
				}
				if len(topics) == 0 {
					printInfo("No saved topics for %s", user)
					return nil
				}
				for _, t := range topics {
					fmt.Fprintln(stdout, t)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add [topic...]",
		Short: "Save topics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, user string) error {
				for _, name := range args {
					if err := st.SaveTopic(cmd.Context(), user, name); err != nil {
						return err
					}
					printSuccess("Saved %s", StyleValue.Render(strings.TrimSpace(name)))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove [topic...]",
		Aliases: []string{"rm"},
		Short:   "Remove saved topics",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, user string) error {
				for _, name := range args {
					if err := st.RemoveTopic(cmd.Context(), user, name); err != nil {
						return err
					}
					printSuccess("Removed %s", StyleValue.Render(strings.TrimSpace(name)))
				}
				return nil
			})
		},
	})

	return cmd
}

// recommendCommand creates the recommend command.
func (c *CLI) recommendCommand() *cobra.Command {
	var (
		engagement []string
		refresh    bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "recommend [interest...]",
		Short: "Suggest related topics to study next",
		Long: `Suggest related topics to study next.

Interests default to your saved topics. Time spent on topics can be given with
--engagement name=seconds and is weighed by the model alongside interests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := parseEngagement(engagement)
			if err != nil {
				return err
			}
			return c.runRecommend(cmd.Context(), args, eng, refresh, noCache)
		},
	}

	cmd.Flags().StringArrayVar(&engagement, "engagement", nil, "time spent on a topic as name=seconds (repeatable)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached suggestions")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRecommend(ctx context.Context, interests []string, engagement []openai.Engagement, refresh, noCache bool) error {
	if len(interests) == 0 {
		err := c.withStore(ctx, func(st store.Store, user string) error {
			saved, err := st.Topics(ctx, user)
			interests = saved
			return err
		})
		if err != nil {
			return err
		}
	}

	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer backend.Close()
	client := c.newOpenAIClient(cache.Instrument(backend))

	spinner := newSpinnerWithContext(ctx, "Finding related topics...")
	spinner.Start()
	recs, err := client.Recommend(ctx, interests, engagement, refresh)
	if err != nil {
		spinner.StopWithError("Recommendation failed")
		return err
	}
	spinner.Stop()

	if len(recs) == 0 {
		printInfo("No recommendations yet")
		printDetail("Save topics with '%s topics add <topic>' or pass interests as arguments", appName)
		return nil
	}
	for _, r := range recs {
		fmt.Fprintln(stdout, StyleHighlight.Render(r.Keyword)+"  "+StyleDim.Render(r.DisplayText))
	}
	return nil
}

// parseEngagement parses name=seconds pairs.
func parseEngagement(pairs []string) ([]openai.Engagement, error) {
	out := make([]openai.Engagement, 0, len(pairs))
	for _, p := range pairs {
		name, secs, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "engagement %q: want name=seconds", p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(secs))
		if err != nil || n < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "engagement %q: seconds must be a non-negative integer", p)
		}
		out = append(out, openai.Engagement{Name: name, Seconds: n})
	}
	return out, nil
}
