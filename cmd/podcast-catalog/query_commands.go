package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"podcast-catalog/internal/config"
	"podcast-catalog/internal/models"
	"podcast-catalog/internal/query"
)

// ErrPodcastNotFound is returned by show for an unknown id.
var ErrPodcastNotFound = errors.New("podcast not found")

type searchResult struct {
	Query      string           `json:"query"`
	Categories []string         `json:"categories"`
	Podcasts   []models.Podcast `json:"podcasts"`
	Stats      query.Summary    `json:"stats"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var categories []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Filter podcasts by text and categories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ctx.loadSnapshot(newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			state := query.FilterState{Categories: query.NewCategorySet(categories...)}
			if len(args) == 1 {
				state.Query = args[0]
			}
			podcasts := state.Apply(snap.Podcasts())
			summary := query.Stats(podcasts)

			if asJSON {
				return writeJSON(cmd, searchResult{
					Query:      state.Query,
					Categories: state.Categories.Labels(),
					Podcasts:   podcasts,
					Stats:      summary,
				})
			}

			out := cmd.OutOrStdout()
			if len(podcasts) == 0 {
				fmt.Fprintln(out, "No podcasts match.")
				return nil
			}

			rows := make([][]string, 0, len(podcasts))
			for _, p := range podcasts {
				duration := query.Stats([]models.Podcast{p}).TotalDurationSeconds
				rows = append(rows, []string{
					p.ID,
					truncate(p.Title, 40),
					p.Author,
					strings.Join(p.Category, ", "),
					strconv.Itoa(len(p.Episodes)),
					formatSeconds(duration),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Author", "Categories", "Episodes", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%s podcasts, %s episodes, %d hours\n",
				humanize.Comma(int64(summary.Count)),
				humanize.Comma(int64(summary.EpisodeCount)),
				summary.Hours(),
			)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&categories, "category", nil, "Only podcasts with this category (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the result as JSON")
	return cmd
}

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest PARTIAL",
		Short: "Print search suggestions for a partial query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ctx.loadSnapshot(newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = config.SuggestionLimit()
			}
			for _, s := range query.Suggest(snap.Podcasts(), args[0], limit) {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", query.DefaultSuggestionLimit, "Maximum number of suggestions")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ctx.loadSnapshot(newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			summary := query.Stats(snap.Podcasts())

			rows := [][]string{
				{"Podcasts", humanize.Comma(int64(summary.Count))},
				{"Episodes", humanize.Comma(int64(summary.EpisodeCount))},
				{"Hours", humanize.Comma(int64(summary.Hours()))},
				{"Categories", humanize.Comma(int64(summary.CategoryCount))},
				{"Known categories", humanize.Comma(int64(snap.Vocabulary().Len()))},
				{"Loaded", humanize.Time(snap.LoadedAt())},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with podcast and episode counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ctx.loadSnapshot(newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			labels := snap.Vocabulary().Complete(prefix)
			stats := query.AllCategoryStats(snap.Podcasts(), labels)
			if len(stats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories.")
				return nil
			}

			rows := make([][]string, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, []string{s.Category, strconv.Itoa(s.PodcastCount), strconv.Itoa(s.EpisodeCount)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Category", "Podcasts", "Episodes"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only categories starting with this prefix")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a podcast and its episodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ctx.loadSnapshot(newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			p, ok := snap.Podcast(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", ErrPodcastNotFound, args[0])
			}

			out := cmd.OutOrStdout()
			summary := query.Stats([]models.Podcast{p})
			fmt.Fprintf(out, "%s (%s)\n", p.Title, p.ID)
			if p.Author != "" {
				fmt.Fprintf(out, "Author:     %s\n", p.Author)
			}
			fmt.Fprintf(out, "Categories: %s\n", strings.Join(p.Category, ", "))
			if !p.PublishedAt.IsZero() {
				fmt.Fprintf(out, "Published:  %s\n", p.PublishedAt.Format("2006-01-02"))
			}
			fmt.Fprintf(out, "Episodes:   %d (%s)\n", summary.EpisodeCount, formatSeconds(summary.TotalDurationSeconds))
			if p.Description != "" {
				fmt.Fprintf(out, "\n%s\n", p.Description)
			}
			if len(p.Episodes) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(p.Episodes))
			for i, ep := range p.Episodes {
				size := "-"
				if ep.FilesizeBytes > 0 {
					size = humanize.Bytes(uint64(ep.FilesizeBytes))
				}
				published := "-"
				if !ep.PublishedAt.IsZero() {
					published = ep.PublishedAt.Format("2006-01-02")
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					truncate(ep.Title, 48),
					formatSeconds(ep.DurationSeconds),
					size,
					published,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", "Duration", "Size", "Published"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
