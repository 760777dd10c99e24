package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinytelemetry/logcheck/internal/aggregate"
	"github.com/tinytelemetry/logcheck/internal/model"
	"github.com/tinytelemetry/logcheck/internal/report"
	"github.com/tinytelemetry/logcheck/internal/tui"
)

const (
	defaultChartWidth  = 80
	defaultChartHeight = 16
)

func (c *cli) filesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List matching log files in discovery order, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := discoverFiles(c.cfg)
			if err != nil {
				return err
			}
			return report.WriteFiles(cmd.OutOrStdout(), files, c.cfg.reportOptions())
		},
	}
}

func (c *cli) rankCommand() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank records by location, IP or day in ascending count order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			field, err := model.ParseField(by)
			if err != nil {
				return err
			}
			_, corpus, err := loadCorpus(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			ranking := aggregate.Rank(corpus.Records, field).Top(c.cfg.Top)
			return report.WriteRanking(cmd.OutOrStdout(), field, ranking, c.cfg.reportOptions())
		},
	}
	cmd.Flags().StringVar(&by, "by", string(model.FieldLocation), "field to rank by: location, ip or day")
	cmd.Flags().Int("top", 0, "only show the N highest entries (0 shows all)")
	return cmd
}

func (c *cli) dailyCommand() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Count records per day for every location or IP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			field, err := model.ParseField(by)
			if err != nil {
				return err
			}
			_, corpus, err := loadCorpus(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			daily, err := aggregate.Daily(corpus, field)
			if err != nil {
				return err
			}
			return report.WriteDaily(cmd.OutOrStdout(), daily, c.cfg.reportOptions())
		},
	}
	cmd.Flags().StringVar(&by, "by", string(model.FieldLocation), "field to break down: location or ip")
	return cmd
}

func (c *cli) summaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarize the records and list skipped malformed lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, corpus, err := loadCorpus(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			summary := aggregate.Summarize(corpus, len(files))
			return report.WriteSummary(cmd.OutOrStdout(), summary, corpus.Skipped, c.cfg.reportOptions())
		},
	}
}

func (c *cli) chartCommand() *cobra.Command {
	var (
		by      string
		width   int
		height  int
		maxKeys int
	)
	cmd := &cobra.Command{
		Use:       "chart rank|daily",
		Short:     "Draw a ranking or daily breakdown as a terminal bar chart",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"rank", "daily"},
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := model.ParseField(by)
			if err != nil {
				return err
			}
			_, corpus, err := loadCorpus(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}

			var chart string
			switch args[0] {
			case "rank":
				ranking := aggregate.Rank(corpus.Records, field).Top(c.cfg.Top)
				chart = tui.RankingChart(ranking, width, height)
			case "daily":
				daily, err := aggregate.Daily(corpus, field)
				if err != nil {
					return err
				}
				chart = tui.DailyChart(daily, width, height, maxKeys)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), chart)
			return err
		},
	}
	cmd.Flags().StringVar(&by, "by", string(model.FieldLocation), "field to chart: location or ip (rank also accepts day)")
	cmd.Flags().Int("top", 0, "only chart the N highest ranking entries (0 fits as many as possible)")
	cmd.Flags().IntVar(&width, "width", defaultChartWidth, "chart width in columns")
	cmd.Flags().IntVar(&height, "height", defaultChartHeight, "chart height in rows")
	cmd.Flags().IntVar(&maxKeys, "max-keys", model.DefaultDailyChartKeys, "keys coloured individually in a daily chart")
	return cmd
}

func (c *cli) viewCommand() *cobra.Command {
	var maxKeys int
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse rankings and daily charts interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, corpus, err := loadCorpus(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			viewer, err := tui.NewViewer(corpus, tui.ViewerOptions{
				Top:     c.cfg.Top,
				MaxKeys: maxKeys,
				Source:  c.cfg.LogfilesFolder,
				Files:   len(files),
			})
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), viewer, tui.NewSummaryPage(corpus, len(files)))
		},
	}
	cmd.Flags().Int("top", 0, "only chart the N highest ranking entries (0 fits as many as possible)")
	cmd.Flags().IntVar(&maxKeys, "max-keys", model.DefaultDailyChartKeys, "keys coloured individually in a daily chart")
	return cmd
}
