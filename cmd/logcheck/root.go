package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tinytelemetry/logcheck/internal/ingest"
	"github.com/tinytelemetry/logcheck/internal/model"
	"github.com/tinytelemetry/logcheck/internal/report"
)

// cli holds state shared by every subcommand once flags are parsed.
type cli struct {
	configPath string
	cfg        appConfig
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "logcheck",
		Short: "Rank and chart access log traffic by client location",
		Long: `logcheck reads rotated web server access logs, resolves each client IP
to a country with a MaxMind database, and reports request counts ranked by
location, IP or day, or broken down per day.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default is $HOME/.config/logcheck/config.yml)")
	pf.String("logfiles-folder", model.DefaultLogfilesFolder, "glob pattern matching the access log files")
	pf.String("geoip-database-location", model.DefaultGeoIPDatabase, "path to the MaxMind .mmdb database")
	pf.String("malformed-lines", string(ingest.MalformedSkip), "malformed line policy: skip or abort")
	pf.StringP("format", "o", string(report.FormatTable), "output format: table, json or yaml")
	pf.StringP("query", "q", "", "jq expression applied to the JSON form of the output")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.filesCommand(),
		c.rankCommand(),
		c.dailyCommand(),
		c.summaryCommand(),
		c.chartCommand(),
		c.viewCommand(),
		versionCommand(),
	)
	return root
}

// setup loads configuration and logging before any subcommand runs.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c.cfg = cfg
	setupLogging(cmd.ErrOrStderr(), cfg.Verbose)
	if cfg.ConfigPath != "" {
		log.Debugf("logcheck: config file %s", cfg.ConfigPath)
	}
	return nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version output never depends on configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "logcheck - access log location report\n")
			fmt.Fprintf(out, "  Version:    %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", buildTime)
			fmt.Fprintf(out, "  Go version: %s\n", goVersion)
		},
	}
}
