package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/logcheck/internal/discovery"
	"github.com/tinytelemetry/logcheck/internal/ingest"
	"github.com/tinytelemetry/logcheck/internal/model"
	"github.com/tinytelemetry/logcheck/internal/report"
)

// configAliases maps accepted snake_case spellings onto canonical keys.
var configAliases = map[string]string{
	"logfiles_folder":         "logfiles-folder",
	"geoip_database_location": "geoip-database-location",
}

// networkLabel names the addresses of one CIDR block. Labels are a list
// rather than a map because viper splits keys on dots.
type networkLabel struct {
	CIDR  string `mapstructure:"cidr"`
	Label string `mapstructure:"label"`
}

// appConfig is the resolved runtime configuration.
type appConfig struct {
	LogfilesFolder     string         `mapstructure:"logfiles-folder"`
	GeoIPDatabase      string         `mapstructure:"geoip-database-location"`
	MalformedLines     string         `mapstructure:"malformed-lines"`
	DuplicateRotations string         `mapstructure:"duplicate-rotations"`
	ReadConcurrency    int            `mapstructure:"read-concurrency"`
	MaxLineSize        int            `mapstructure:"max-line-size"`
	LookupCacheSize    int            `mapstructure:"lookup-cache-size"`
	NetworkLabels      []networkLabel `mapstructure:"network-labels"`
	Format             string         `mapstructure:"format"`
	Query              string         `mapstructure:"query"`
	Top                int            `mapstructure:"top"`
	Verbose            bool           `mapstructure:"verbose"`
	ConfigPath         string         `mapstructure:"-"` // not from config file

	malformed  ingest.MalformedPolicy
	duplicates discovery.DuplicatePolicy
	format     report.Format
}

// loadConfig resolves configuration from defaults, the config file, LOGCHECK_*
// environment variables and any flags in flags that were set on the command
// line, in increasing order of precedence.
func loadConfig(configPath string, flags *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("LOGCHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("logfiles-folder", model.DefaultLogfilesFolder)
	v.SetDefault("geoip-database-location", model.DefaultGeoIPDatabase)
	v.SetDefault("malformed-lines", string(ingest.MalformedSkip))
	v.SetDefault("duplicate-rotations", string(discovery.DuplicateWarn))
	v.SetDefault("read-concurrency", model.DefaultReadConcurrency)
	v.SetDefault("max-line-size", model.DefaultMaxLineSize)
	v.SetDefault("lookup-cache-size", model.DefaultLookupCacheSize)
	v.SetDefault("format", string(report.FormatTable))
	v.SetDefault("query", "")
	v.SetDefault("top", 0)
	v.SetDefault("verbose", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "logcheck", "config.yml"))
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config %s: %w", v.ConfigFileUsed(), err)
			}
			if configPath != "" {
				return cfg, fmt.Errorf("reading config %s: %w", configPath, err)
			}
		}
	}
	// Registered after reading so values under an alias move to the real key.
	for alias, key := range configAliases {
		v.RegisterAlias(alias, key)
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(f.Name, f)
		})
		if bindErr != nil {
			return cfg, fmt.Errorf("binding flags: %w", bindErr)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *appConfig) validate() error {
	var err error
	if strings.TrimSpace(c.LogfilesFolder) == "" {
		return errors.New("invalid logfiles-folder: empty pattern")
	}
	if c.malformed, err = ingest.ParseMalformedPolicy(c.MalformedLines); err != nil {
		return fmt.Errorf("invalid malformed-lines: %w", err)
	}
	if c.duplicates, err = discovery.ParseDuplicatePolicy(c.DuplicateRotations); err != nil {
		return fmt.Errorf("invalid duplicate-rotations: %w", err)
	}
	if c.format, err = report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	if c.ReadConcurrency < 1 {
		return fmt.Errorf("invalid read-concurrency: %d", c.ReadConcurrency)
	}
	if c.MaxLineSize < 1 {
		return fmt.Errorf("invalid max-line-size: %d", c.MaxLineSize)
	}
	if c.LookupCacheSize < 0 {
		return fmt.Errorf("invalid lookup-cache-size: %d", c.LookupCacheSize)
	}
	seen := make(map[string]bool, len(c.NetworkLabels))
	for _, l := range c.NetworkLabels {
		if seen[l.CIDR] {
			return fmt.Errorf("invalid network-labels: duplicate cidr %q", l.CIDR)
		}
		seen[l.CIDR] = true
	}
	if c.Top < 0 {
		return fmt.Errorf("invalid top: %d", c.Top)
	}
	if strings.HasPrefix(c.GeoIPDatabase, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			c.GeoIPDatabase = filepath.Join(home, c.GeoIPDatabase[2:])
		}
	}
	return nil
}

// labels returns the configured network labels keyed by CIDR.
func (c appConfig) labels() map[string]string {
	out := make(map[string]string, len(c.NetworkLabels))
	for _, l := range c.NetworkLabels {
		out[l.CIDR] = l.Label
	}
	return out
}

func (c appConfig) reportOptions() report.Options {
	return report.Options{Format: c.format, Query: c.Query}
}
