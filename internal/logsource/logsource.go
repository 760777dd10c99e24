// Package logsource reads the lines of discovered log files in reading order.
package logsource

import "github.com/tinytelemetry/logcheck/internal/model"

const (
	// DefaultConcurrency is the default number of files read in parallel.
	DefaultConcurrency = model.DefaultReadConcurrency

	// DefaultMaxLineSize is the default maximum size (in bytes) of a single line.
	DefaultMaxLineSize = model.DefaultMaxLineSize
)

// Config holds tunable parameters for file reading.
type Config struct {
	Concurrency int
	MaxLineSize int
}

// Line is one non-blank line of a log file.
type Line struct {
	Source string // file path
	Number int    // 1-based line number within Source
	Text   string
}

func resolveConfig(conf []Config) Config {
	c := Config{
		Concurrency: DefaultConcurrency,
		MaxLineSize: DefaultMaxLineSize,
	}
	if len(conf) > 0 {
		if conf[0].Concurrency > 0 {
			c.Concurrency = conf[0].Concurrency
		}
		if conf[0].MaxLineSize > 0 {
			c.MaxLineSize = conf[0].MaxLineSize
		}
	}
	return c
}
