package main

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// setupLogging sends diagnostics to w. Debug output is enabled by verbose.
func setupLogging(w io.Writer, verbose bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
