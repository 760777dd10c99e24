package main

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/tinytelemetry/logcheck/internal/discovery"
	"github.com/tinytelemetry/logcheck/internal/geo"
	"github.com/tinytelemetry/logcheck/internal/ingest"
	"github.com/tinytelemetry/logcheck/internal/logsource"
	"github.com/tinytelemetry/logcheck/internal/model"
)

// openDatabase opens the geolocation database. Tests replace it.
var openDatabase = func(path string) (geo.Locator, io.Closer, error) {
	db, err := geo.OpenDatabase(path)
	if err != nil {
		return nil, nil, err
	}
	return db, db, nil
}

// buildLocator layers configured network labels over the database and wraps
// the result in the lookup cache.
func buildLocator(cfg appConfig) (geo.Locator, io.Closer, error) {
	db, closer, err := openDatabase(cfg.GeoIPDatabase)
	if err != nil {
		return nil, nil, err
	}

	locator := db
	if len(cfg.NetworkLabels) > 0 {
		labels, err := geo.NewNetworkLabels(cfg.labels())
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
		log.Debugf("geo: %d network labels", labels.Len())
		locator = geo.Chain(labels, db)
	}

	cached, err := geo.NewCached(locator, cfg.LookupCacheSize)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return cached, closer, nil
}

func discoverFiles(cfg appConfig) (model.FileSet, error) {
	return discovery.Discover(cfg.LogfilesFolder, discovery.Options{Duplicates: cfg.duplicates})
}

// loadCorpus runs the batch pipeline: open the database, discover and read
// the log files oldest first, then extract located records.
func loadCorpus(ctx context.Context, cfg appConfig) (model.FileSet, *model.Corpus, error) {
	locator, closer, err := buildLocator(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()

	files, err := discoverFiles(cfg)
	if err != nil {
		return nil, nil, err
	}

	extractor := ingest.NewExtractor(locator, cfg.malformed)
	corpus, err := extractor.ExtractFiles(ctx, files, logsource.Config{
		Concurrency: cfg.ReadConcurrency,
		MaxLineSize: cfg.MaxLineSize,
	})
	if err != nil {
		return nil, nil, err
	}

	if c, ok := locator.(*geo.Cached); ok {
		hits, misses := c.Stats()
		log.WithFields(log.Fields{"hits": hits, "misses": misses}).Debug("geo: lookup cache")
	}
	log.WithFields(log.Fields{
		"files":   len(files),
		"records": len(corpus.Records),
		"skipped": len(corpus.Skipped),
	}).Debug("logcheck: corpus loaded")
	return files, corpus, nil
}
