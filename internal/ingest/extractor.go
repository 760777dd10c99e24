// Package ingest turns raw access-log lines into located records.
package ingest

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tinytelemetry/logcheck/internal/geo"
	"github.com/tinytelemetry/logcheck/internal/logparse"
	"github.com/tinytelemetry/logcheck/internal/logsource"
	"github.com/tinytelemetry/logcheck/internal/model"
)

// Extractor parses lines and resolves their location.
type Extractor struct {
	locator geo.Locator
	policy  MalformedPolicy
}

// NewExtractor creates an extractor. A nil locator resolves every IP to
// model.Unlocated.
func NewExtractor(locator geo.Locator, policy MalformedPolicy) *Extractor {
	if policy == "" {
		policy = MalformedSkip
	}
	return &Extractor{locator: locator, policy: policy}
}

// Policy returns the malformed-line policy in effect.
func (e *Extractor) Policy() MalformedPolicy { return e.policy }

// ProcessLine parses one line into a record. The error matches
// logparse.ErrMalformedLine when the line lacks an IP or a timestamp.
func (e *Extractor) ProcessLine(line logsource.Line) (model.LogRecord, error) {
	fields, err := logparse.ParseLine(line.Text)
	if err != nil {
		return model.LogRecord{}, err
	}
	return model.LogRecord{
		IP:        fields.IP,
		Timestamp: fields.Timestamp,
		Location:  e.locate(fields.IP),
		Source:    line.Source,
		Line:      line.Number,
	}, nil
}

func (e *Extractor) locate(ip string) string {
	if e.locator == nil {
		return model.Unlocated
	}
	if loc, ok := e.locator.Locate(ip); ok && loc != "" {
		return loc
	}
	return model.Unlocated
}

// Extract folds lines, in the given order, into a corpus. Lines must already
// be in reading order (oldest first); the record order and the first-seen
// order of locations and IPs follow it.
func (e *Extractor) Extract(lines []logsource.Line) (*model.Corpus, error) {
	b := newCorpusBuilder(len(lines))
	for _, line := range lines {
		record, err := e.ProcessLine(line)
		if err != nil {
			if e.policy == MalformedAbort {
				return nil, fmt.Errorf("ingest: %s:%d: %w", line.Source, line.Number, err)
			}
			log.WithFields(log.Fields{
				"file": line.Source,
				"line": line.Number,
			}).Warnf("ingest: skipping line: %v", err)
			b.skip(line, err)
			continue
		}
		b.add(record)
	}

	corpus := b.corpus()
	if n := len(corpus.Skipped); n > 0 {
		log.Warnf("ingest: skipped %d malformed lines out of %d", n, len(lines))
	}
	log.Debugf("ingest: extracted %d records, %d locations, %d distinct IPs",
		len(corpus.Records), len(corpus.Locations), len(corpus.IPs))
	return corpus, nil
}

// ExtractFiles reads files oldest first and extracts every line.
func (e *Extractor) ExtractFiles(ctx context.Context, files model.FileSet, conf ...logsource.Config) (*model.Corpus, error) {
	lines, err := logsource.ReadAll(ctx, files.Oldest(), conf...)
	if err != nil {
		return nil, err
	}
	return e.Extract(lines)
}

type corpusBuilder struct {
	records       []model.LogRecord
	locations     []string
	ips           []string
	skipped       []model.MalformedLine
	seenLocations map[string]struct{}
	seenIPs       map[string]struct{}
}

func newCorpusBuilder(capacity int) *corpusBuilder {
	return &corpusBuilder{
		records:       make([]model.LogRecord, 0, capacity),
		seenLocations: make(map[string]struct{}),
		seenIPs:       make(map[string]struct{}),
	}
}

func (b *corpusBuilder) add(r model.LogRecord) {
	b.records = append(b.records, r)
	if _, ok := b.seenLocations[r.Location]; !ok {
		b.seenLocations[r.Location] = struct{}{}
		b.locations = append(b.locations, r.Location)
	}
	if _, ok := b.seenIPs[r.IP]; !ok {
		b.seenIPs[r.IP] = struct{}{}
		b.ips = append(b.ips, r.IP)
	}
}

func (b *corpusBuilder) skip(line logsource.Line, err error) {
	b.skipped = append(b.skipped, model.MalformedLine{
		Source: line.Source,
		Line:   line.Number,
		Text:   line.Text,
		Reason: err.Error(),
	})
}

func (b *corpusBuilder) corpus() *model.Corpus {
	return &model.Corpus{
		Records:   b.records,
		Locations: b.locations,
		IPs:       b.ips,
		Skipped:   b.skipped,
	}
}
