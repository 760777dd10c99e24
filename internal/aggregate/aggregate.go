// Package aggregate computes frequency rankings and per-day breakdowns over
// extracted records. Every function is pure: the same input always yields the
// same output, including order.
package aggregate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tinytelemetry/logcheck/internal/model"
)

// ErrUnsupportedField is returned when a breakdown is requested for a field
// that has no key universe.
var ErrUnsupportedField = errors.New("aggregate: unsupported field")

// Rank counts records per distinct value of field and returns the entries in
// ascending count order. Ties keep the order in which keys were first seen.
func Rank(records []model.LogRecord, field model.Field) model.Ranking {
	index := make(map[string]int)
	ranking := make(model.Ranking, 0)
	for _, r := range records {
		key := r.Value(field)
		i, ok := index[key]
		if !ok {
			i = len(ranking)
			index[key] = i
			ranking = append(ranking, model.RankingEntry{Key: key})
		}
		ranking[i].Count++
	}
	slices.SortStableFunc(ranking, func(a, b model.RankingEntry) int {
		return a.Count - b.Count
	})
	return ranking
}

// Daily counts records per day and per key of field. Days appear in the order
// they are first seen; each day row holds an entry, possibly zero, for every
// key of the corpus universe of field.
func Daily(corpus *model.Corpus, field model.Field) (*model.DailyBreakdown, error) {
	if field != model.FieldLocation && field != model.FieldIP {
		return nil, fmt.Errorf("%w: daily breakdown by %q", ErrUnsupportedField, field)
	}

	var records []model.LogRecord
	keys := []string{}
	if corpus != nil {
		records = corpus.Records
		keys = append(keys, corpus.Universe(field)...)
	}

	template := make(map[string]int, len(keys))
	for _, k := range keys {
		template[k] = 0
	}

	out := &model.DailyBreakdown{
		Field:  field,
		Days:   []string{},
		Keys:   keys,
		Counts: make(map[string]map[string]int),
	}
	for _, r := range records {
		day := r.Day()
		row, ok := out.Counts[day]
		if !ok {
			row = cloneRow(template)
			out.Counts[day] = row
			out.Days = append(out.Days, day)
		}
		key := r.Value(field)
		if _, known := template[key]; !known {
			// Hand-built corpora may lack a key; append it zero-filled.
			template[key] = 0
			out.Keys = append(out.Keys, key)
			for _, other := range out.Counts {
				if _, ok := other[key]; !ok {
					other[key] = 0
				}
			}
		}
		row[key]++
	}
	return out, nil
}

func cloneRow(template map[string]int) map[string]int {
	row := make(map[string]int, len(template))
	for k, v := range template {
		row[k] = v
	}
	return row
}

// Summarize describes a corpus read from files.
func Summarize(corpus *model.Corpus, files int) model.Summary {
	s := model.Summary{Files: files}
	if corpus == nil {
		return s
	}
	s.Records = len(corpus.Records)
	s.Skipped = len(corpus.Skipped)
	s.DistinctIPs = len(corpus.IPs)
	s.Locations = len(corpus.Locations)

	days := corpus.Universe(model.FieldDay)
	s.Days = len(days)
	if len(days) > 0 {
		s.FirstDay = days[0]
		s.LastDay = days[len(days)-1]
	}
	for _, r := range corpus.Records {
		if r.Location == model.Unlocated {
			s.Unlocated++
		}
	}
	if top := Rank(corpus.Records, model.FieldLocation).Top(1); len(top) == 1 {
		s.TopLocation = top[0].Key
	}
	if top := Rank(corpus.Records, model.FieldIP).Top(1); len(top) == 1 {
		s.TopIP = top[0].Key
	}
	return s
}
