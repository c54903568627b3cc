// Package extract turns a raw indicator dataset into per-entity time series.
package extract

import (
	"sort"

	"github.com/soltixdb/trendlens/internal/analytics"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/utils"
)

// SeriesSet maps entity name to its series and remembers the order in which
// entities were first seen.
type SeriesSet struct {
	order  []string
	series map[string]analytics.TimeSeriesData
}

// NewSeriesSet creates an empty set
func NewSeriesSet() *SeriesSet {
	return &SeriesSet{series: make(map[string]analytics.TimeSeriesData)}
}

// Append adds a point to an entity's series, registering the entity on first use
func (s *SeriesSet) Append(entity string, p analytics.TimeSeriesPoint) {
	if _, ok := s.series[entity]; !ok {
		s.order = append(s.order, entity)
	}
	s.series[entity] = append(s.series[entity], p)
}

// Get returns the series of an entity
func (s *SeriesSet) Get(entity string) (analytics.TimeSeriesData, bool) {
	ts, ok := s.series[entity]
	return ts, ok
}

// Entities returns entity names in first-seen order
func (s *SeriesSet) Entities() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of entities
func (s *SeriesSet) Len() int {
	return len(s.order)
}

// Each calls fn for every entity in first-seen order
func (s *SeriesSet) Each(fn func(entity string, ts analytics.TimeSeriesData)) {
	for _, name := range s.order {
		fn(name, s.series[name])
	}
}

// Stats describes how many records an extraction pass kept and dropped
type Stats struct {
	Total   int
	Used    int
	Dropped int
}

// Extract groups usable records by entity. Records missing an entity, a
// period or a value, or whose period or value cannot be parsed, are skipped.
// A non-empty entityFilter keeps only that entity. Each series is
// stable-sorted ascending by period.
func Extract(ds *models.IndicatorDataset, entityFilter string) *SeriesSet {
	set, _ := ExtractWithStats(ds, entityFilter)
	return set
}

// ExtractWithStats is Extract that also reports record counts.
// Records filtered out by entity are not counted as dropped.
func ExtractWithStats(ds *models.IndicatorDataset, entityFilter string) (*SeriesSet, Stats) {
	set := NewSeriesSet()
	var stats Stats

	for _, rec := range ds.Records() {
		stats.Total++

		entity := rec.EntityName()
		if entity == "" || rec.Date == nil || rec.Value == nil {
			stats.Dropped++
			continue
		}
		if entityFilter != "" && entity != entityFilter {
			continue
		}

		period, ok := utils.ParsePeriod(rec.Date)
		if !ok {
			stats.Dropped++
			continue
		}
		value, ok := utils.CoerceFloat64(rec.Value)
		if !ok {
			stats.Dropped++
			continue
		}

		set.Append(entity, analytics.TimeSeriesPoint{Period: period, Value: value})
		stats.Used++
	}

	for _, ts := range set.series {
		sort.SliceStable(ts, func(i, j int) bool {
			return ts[i].Period < ts[j].Period
		})
	}

	return set, stats
}
