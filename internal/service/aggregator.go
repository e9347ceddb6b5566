package service

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"habitly/internal/cache"
	"habitly/internal/model"
	"habitly/pkg/metrics"
)

// Aggregator serves the per-day completion percentage series, cache-aside:
// reads check Redis first and only recompute from the store on a miss.
// Mutations never invalidate the cache; freshness is bounded by the TTL
// alone. Concurrent misses may recompute redundantly, which is harmless.
type Aggregator struct {
	store  HabitStore
	cache  SeriesCache
	logger *zap.Logger
}

func NewAggregator(store HabitStore, seriesCache SeriesCache, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		cache:  seriesCache,
		logger: logger,
	}
}

// GetCompletionSeries returns one entry per calendar day present in the
// store, newest first.
func (a *Aggregator) GetCompletionSeries(ctx context.Context) ([]model.CompletionEntry, error) {
	payload, ok, err := a.cache.Get(ctx, cache.CompletionKey)
	if err != nil {
		// A broken cache is a forced miss, not a failed request.
		a.logger.Warn("Completion cache unavailable, recomputing from store", zap.Error(err))
		metrics.RecordCacheLookup("error")
	} else if ok {
		var series []model.CompletionEntry
		if err := json.Unmarshal([]byte(payload), &series); err != nil {
			a.logger.Warn("Corrupt completion cache payload, recomputing", zap.Error(err))
		} else {
			metrics.RecordCacheLookup("hit")
			return series, nil
		}
	} else {
		metrics.RecordCacheLookup("miss")
	}

	series, err := a.compute(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(series)
	if err != nil {
		return nil, err
	}
	if err := a.cache.SetWithTTL(ctx, cache.CompletionKey, string(encoded), cache.CompletionTTL); err != nil {
		a.logger.Warn("Failed to repopulate completion cache", zap.Error(err))
	}

	return series, nil
}

func (a *Aggregator) compute(ctx context.Context) ([]model.CompletionEntry, error) {
	habits, err := a.store.FindAll(ctx)
	if err != nil {
		a.logger.Error("Failed to load habit history for aggregation", zap.Error(err))
		return nil, err
	}

	type dayCount struct {
		total     int
		completed int
	}
	byDay := make(map[string]*dayCount)
	for _, h := range habits {
		day := h.Date.Format("2006-01-02")
		c, exists := byDay[day]
		if !exists {
			c = &dayCount{}
			byDay[day] = c
		}
		c.total++
		if h.Status {
			c.completed++
		}
	}

	series := make([]model.CompletionEntry, 0, len(byDay))
	for day, c := range byDay {
		percentage := 0.0
		if c.total > 0 {
			percentage = float64(c.completed) / float64(c.total) * 100
		}
		series = append(series, model.CompletionEntry{
			Date:       day,
			Percentage: percentage,
		})
	}

	// Newest first.
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date > series[j].Date
	})

	return series, nil
}
