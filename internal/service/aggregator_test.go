package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitly/internal/cache"
	"habitly/internal/model"
)

func habitOn(day string, status bool) model.Habit {
	d, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		panic(err)
	}
	return model.Habit{
		ID:     day + "-x",
		Name:   "Habit",
		Date:   d.Add(12 * time.Hour),
		Status: status,
	}
}

func TestAggregator_ComputesPercentagePerDay(t *testing.T) {
	store := &fakeStore{habits: []model.Habit{
		habitOn("2026-08-30", true),
		habitOn("2026-08-30", true),
		habitOn("2026-08-30", false),
		habitOn("2026-08-30", false),
		habitOn("2026-08-31", true),
	}}
	a := NewAggregator(store, newFakeCache(), zap.NewNop())

	series, err := a.GetCompletionSeries(context.Background())
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, "2026-08-31", series[0].Date, "newest day first")
	assert.InDelta(t, 100.0, series[0].Percentage, 0.001)
	assert.Equal(t, "2026-08-30", series[1].Date)
	assert.InDelta(t, 50.0, series[1].Percentage, 0.001)
}

func TestAggregator_EmptyStoreYieldsEmptySeries(t *testing.T) {
	a := NewAggregator(&fakeStore{}, newFakeCache(), zap.NewNop())

	series, err := a.GetCompletionSeries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestAggregator_CacheHitSkipsStore(t *testing.T) {
	store := &fakeStore{habits: []model.Habit{habitOn("2026-08-31", false)}}
	c := newFakeCache()
	a := NewAggregator(store, c, zap.NewNop())

	// First read misses, computes, repopulates.
	first, err := a.GetCompletionSeries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.findAllCalls)
	assert.Equal(t, 1, c.setCalls)
	assert.Equal(t, cache.CompletionTTL, c.lastTTL)

	// Second read within the TTL is served from cache, identical output,
	// no store access.
	second, err := a.GetCompletionSeries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.findAllCalls, "cache hit must not touch the store")
}

func TestAggregator_StaleCacheServedAsIs(t *testing.T) {
	// Mutations do not invalidate the cache: a present entry wins even when
	// the store has newer truth.
	store := &fakeStore{habits: []model.Habit{habitOn("2026-08-31", true)}}
	c := newFakeCache()
	stale := []model.CompletionEntry{{Date: "2026-08-31", Percentage: 0}}
	encoded, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, c.SetWithTTL(context.Background(), cache.CompletionKey, string(encoded), cache.CompletionTTL))

	a := NewAggregator(store, c, zap.NewNop())
	series, err := a.GetCompletionSeries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, stale, series)
	assert.Zero(t, store.findAllCalls)
}

func TestAggregator_CacheErrorFallsBackToStore(t *testing.T) {
	store := &fakeStore{habits: []model.Habit{habitOn("2026-08-31", true)}}
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	a := NewAggregator(store, c, zap.NewNop())

	series, err := a.GetCompletionSeries(context.Background())
	require.NoError(t, err, "cache unavailability is a forced miss, not a failure")
	require.Len(t, series, 1)
	assert.InDelta(t, 100.0, series[0].Percentage, 0.001)
	assert.Equal(t, 1, store.findAllCalls)
}

func TestAggregator_StoreErrorSurfaces(t *testing.T) {
	boom := errors.New("store down")
	store := &fakeStore{findAllErr: boom}
	a := NewAggregator(store, newFakeCache(), zap.NewNop())

	_, err := a.GetCompletionSeries(context.Background())
	assert.ErrorIs(t, err, boom)
}
