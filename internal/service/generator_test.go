package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitly/config"
)

func testTemplate() []config.TemplateEntry {
	return []config.TemplateEntry{
		{Name: "Wake up", Deadline: "08:00", Description: "Wake up early"},
		{Name: "Read something", Deadline: "09:30", Description: "Read something"},
		{Name: "Sleep", Deadline: "23:59", Description: "Sleep early"},
	}
}

func TestGenerator_CreatesTemplateSizedSet(t *testing.T) {
	store := &fakeStore{}
	g := NewGenerator(store, testTemplate(), nil, zap.NewNop())

	require.NoError(t, g.EnsureTodayHabits(context.Background()))

	assert.Equal(t, 1, store.insertCalls)
	require.Len(t, store.habits, 3)
	for i, h := range store.habits {
		assert.NotEmpty(t, h.ID)
		assert.False(t, h.Status, "habit %d should start incomplete", i)
		assert.Equal(t, testTemplate()[i].Name, h.Name)
		assert.Equal(t, testTemplate()[i].Deadline, h.Deadline)
	}
}

func TestGenerator_Idempotent(t *testing.T) {
	store := &fakeStore{}
	g := NewGenerator(store, testTemplate(), nil, zap.NewNop())

	for i := 0; i < 5; i++ {
		require.NoError(t, g.EnsureTodayHabits(context.Background()))
	}

	assert.Equal(t, 1, store.insertCalls, "only the first call may insert")
	assert.Len(t, store.habits, 3)
}

func TestGenerator_DoesNotTouchOtherDays(t *testing.T) {
	store := &fakeStore{}
	g := NewGenerator(store, testTemplate(), nil, zap.NewNop())

	// Records from yesterday must not satisfy today's idempotency check.
	yesterday := time.Now().Add(-24 * time.Hour)
	g.now = func() time.Time { return yesterday }
	require.NoError(t, g.EnsureTodayHabits(context.Background()))
	require.Len(t, store.habits, 3)

	g.now = time.Now
	require.NoError(t, g.EnsureTodayHabits(context.Background()))

	assert.Equal(t, 2, store.insertCalls)
	assert.Len(t, store.habits, 6)
}

func TestGenerator_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("store down")

	store := &fakeStore{findBetweenErr: boom}
	g := NewGenerator(store, testTemplate(), nil, zap.NewNop())
	assert.ErrorIs(t, g.EnsureTodayHabits(context.Background()), boom)

	store = &fakeStore{insertErr: boom}
	g = NewGenerator(store, testTemplate(), nil, zap.NewNop())
	assert.ErrorIs(t, g.EnsureTodayHabits(context.Background()), boom)
	assert.Empty(t, store.habits, "no partial writes on failure")
}
