package service

import (
	"context"
	"sync"
	"time"

	"habitly/internal/model"
)

// fakeStore is an in-memory HabitStore that counts accesses so tests can
// assert cache-aside behavior.
type fakeStore struct {
	mu sync.Mutex

	habits []model.Habit

	insertCalls      int
	findAllCalls     int
	findBetweenCalls int

	insertErr      error
	findAllErr     error
	findBetweenErr error
	updateErr      error
}

func (s *fakeStore) InsertMany(ctx context.Context, habits []model.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if s.insertErr != nil {
		return s.insertErr
	}
	s.habits = append(s.habits, habits...)
	return nil
}

func (s *fakeStore) FindBetween(ctx context.Context, start, end time.Time) ([]model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findBetweenCalls++
	if s.findBetweenErr != nil {
		return nil, s.findBetweenErr
	}
	var out []model.Habit
	for _, h := range s.habits {
		if !h.Date.Before(start) && h.Date.Before(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeStore) FindAll(ctx context.Context) ([]model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findAllCalls++
	if s.findAllErr != nil {
		return nil, s.findAllErr
	}
	out := make([]model.Habit, len(s.habits))
	copy(out, s.habits)
	return out, nil
}

func (s *fakeStore) FindByID(ctx context.Context, id string) (*model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.habits {
		if h.ID == id {
			out := h
			return &out, nil
		}
	}
	return nil, ErrHabitNotFound
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id string, status bool) (*model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for i := range s.habits {
		if s.habits[i].ID == id {
			s.habits[i].Status = status
			out := s.habits[i]
			return &out, nil
		}
	}
	return nil, ErrHabitNotFound
}

// fakeCache is an in-memory SeriesCache.
type fakeCache struct {
	mu sync.Mutex

	values  map[string]string
	lastTTL time.Duration

	getCalls int
	setCalls int

	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *fakeCache) SetWithTTL(ctx context.Context, key, payload string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = payload
	c.lastTTL = ttl
	return nil
}
