package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pelican/internal/model"
)

// memClickStore is an in-memory repository.ClickStore
type memClickStore struct {
	mu      sync.Mutex
	points  map[string][]model.ClickPoint
	saveErr error
}

func newMemClickStore() *memClickStore {
	return &memClickStore{points: make(map[string][]model.ClickPoint)}
}

func (s *memClickStore) SaveClickPoint(_ context.Context, p *model.ClickPoint) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[p.AccountID] = append(s.points[p.AccountID], *p)
	return nil
}

func (s *memClickStore) ListClickPoints(_ context.Context, accountID string) ([]model.ClickPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ClickPoint, len(s.points[accountID]))
	copy(out, s.points[accountID])
	return out, nil
}

func TestClickAggregator_AddClick(t *testing.T) {
	store := newMemClickStore()
	agg := NewClickAggregator(store)
	defer agg.Stop()

	now := time.Now()
	require.NoError(t, agg.AddClick("acct-1", 40.7, -74.0, "US", now))
	require.NoError(t, agg.AddClick("acct-1", 48.8, 2.3, "FR", now))

	points, err := agg.Points(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "US", points[0].Country)
	assert.Equal(t, "FR", points[1].Country)
}

func TestClickAggregator_ConcurrentClicksAreNotLost(t *testing.T) {
	store := newMemClickStore()
	agg := NewClickAggregator(store)
	defer agg.Stop()

	const producers = 8
	const perProducer = 25

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = agg.AddClick("acct-1", 40.7, -74.0, "US", time.Now())
			}
		}()
	}
	wg.Wait()

	points, err := agg.Points(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Len(t, points, producers*perProducer)

	// Durable state matches the in-memory state
	persisted, err := store.ListClickPoints(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Len(t, persisted, producers*perProducer)
}

func TestClickAggregator_LoadsDurableStateLazily(t *testing.T) {
	store := newMemClickStore()
	store.points["acct-1"] = []model.ClickPoint{
		{AccountID: "acct-1", Latitude: 1, Longitude: 2, Country: "DE", Timestamp: time.Now()},
	}

	agg := NewClickAggregator(store)
	defer agg.Stop()

	points, err := agg.Points(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "DE", points[0].Country)
}

func TestClickAggregator_StoreFailureStillAppends(t *testing.T) {
	store := newMemClickStore()
	store.saveErr = assert.AnError

	agg := NewClickAggregator(store)
	defer agg.Stop()

	require.NoError(t, agg.AddClick("acct-1", 40.7, -74.0, "US", time.Now()))

	points, err := agg.Points(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestClickAggregator_AccountsAreIsolated(t *testing.T) {
	store := newMemClickStore()
	agg := NewClickAggregator(store)
	defer agg.Stop()

	require.NoError(t, agg.AddClick("acct-1", 40.7, -74.0, "US", time.Now()))
	require.NoError(t, agg.AddClick("acct-2", 48.8, 2.3, "FR", time.Now()))

	p1, err := agg.Points(context.Background(), "acct-1")
	require.NoError(t, err)
	p2, err := agg.Points(context.Background(), "acct-2")
	require.NoError(t, err)

	assert.Len(t, p1, 1)
	assert.Len(t, p2, 1)
	assert.Equal(t, "US", p1[0].Country)
	assert.Equal(t, "FR", p2[0].Country)
}
