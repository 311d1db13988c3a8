package memory

import (
	"context"
	"sync"
	"testing"

	"splitHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *Store {
	s := NewStore()
	s.PutExperiment(domain.Experiment{
		ID:     "e1",
		Key:    "hero",
		Status: domain.ExperimentRunning,
		Variants: []domain.Variant{
			{ID: "b", Position: 1, Active: true},
			{ID: "off", Position: 2, Active: false},
			{ID: "a", Position: 0, Active: true},
		},
	})
	return s
}

func TestStoreExperiments(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	exp, err := s.GetExperimentByKey(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, "e1", exp.ID)

	_, err = s.GetExperiment(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrExperimentNotFound)

	active, err := s.GetActiveVariants(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, "b", active[1].ID)

	off, err := s.GetVariant(ctx, "e1", "off")
	require.NoError(t, err)
	assert.False(t, off.Active)

	_, err = s.GetVariant(ctx, "e1", "zzz")
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}

func TestStoreCreateAssignmentIsInsertIfAbsent(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		stored  = map[string]bool{}
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			variant := "a"
			if i%2 == 1 {
				variant = "b"
			}
			got, ok, err := s.CreateAssignment(ctx, domain.VisitorAssignment{ExperimentID: "e1", VisitorID: "v", VariantID: variant})
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			if ok {
				created++
			}
			stored[got.VariantID] = true
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, stored, 1)
	assert.Equal(t, 1, s.AssignmentCount("e1"))
}

func TestStoreCounters(t *testing.T) {
	s := seeded()
	ctx := context.Background()

	require.NoError(t, s.IncrementVisitorCount(ctx, "e1", "a"))
	require.NoError(t, s.IncrementVisitorCount(ctx, "e1", "a"))
	require.NoError(t, s.IncrementConversionCount(ctx, "e1", "a", 9.5))

	stats, err := s.GetVariantStats(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.VariantStats{ExperimentID: "e1", VariantID: "a", Visitors: 2, Conversions: 1, Revenue: 9.5}, stats["a"])

	// returned map is a copy
	delete(stats, "a")
	again, _ := s.GetVariantStats(ctx, "e1")
	assert.Contains(t, again, "a")
}

func TestStoreConfig(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, ok, err := s.GetConfig(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, ok)

	eps := 0.2
	require.NoError(t, s.UpsertConfig(ctx, domain.BanditConfig{ExperimentID: "e1", Epsilon: &eps}))
	cfg, ok, err := s.GetConfig(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, cfg.Epsilon)
	assert.Equal(t, 0.2, *cfg.Epsilon)
	assert.Nil(t, cfg.MinBanditVisits)
}
