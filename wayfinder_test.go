package wayfinder_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func originID(id int64) *int64 { return &id }

// countingPort counts Get calls so tests can tell computed decisions from cached ones.
type countingPort struct {
	ports.NodePort
	gets atomic.Int64
}

func (p *countingPort) Get(ctx context.Context, id int64) (*domain.NodeSnapshot, error) {
	p.gets.Add(1)
	return p.NodePort.Get(ctx, id)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*domain.TransitionDecision, error) {
	return nil, errors.New("cache offline")
}

func (brokenCache) Set(context.Context, string, *domain.TransitionDecision, time.Duration) error {
	return errors.New("cache offline")
}

func (brokenCache) Delete(context.Context, string) error { return nil }

func TestNew_RequiresPort(t *testing.T) {
	_, err := wayfinder.New(nil)
	assert.Error(t, err)
}

func TestEngine_Decide(t *testing.T) {
	eng, err := wayfinder.New(memory.NewNodeStore(testutils.SampleNodes()...), wayfinder.WithSeed(1))
	require.NoError(t, err)

	tc := eng.NewContext(domain.ContextParams{
		SessionID:        "s-1",
		UserID:           "reader",
		OriginNodeID:     originID(1),
		RouteWindow:      []int64{2},
		RequestedUISlots: 3,
	})
	d, err := eng.Decide(context.Background(), tc)
	require.NoError(t, err)

	assert.False(t, d.EmptyPool)
	assert.LessOrEqual(t, len(d.Candidates), 3)
	for _, c := range d.Candidates {
		assert.NotEqual(t, int64(6), c.NodeID, "private drafts of other authors stay hidden")
	}
	assert.False(t, d.ServedFromCache)
}

func TestEngine_NewContextBoundsRouteWindow(t *testing.T) {
	eng, err := wayfinder.New(memory.NewNodeStore(), wayfinder.WithMaxRouteWindow(2))
	require.NoError(t, err)

	tc := eng.NewContext(domain.ContextParams{SessionID: "s", RouteWindow: []int64{5, 4, 3, 2}})
	assert.Equal(t, []int64{5, 4}, tc.RouteWindow)
	assert.NotEmpty(t, tc.CacheSeed)
}

func TestEngine_Cache(t *testing.T) {
	port := &countingPort{NodePort: memory.NewNodeStore(testutils.SampleNodes()...)}
	var lookups []string
	eng, err := wayfinder.New(port,
		wayfinder.WithCache(memory.NewDecisionCache(), time.Minute),
		wayfinder.WithLocker(memory.NewLocker(), time.Second),
		wayfinder.WithCacheObserver(func(r string) { lookups = append(lookups, r) }),
	)
	require.NoError(t, err)

	tc := eng.NewContext(domain.ContextParams{SessionID: "s-1", OriginNodeID: originID(1)})
	ctx := context.Background()

	first, err := eng.Decide(ctx, tc)
	require.NoError(t, err)
	assert.False(t, first.ServedFromCache)
	computed := port.gets.Load()

	second, err := eng.Decide(ctx, tc)
	require.NoError(t, err)
	assert.True(t, second.ServedFromCache)
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, first.SelectedNodeID, second.SelectedNodeID)
	assert.Equal(t, computed, port.gets.Load(), "a cached answer must not touch the port")

	// miss, recheck under lock, hit
	assert.Equal(t, []string{wayfinder.CacheMiss, wayfinder.CacheMiss, wayfinder.CacheHit}, lookups)

	require.NoError(t, eng.Invalidate(ctx, tc.CacheSeed))
	third, err := eng.Decide(ctx, tc)
	require.NoError(t, err)
	assert.False(t, third.ServedFromCache)
}

func TestEngine_ReloadDropsCachedDecisions(t *testing.T) {
	store := memory.NewNodeStore(testutils.SampleNodes()...)
	cache := memory.NewDecisionCache()
	eng, err := wayfinder.New(store, wayfinder.WithCache(cache, 0), wayfinder.WithSeed(1))
	require.NoError(t, err)

	ctx := context.Background()
	tc := eng.NewContext(domain.ContextParams{SessionID: "s-1", UserID: "reader", OriginNodeID: originID(1), RequestedUISlots: 5})

	first, err := eng.Decide(ctx, tc)
	require.NoError(t, err)
	require.False(t, first.ServedFromCache)
	cached, err := eng.Decide(ctx, tc)
	require.NoError(t, err)
	require.True(t, cached.ServedFromCache)

	// Node 2 turns private and node 3 is deleted.
	var next []domain.NodeSnapshot
	for _, n := range testutils.SampleNodes() {
		switch n.ID {
		case 2:
			n.IsPublic = false
		case 3:
			continue
		}
		next = append(next, n)
	}
	store.Replace(next)

	after, err := eng.Decide(ctx, tc)
	require.NoError(t, err)
	assert.False(t, after.ServedFromCache)
	assert.Equal(t, 1, cache.Len(), "entries of the previous generation are flushed")
	for _, c := range after.Candidates {
		assert.NotContains(t, []int64{2, 3}, c.NodeID)
	}

	again, err := eng.Decide(ctx, tc)
	require.NoError(t, err)
	assert.True(t, again.ServedFromCache, "the new generation is cached again")
}

func TestEngine_EmergencyBypassesCache(t *testing.T) {
	cache := memory.NewDecisionCache()
	eng, err := wayfinder.New(memory.NewNodeStore(testutils.SampleNodes()...), wayfinder.WithCache(cache, 0))
	require.NoError(t, err)
	ctx := context.Background()

	params := domain.ContextParams{SessionID: "s-1", OriginNodeID: originID(1)}
	_, err = eng.Decide(ctx, eng.NewContext(params))
	require.NoError(t, err)

	params.Emergency = true
	tc := eng.NewContext(params)
	d, err := eng.Decide(ctx, tc)
	require.NoError(t, err)
	assert.True(t, d.EmergencyUsed)
	assert.False(t, d.ServedFromCache)

	cached, err := cache.Get(ctx, tc.CacheSeed)
	require.NoError(t, err)
	assert.False(t, cached.EmergencyUsed, "emergency decisions are not written back")
}

func TestEngine_BrokenCacheIsIgnored(t *testing.T) {
	eng, err := wayfinder.New(memory.NewNodeStore(testutils.SampleNodes()...), wayfinder.WithCache(brokenCache{}, time.Minute))
	require.NoError(t, err)

	d, err := eng.Decide(context.Background(), eng.NewContext(domain.ContextParams{SessionID: "s", OriginNodeID: originID(1)}))
	require.NoError(t, err)
	assert.False(t, d.EmptyPool)
}

func TestEngine_InvalidContext(t *testing.T) {
	eng, err := wayfinder.New(memory.NewNodeStore())
	require.NoError(t, err)

	_, err = eng.Decide(context.Background(), eng.NewContext(domain.ContextParams{}))
	assert.ErrorIs(t, err, domain.ErrInvalidContext)
}

func TestEngine_ConcurrentCacheFillComputesOnce(t *testing.T) {
	var decisions atomic.Int64
	hooks := domain.LifecycleHooks{
		OnDecision: func(context.Context, *domain.DecisionEvent) { decisions.Add(1) },
	}
	eng, err := wayfinder.New(memory.NewNodeStore(testutils.SampleNodes()...),
		wayfinder.WithCache(memory.NewDecisionCache(), time.Minute),
		wayfinder.WithLocker(memory.NewLocker(), time.Second),
		wayfinder.WithLifecycleHooks(hooks),
	)
	require.NoError(t, err)

	tc := eng.NewContext(domain.ContextParams{SessionID: "s-1", OriginNodeID: originID(2)})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Decide(context.Background(), tc)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), decisions.Load())
}

func TestEngine_Watch_Unsupported(t *testing.T) {
	eng, err := wayfinder.New(memory.NewNodeStore())
	require.NoError(t, err)
	_, err = eng.Watch(context.Background())
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, wayfinder.Version)
}
