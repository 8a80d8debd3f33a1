package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeStore_Contract(t *testing.T) {
	store := memory.NewNodeStore(ports.ContractNodes()...)
	ports.RunNodePortContract(t, store)
}

func TestDecisionCache_Contract(t *testing.T) {
	ports.RunDecisionCacheContract(t, memory.NewDecisionCache())
}

func TestNodeStore_CopiesOnReadAndWrite(t *testing.T) {
	src := domain.NodeSnapshot{ID: 1, AuthorID: "a", Tags: []string{"x"}, Embedding: []float64{1, 0}}
	store := memory.NewNodeStore(src)

	src.Tags[0] = "mutated"
	got, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Tags[0])

	got.Embedding[0] = 42
	again, _ := store.Get(context.Background(), 1)
	assert.Equal(t, 1.0, again.Embedding[0])
}

func TestNodeStore_SearchSkipsOtherDimensions(t *testing.T) {
	store := memory.NewNodeStore(
		domain.NodeSnapshot{ID: 1, Embedding: []float64{1, 0}},
		domain.NodeSnapshot{ID: 2, Embedding: []float64{1, 0, 0}},
		domain.NodeSnapshot{ID: 3},
	)
	res, err := store.SearchByEmbedding(context.Background(), []float64{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int64(1), res[0].ID)
}

func TestNodeStore_Replace(t *testing.T) {
	store := memory.NewNodeStore(domain.NodeSnapshot{ID: 1}, domain.NodeSnapshot{ID: 2})
	store.Replace([]domain.NodeSnapshot{{ID: 3}})

	assert.Equal(t, 1, store.Len())
	_, err := store.Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestNodeStore_Snapshots(t *testing.T) {
	store := memory.NewNodeStore(domain.NodeSnapshot{ID: 9}, domain.NodeSnapshot{ID: 2, Tags: []string{"x"}})

	all := store.Snapshots()
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ID)
	assert.Equal(t, int64(9), all[1].ID)

	all[0].Tags[0] = "mutated"
	assert.Equal(t, "x", store.Snapshots()[0].Tags[0])
}

func TestDecisionCache_TTL(t *testing.T) {
	cache := memory.NewDecisionCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", &domain.TransitionDecision{Mode: "normal"}, 20*time.Millisecond))
	_, err := cache.Get(ctx, "k")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := cache.Get(ctx, "k")
		return err == domain.ErrCacheMiss
	}, time.Second, 10*time.Millisecond)
}

func TestDecisionCache_Flush(t *testing.T) {
	cache := memory.NewDecisionCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", &domain.TransitionDecision{}, 0))
	require.NoError(t, cache.Set(ctx, "b", &domain.TransitionDecision{}, 0))
	require.NoError(t, cache.Flush(ctx))

	assert.Zero(t, cache.Len())
	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestNodeStore_Generation(t *testing.T) {
	store := memory.NewNodeStore(domain.NodeSnapshot{ID: 1})
	gen := store.Generation()

	store.Put(domain.NodeSnapshot{ID: 2})
	afterPut := store.Generation()
	assert.Greater(t, afterPut, gen)

	store.Replace(nil)
	assert.Greater(t, store.Generation(), afterPut)
}

func TestLocker_Serializes(t *testing.T) {
	locker := memory.NewLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "seed", time.Second)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		unlock2, err := locker.Lock(ctx, "seed", time.Second)
		if err == nil {
			_ = unlock2(ctx)
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, unlock(ctx))
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestLocker_ContextCancel(t *testing.T) {
	locker := memory.NewLocker()
	unlock, err := locker.Lock(context.Background(), "seed", time.Second)
	require.NoError(t, err)
	defer unlock(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "seed", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
