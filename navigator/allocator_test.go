package navigator_test

import (
	"math"
	"sync"
	"testing"

	"github.com/getdocsy/docsee"
	"github.com/getdocsy/docsee/navigator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_Next(t *testing.T) {
	t.Parallel()

	t.Run("identifiers are strictly increasing", func(t *testing.T) {
		t.Parallel()
		alloc := navigator.NewAllocator(1)

		prev, err := alloc.Next()
		require.NoError(t, err)
		for i := 0; i < 1000; i++ {
			id, err := alloc.Next()
			require.NoError(t, err)
			require.Greater(t, id, prev)
			prev = id
		}
	})

	t.Run("concurrent callers never share an identifier", func(t *testing.T) {
		t.Parallel()
		alloc := navigator.NewAllocator(1)

		const goroutines = 16
		const perGoroutine = 250

		results := make([][]uint32, goroutines)
		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			g := g
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perGoroutine; i++ {
					id, err := alloc.Next()
					if err != nil {
						return
					}
					results[g] = append(results[g], id)
				}
			}()
		}
		wg.Wait()

		seen := map[uint32]bool{}
		for _, ids := range results {
			require.Len(t, ids, perGoroutine)
			for _, id := range ids {
				require.False(t, seen[id], "identifier %d handed out twice", id)
				seen[id] = true
			}
		}
	})

	t.Run("exhaustion is an explicit error", func(t *testing.T) {
		t.Parallel()
		alloc := navigator.NewAllocator(math.MaxUint32)

		id, err := alloc.Next()
		require.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), id)

		_, err = alloc.Next()
		assert.Equal(t, docsee.EINTERNAL, docsee.ErrorCode(err))

		// Exhaustion is sticky.
		_, err = alloc.Next()
		assert.Equal(t, docsee.EINTERNAL, docsee.ErrorCode(err))
	})
}

func TestCompositeID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips its components", func(t *testing.T) {
		t.Parallel()
		for _, tc := range []struct {
			topLevel uint32
			node     uint32
		}{
			{0, 0},
			{1, 2},
			{math.MaxUint32, 0},
			{0, math.MaxUint32},
			{math.MaxUint32, math.MaxUint32},
		} {
			id := navigator.NewCompositeID(tc.topLevel, tc.node)
			assert.Equal(t, tc.topLevel, id.TopLevelID())
			assert.Equal(t, tc.node, id.NodeID())
		}
	})

	t.Run("distinct indices never collide", func(t *testing.T) {
		t.Parallel()
		a := navigator.NewCompositeID(1, 42)
		b := navigator.NewCompositeID(2, 42)
		assert.NotEqual(t, a, b)
	})

	t.Run("string form", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "5.7", navigator.NewCompositeID(5, 7).String())
	})
}
