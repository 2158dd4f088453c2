package group

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Size: 1, Grain: 1}.Validate())
	assert.NoError(t, Config{Size: 8, Grain: 4}.Validate())
	assert.Error(t, Config{Size: 0, Grain: 1}.Validate())
	assert.Error(t, Config{Size: 4, Grain: 0}.Validate())
	assert.Error(t, Config{Size: -1, Grain: -1}.Validate())
}

func TestLaunchRejectsBadConfig(t *testing.T) {
	err := Launch(Config{Size: 0, Grain: 1}, func(*Group, Lane) {})
	require.Error(t, err)
}

func TestLaunchRunsEveryLaneOnce(t *testing.T) {
	const size = 8
	var seen [size]atomic.Int32

	err := Launch(Config{Size: size, Grain: 2}, func(g *Group, l Lane) {
		seen[l.Index()].Add(1)
	})
	require.NoError(t, err)

	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "lane %d", i)
	}
}

func TestGroupShape(t *testing.T) {
	err := Launch(Config{Size: 4, Grain: 3}, func(g *Group, l Lane) {
		if l.Index() != 0 {
			return
		}
		assert.Equal(t, 4, g.Size())
		assert.Equal(t, 3, g.Grain())
		assert.Equal(t, 12, g.TileSize())
	})
	require.NoError(t, err)
}

// TestWaitLockStep drives many rounds of write-barrier-read-barrier and
// checks that after each barrier every lane observes every other lane's
// write for that round.
func TestWaitLockStep(t *testing.T) {
	const size = 8
	const rounds = 200

	vals := make([]int, size)
	var mismatches atomic.Int64

	err := Launch(Config{Size: size, Grain: 1}, func(g *Group, l Lane) {
		for r := 1; r <= rounds; r++ {
			vals[l.Index()] = r
			g.Wait()
			for i := range vals {
				if vals[i] != r {
					mismatches.Add(1)
				}
			}
			g.Wait()
		}
	})
	require.NoError(t, err)
	assert.Zero(t, mismatches.Load(), "lanes fell out of lock-step")
}

func TestCollectiveRunsOnceAndBroadcasts(t *testing.T) {
	const size = 6
	var calls atomic.Int32
	results := make([]any, size)

	err := Launch(Config{Size: size, Grain: 1}, func(g *Group, l Lane) {
		v := g.Collective(l, func() any {
			calls.Add(1)
			return &struct{ n int }{n: 42}
		})
		results[l.Index()] = v
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "collective fn must run exactly once")
	for i := 1; i < size; i++ {
		assert.Same(t, results[0], results[i], "lane %d received a different value", i)
	}
}

func TestCollectiveSequence(t *testing.T) {
	// Two back-to-back collectives must not bleed values into each other.
	const size = 4
	var wrong atomic.Int32

	err := Launch(Config{Size: size, Grain: 1}, func(g *Group, l Lane) {
		a := g.Collective(l, func() any { return 1 })
		b := g.Collective(l, func() any { return 2 })
		if a.(int) != 1 || b.(int) != 2 {
			wrong.Add(1)
		}
	})
	require.NoError(t, err)
	assert.Zero(t, wrong.Load())
}

func TestCopyN(t *testing.T) {
	const size = 4
	src := make([]int, 37)
	for i := range src {
		src[i] = i * i
	}
	dst := make([]int, len(src))

	err := Launch(Config{Size: size, Grain: 1}, func(g *Group, l Lane) {
		CopyN(g, l, src, len(src), dst)
		g.Wait()
	})
	require.NoError(t, err)
	assert.Equal(t, src, dst)
}

func TestCopyNPartial(t *testing.T) {
	src := []int{1, 2, 3, 4, 5}
	dst := make([]int, 5)

	err := Launch(Config{Size: 3, Grain: 1}, func(g *Group, l Lane) {
		CopyN(g, l, src, 3, dst)
		g.Wait()
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 0, 0}, dst)
}
