package upool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolFidelity(t *testing.T) {
	allocated := 0
	p := New(2, func() int { allocated++; return allocated }, func(int) {})

	require.True(t, p.Push(1))
	require.True(t, p.Push(2))
	require.False(t, p.Push(3), "pool must not grow past configured depth")

	v, ok := p.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v, "LIFO: last pushed pops first")

	v, ok = p.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = p.Pop()
	require.False(t, ok, "pop on empty pool returns false")
}

func TestPoolVacuumEmptiesWithoutFreeingPool(t *testing.T) {
	freed := make([]int, 0)
	p := New(4, func() int { return 0 }, func(v int) { freed = append(freed, v) })
	p.Push(1)
	p.Push(2)
	p.Push(3)

	p.Vacuum()
	assert.Equal(t, 0, p.Depth())

	// pool remains usable after vacuum
	require.True(t, p.Push(9))
	v, ok := p.Pop()
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestPoolAllocFallsBackWhenEmpty(t *testing.T) {
	calls := 0
	p := New(1, func() int { calls++; return 42 }, func(int) {})
	v := p.Alloc()
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestPoolConcurrentPushPop(t *testing.T) {
	p := New(64, func() int { return 0 }, func(int) {})
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Push(i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 64, p.Depth())

	seen := map[int]bool{}
	for i := 0; i < 64; i++ {
		v, ok := p.Pop()
		require.True(t, ok)
		seen[v] = true
	}
	assert.Len(t, seen, 64, "pool-pop returns only previously-pool-pushed elements")
}
