package refcount

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefcountSingleRelease(t *testing.T) {
	freed := 0
	r := New(func() { freed++ })
	require.False(t, r.Dead())
	require.True(t, r.Release())
	require.Equal(t, 1, freed)
	require.True(t, r.Dead())
}

func TestRefcountConservation(t *testing.T) {
	freed := 0
	r := New(func() { freed++ })
	r.Use()
	r.Use()
	assert.Equal(t, int64(3), r.Count())

	assert.False(t, r.Release())
	assert.False(t, r.Release())
	assert.True(t, r.Release())
	assert.Equal(t, 1, freed, "destructor must run exactly once")
}

func TestRefcountStaticIsImmortal(t *testing.T) {
	r := Static()
	r.Use()
	assert.False(t, r.Release())
	assert.False(t, r.Dead())
}

func TestRefcountConcurrentUseRelease(t *testing.T) {
	const n = 200
	freed := 0
	r := New(func() { freed++ })

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		r.Use()
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Release()
		}()
	}
	wg.Wait()
	require.False(t, r.Dead())
	require.True(t, r.Release())
	require.Equal(t, 1, freed)
}
