package registry

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New[string, int]()
	assert.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Frozen())
}

func TestRegisterAndGet(t *testing.T) {
	r := New[string, int]()

	require.NoError(t, r.Register("one", 1))
	require.NoError(t, r.Register("two", 2))

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = r.Get("three")
	assert.False(t, ok)
	assert.Equal(t, 0, v) // zero value

	assert.True(t, r.Has("two"))
	assert.False(t, r.Has("three"))
}

func TestRegisterDuplicate(t *testing.T) {
	r := New[string, string]()

	require.NoError(t, r.Register("key", "old"))
	assert.ErrorIs(t, r.Register("key", "new"), ErrDuplicate)

	v, _ := r.Get("key")
	assert.Equal(t, "old", v, "first registration wins")
}

func TestFreeze(t *testing.T) {
	r := New[string, int]()
	r.MustRegister("a", 1)
	r.Freeze()
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register("b", 2), ErrFrozen)
	assert.Equal(t, 1, r.Len())

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestMustRegisterPanics(t *testing.T) {
	r := New[string, int]()
	r.MustRegister("a", 1)
	assert.Panics(t, func() { r.MustRegister("a", 2) })
}

func TestSortedKeys(t *testing.T) {
	r := New[string, int]()
	for _, k := range []string{"pear", "apple", "fig"} {
		r.MustRegister(k, len(k))
	}

	keys := r.SortedKeys(func(a, b string) bool { return a < b })
	assert.Equal(t, []string{"apple", "fig", "pear"}, keys)
}

func TestRangeEarlyStop(t *testing.T) {
	r := New[int, int]()
	for i := 0; i < 10; i++ {
		r.MustRegister(i, i)
	}

	count := 0
	r.Range(func(_, _ int) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count)
}

func TestRangeAllowsRegister(t *testing.T) {
	r := New[string, int]()
	r.MustRegister("a", 1)

	r.Range(func(k string, v int) bool {
		require.NoError(t, r.Register(strings.ToUpper(k), v))
		return true
	})
	assert.Equal(t, 2, r.Len())
}

func TestConcurrentRegisterThenFreeze(t *testing.T) {
	r := New[string, int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(fmt.Sprintf("k%d", i), i)
		}(i)
	}
	wg.Wait()
	r.Freeze()

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, ok := r.Get(fmt.Sprintf("k%d", i))
			assert.True(t, ok)
			assert.Equal(t, i, v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, r.Len())
}

func BenchmarkGetFrozen(b *testing.B) {
	r := New[string, int]()
	r.MustRegister("key", 42)
	r.Freeze()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Get("key")
	}
}
