package priority

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PopsInOrder(t *testing.T) {
	q := NewQueue(func(a, b int) bool { return a < b })

	values := rand.Perm(100)
	for _, v := range values {
		q.Push(v)
	}
	require.Equal(t, 100, q.Len())

	var got []int
	for q.Len() > 0 {
		v, ok := q.Pop()
		require.True(t, ok)
		got = append(got, v)
	}

	assert.True(t, sort.IntsAreSorted(got))
	assert.Len(t, got, 100)
}

func TestQueue_Empty(t *testing.T) {
	q := NewQueue(func(a, b int) bool { return a < b })

	_, ok := q.Peek()
	assert.False(t, ok)

	_, ok = q.Pop()
	assert.False(t, ok)

	assert.Equal(t, 0, q.Len())
}

func TestQueue_Peek(t *testing.T) {
	q := NewQueue(func(a, b int) bool { return a < b })
	q.Push(5)
	q.Push(3)
	q.Push(7)

	v, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 3, q.Len(), "peek must not remove")
}

func TestQueue_FixTop(t *testing.T) {
	type item struct{ v int }
	q := NewQueue(func(a, b *item) bool { return a.v < b.v })
	q.Push(&item{v: 1})
	q.Push(&item{v: 4})
	q.Push(&item{v: 6})

	// Replace the minimum in place, as the merge loop does.
	top, ok := q.Peek()
	require.True(t, ok)
	require.Equal(t, 1, top.v)
	top.v = 5
	q.FixTop()

	var got []int
	for q.Len() > 0 {
		it, _ := q.Pop()
		got = append(got, it.v)
	}
	assert.Equal(t, []int{4, 5, 6}, got)
}

func TestQueue_MaxHeap(t *testing.T) {
	q := NewQueue(func(a, b int) bool { return a > b })
	for _, v := range []int{10, 25, 15} {
		q.Push(v)
	}

	var got []int
	for q.Len() > 0 {
		v, _ := q.Pop()
		got = append(got, v)
	}
	assert.Equal(t, []int{25, 15, 10}, got)
}
