package containers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[string](2)
	assert.True(t, rq.IsEmpty())

	require.NoError(t, rq.Enqueue("a"))
	require.NoError(t, rq.Enqueue("b"))
	assert.True(t, rq.IsFull())
	assert.ErrorIs(t, rq.Enqueue("c"), ErrQueueFull)

	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	require.NoError(t, rq.Enqueue("c"))
	v, err = rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	assert.Equal(t, []string{"b", "c"}, rq.Drain())
	_, err = rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueConcurrentProducers(t *testing.T) {
	rq := NewRingQueue[int](64)
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 16; i++ {
				assert.NoError(t, rq.Enqueue(i))
			}
		}()
	}
	wg.Wait()
	assert.True(t, rq.IsFull())
	assert.Len(t, rq.Drain(), 64)
	assert.Equal(t, 0, rq.Len())
}
