package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueFIFO(t *testing.T) {
	ctx := context.Background()
	q := NewInMemoryQueue()

	require.NoError(t, q.Push(ctx, &Task{ID: "1", URL: "a"}))
	require.NoError(t, q.Push(ctx, &Task{ID: "2", URL: "b"}))

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	first, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", first.URL)

	second, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", second.URL)

	_, err = q.Pop(ctx)
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestInMemoryQueueClosed(t *testing.T) {
	ctx := context.Background()
	q := NewInMemoryQueue()
	require.NoError(t, q.Close())

	err := q.Push(ctx, &Task{URL: "a"})
	assert.ErrorIs(t, err, ErrQueueClosed)

	_, err = q.Pop(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestWorklistDeduplicates(t *testing.T) {
	ctx := context.Background()
	w := NewWorklist(NewInMemoryQueue())

	var queued []string
	for _, url := range []string{"a", " a ", "b", "a"} {
		added, err := w.Add(ctx, url)
		require.NoError(t, err)
		if added {
			queued = append(queued, url)
		}
	}

	var order []string
	for {
		task, err := w.Next(ctx)
		if err != nil {
			assert.ErrorIs(t, err, ErrQueueEmpty)
			break
		}
		order = append(order, task.URL)
	}

	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 2, w.SeenCount())
}

func TestWorklistSkipsBlankURLs(t *testing.T) {
	ctx := context.Background()
	w := NewWorklist(NewInMemoryQueue())

	added, err := w.Add(ctx, "   ")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, w.SeenCount())
}

func TestWorklistAssignsTaskIDs(t *testing.T) {
	ctx := context.Background()
	w := NewWorklist(NewInMemoryQueue())

	_, err := w.Add(ctx, "https://example.com/product/x-P1")
	require.NoError(t, err)

	task, err := w.Next(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.False(t, task.EnqueuedAt.IsZero())
}
