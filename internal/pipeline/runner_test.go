package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flumeio/flume/internal/queue"
)

func buildRun(t *testing.T, capacity, producers, consumers, itemsPerProducer int) (Result, *Collector[string]) {
	t.Helper()
	q := queue.MustNew[string](capacity)
	sink := NewCollector[string]()

	ps := make([]*Producer[string], producers)
	for p := 0; p < producers; p++ {
		src := Generate(itemsPerProducer, func(i int) string {
			return fmt.Sprintf("p%d-item-%d", p, i)
		})
		ps[p] = NewProducer(q, src,
			WithProducerName[string](fmt.Sprintf("producer-%d", p)),
		)
	}
	cs := make([]*Consumer[string], consumers)
	for c := 0; c < consumers; c++ {
		cs[c] = NewConsumer[string](q, sink,
			WithConsumerName[string](fmt.Sprintf("consumer-%d", c)),
			WithPollTimeout[string](20*time.Millisecond),
		)
	}

	return NewRunner(q, ps, cs).Run(context.Background()), sink
}

func TestRunner(t *testing.T) {
	t.Run("no loss no duplication", func(t *testing.T) {
		result, sink := buildRun(t, 10, 2, 2, 50)

		assert.Equal(t, uint64(100), result.Produced)
		assert.Equal(t, uint64(100), result.Consumed)
		assert.NotEmpty(t, result.RunID)

		items := sink.Items()
		require.Len(t, items, 100)
		seen := make(map[string]bool, len(items))
		for _, item := range items {
			assert.False(t, seen[item], "duplicate item %s", item)
			seen[item] = true
		}

		assert.Equal(t, uint64(100), result.Queue.Added)
		assert.Equal(t, uint64(100), result.Queue.Removed)
		assert.Equal(t, 0, result.Queue.Size)
	})

	t.Run("single slot queue transfers fully", func(t *testing.T) {
		result, sink := buildRun(t, 1, 1, 1, 10)
		assert.Equal(t, uint64(10), result.Produced)
		assert.Equal(t, uint64(10), result.Consumed)
		assert.Equal(t, 10, sink.Size())
	})

	t.Run("large queue transfers fully", func(t *testing.T) {
		result, sink := buildRun(t, 1000, 1, 1, 500)
		assert.Equal(t, uint64(500), result.Produced)
		assert.Equal(t, uint64(500), result.Consumed)
		assert.Equal(t, 500, sink.Size())
	})

	t.Run("per-producer order is preserved", func(t *testing.T) {
		_, sink := buildRun(t, 5, 1, 1, 20)
		items := sink.Items()
		require.Len(t, items, 20)
		for i, item := range items {
			assert.Equal(t, fmt.Sprintf("p0-item-%d", i), item)
		}
	})

	t.Run("context cancellation stops the run", func(t *testing.T) {
		q := queue.MustNew[int](2)
		sink := NewCollector[int]()

		// Infinite source; only cancellation can end this run.
		src := FromFunc(func() (int, bool) { return 1, true })
		p := NewProducer(q, src, WithProduceDelay[int](time.Millisecond))
		c := NewConsumer[int](q, sink,
			WithPollTimeout[int](10*time.Millisecond),
			WithConsumeDelay[int](time.Millisecond),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		done := make(chan Result, 1)
		go func() {
			done <- NewRunner(q, []*Producer[int]{p}, []*Consumer[int]{c}).Run(ctx)
		}()

		select {
		case result := <-done:
			assert.True(t, q.IsShutdown())
			assert.Greater(t, result.Produced, uint64(0))
		case <-time.After(5 * time.Second):
			t.Fatal("run did not stop after cancellation")
		}
	})
}
