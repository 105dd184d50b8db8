package relay

import (
	"context"
	"testing"
	"time"

	"github.com/goodnatureofminers/bridge-relay/internal/bridge/model"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewQueue[int]("q", 3)

	for i := 1; i <= 3; i++ {
		require.NoError(t, q.Offer(ctx, i))
	}
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 0, q.Free())

	for want := 1; want <= 3; want++ {
		got, err := q.Take(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 3, q.Free())
}

func TestQueue_PeekKeepsHead(t *testing.T) {
	ctx := context.Background()
	q := NewQueue[string]("q", 2)

	_, ok := q.Peek()
	assert.False(t, ok)

	require.NoError(t, q.Offer(ctx, "a"))
	require.NoError(t, q.Offer(ctx, "b"))

	for range 2 {
		head, ok := q.Peek()
		require.True(t, ok)
		assert.Equal(t, "a", head)
		assert.Equal(t, 2, q.Len())
	}

	got, err := q.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, "b", head)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_OfferBlocksWhenFull(t *testing.T) {
	q := NewQueue[int]("q", 1)
	require.NoError(t, q.Offer(context.Background(), 1))

	// a parked head still occupies its slot
	_, ok := q.Peek()
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Offer(ctx, 2)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_OfferUnblocksAfterTake(t *testing.T) {
	ctx := context.Background()
	q := NewQueue[int]("q", 1)
	require.NoError(t, q.Offer(ctx, 1))

	done := make(chan error, 1)
	go func() { done <- q.Offer(ctx, 2) }()

	select {
	case <-done:
		t.Fatal("offer returned while the queue was full")
	case <-time.After(10 * time.Millisecond):
	}

	got, err := q.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	require.NoError(t, <-done)

	got, err = q.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestQueue_TakeHonoursContext(t *testing.T) {
	q := NewQueue[int]("q", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Take(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewQueue_MinimumCapacity(t *testing.T) {
	q := NewQueue[int]("q", 0)
	assert.Equal(t, 1, q.Cap())
	assert.Equal(t, "q", q.Name())
}

func TestQueueLogger_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := NewMockMetrics(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	qa := NewQueue[*model.StatefulBundle]("qa_stored", 2)
	qb := NewQueue[*model.StatefulBundle]("qb_signed", 2)
	require.NoError(t, qa.Offer(ctx, storedBundle(1)))

	metrics.EXPECT().ObserveQueueLength("qa_stored", 1).Times(2)
	metrics.EXPECT().ObserveQueueLength("qb_signed", 0).Times(2)

	l := &queueLogger{queues: []*bundleQueue{qa, qb}, interval: time.Minute, logger: zap.NewNop(), metrics: metrics}
	l.sleep, _ = stopAfter(2, cancel)

	require.ErrorIs(t, l.Run(ctx), context.Canceled)
}
