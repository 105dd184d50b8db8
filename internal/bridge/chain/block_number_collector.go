package chain

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// maxAcceptedRange is the largest spread tolerated among agreeing block numbers.
const maxAcceptedRange = 8

// BlockNumberCollector derives a conservative chain tip from several endpoints.
// The reported tip never moves backwards.
type BlockNumberCollector[C BlockNumberSource] struct {
	quorum *Quorum[C]
	logger *zap.Logger

	mu     sync.Mutex
	latest uint64
	known  bool
}

// NewBlockNumberCollector builds a collector over q.
func NewBlockNumberCollector[C BlockNumberSource](q *Quorum[C]) *BlockNumberCollector[C] {
	return &BlockNumberCollector[C]{
		quorum: q,
		logger: q.logger.Named("blockNumber"),
	}
}

// LatestBlockNumber collects block numbers and returns the lowest value of the
// first window of Threshold() sorted numbers whose spread is within range.
// The bool is false until a tip has been established.
func (c *BlockNumberCollector[C]) LatestBlockNumber(ctx context.Context) (uint64, bool, error) {
	numbers, err := Collect(ctx, c.quorum, "block_number", func(ctx context.Context, conn C) (uint64, error) {
		return conn.BlockNumber(ctx)
	}, false)
	if err != nil {
		return 0, false, err
	}

	candidate, found := lowestAgreeingWindow(numbers, c.quorum.Threshold())
	if !found {
		c.logger.Warn("block numbers spread too wide", zap.Uint64s("numbers", numbers))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if found && (!c.known || candidate > c.latest) {
		c.logger.Debug("new latest block number", zap.Uint64("number", candidate))
		c.latest = candidate
		c.known = true
	}
	return c.latest, c.known, nil
}

func lowestAgreeingWindow(numbers []uint64, quorum int) (uint64, bool) {
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)
	for i := 0; i+quorum <= len(sorted); i++ {
		if sorted[i+quorum-1]-sorted[i] > maxAcceptedRange {
			continue
		}
		return sorted[i], true
	}
	return 0, false
}
